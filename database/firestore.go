package database

import (
	"context"
	"log"
	"meeteasy-backend/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	FirebaseApp *firebase.App
	Firestore   *firestore.Client
	FCM         *messaging.Client
)

func ConnectFirebase() {
	ctx := context.Background()

	conf := &firebase.Config{ProjectID: config.AppConfig.FirebaseProject}

	var err error
	FirebaseApp, err = firebase.NewApp(ctx, conf, option.WithCredentialsFile(config.AppConfig.FirebaseCredPath))
	if err != nil {
		log.Fatal("Failed to initialize Firebase app:", err)
	}

	Firestore, err = FirebaseApp.Firestore(ctx)
	if err != nil {
		log.Fatal("Failed to connect to Firestore:", err)
	}

	log.Println("✅ Firestore connected successfully")

	// FCM is optional, push notifications are skipped if unavailable
	FCM, err = FirebaseApp.Messaging(ctx)
	if err != nil {
		log.Println("⚠️  FCM not available, running without push notifications:", err)
		FCM = nil
	}
}
