package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	FirebaseCredPath string
	FirebaseProject  string
	RedisURL         string
	JWTSecret        string
	SendGridAPIKey   string
	SendGridFrom     string
	AppName          string
	AppURL           string
}

var AppConfig *Config

func Load() {
	godotenv.Load() // Load .env file if present

	AppConfig = &Config{
		Port:             getEnv("PORT", "8080"),
		FirebaseCredPath: getEnv("FIREBASE_CREDENTIALS", "firebase-credentials.json"),
		FirebaseProject:  getEnv("FIREBASE_PROJECT_ID", "meeteasy-app"),
		RedisURL:         getEnv("REDIS_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", "meeteasy-dev-secret-change-me"),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		SendGridFrom:     getEnv("SENDGRID_FROM_EMAIL", "noreply@meeteasy.app"),
		AppName:          getEnv("APP_NAME", "Meeteasy"),
		AppURL:           getEnv("APP_URL", "https://meeteasy.app"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
