package services

import (
	"context"
	"errors"
	"fmt"

	"meeteasy-backend/models"
	"meeteasy-backend/store"
)

const usersCollection = "users"

// UserService manages user profile documents. Authentication itself (token
// verification, password checks) lives at the handler/middleware boundary;
// this service only owns the profile records.
type UserService struct {
	store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

// CreateProfile stores a new profile and returns its id.
func (s *UserService) CreateProfile(ctx context.Context, profile *models.UserProfile) (string, error) {
	if profile.Email == "" || profile.Name == "" {
		return "", fmt.Errorf("%w: name and email are required", ErrValidation)
	}

	return withRetry(ctx, s.store, "create user profile", func() (string, error) {
		doc := map[string]any{
			"name":         profile.Name,
			"email":        profile.Email,
			"passwordHash": profile.PasswordHash,
			"createdAt":    store.ServerTimestamp,
			"updatedAt":    store.ServerTimestamp,
		}
		if profile.PhotoURL != "" {
			doc["photoURL"] = profile.PhotoURL
		}
		if profile.PhoneNumber != "" {
			doc["phoneNumber"] = profile.PhoneNumber
		}
		if profile.Bio != "" {
			doc["bio"] = profile.Bio
		}
		return s.store.Insert(ctx, usersCollection, doc)
	})
}

// GetProfile returns nil when the user does not exist.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return withRetry(ctx, s.store, "get user profile", func() (*models.UserProfile, error) {
		doc, err := s.store.GetByID(ctx, usersCollection, userID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return decodeUserProfile(doc), nil
	})
}

// FindByEmail returns nil when no profile carries the email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	return withRetry(ctx, s.store, "find user by email", func() (*models.UserProfile, error) {
		docs, err := s.store.Find(ctx, usersCollection, store.Query{
			Filters: []store.Filter{{Path: "email", Op: "==", Value: email}},
			Limit:   1,
		})
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, nil
		}
		return decodeUserProfile(docs[0]), nil
	})
}

// UpdateProfile merges non-empty fields into the profile document.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) error {
	fields := map[string]any{
		"updatedAt": store.ServerTimestamp,
	}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.PhotoURL != "" {
		fields["photoURL"] = req.PhotoURL
	}
	if req.PhoneNumber != "" {
		fields["phoneNumber"] = req.PhoneNumber
	}
	if req.Bio != "" {
		fields["bio"] = req.Bio
	}

	_, err := withRetry(ctx, s.store, "update user profile", func() (struct{}, error) {
		if err := s.store.Update(ctx, usersCollection, userID, fields); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return struct{}{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
			}
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	return err
}

// UpdateFCMToken stores the device push token for the user.
func (s *UserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	_, err := withRetry(ctx, s.store, "update fcm token", func() (struct{}, error) {
		err := s.store.Update(ctx, usersCollection, userID, map[string]any{
			"fcmToken":  token,
			"updatedAt": store.ServerTimestamp,
		})
		if errors.Is(err, store.ErrNotFound) {
			return struct{}{}, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return struct{}{}, err
	})
	return err
}

// DeleteProfile removes the user's profile document (account deletion).
func (s *UserService) DeleteProfile(ctx context.Context, userID string) error {
	_, err := withRetry(ctx, s.store, "delete user profile", func() (struct{}, error) {
		return struct{}{}, s.store.Remove(ctx, usersCollection, userID)
	})
	return err
}
