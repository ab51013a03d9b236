package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeteasy-backend/models"
	"meeteasy-backend/store"
)

func TestCreateAndGetProfile(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(store.NewMemoryStore())

	id, err := svc.CreateProfile(ctx, &models.UserProfile{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
	})
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.False(t, profile.CreatedAt.IsZero())

	missing, err := svc.GetProfile(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = svc.CreateProfile(ctx, &models.UserProfile{Name: "No Email"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFindByEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(store.NewMemoryStore())

	id, err := svc.CreateProfile(ctx, &models.UserProfile{
		Name:  "Alice",
		Email: "alice@example.com",
	})
	require.NoError(t, err)

	profile, err := svc.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, id, profile.ID)

	none, err := svc.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestUpdateProfileAndToken(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(store.NewMemoryStore())

	id, err := svc.CreateProfile(ctx, &models.UserProfile{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProfile(ctx, id, models.UpdateProfileRequest{Bio: "Planner of plans"}))
	require.NoError(t, svc.UpdateFCMToken(ctx, id, "device-token"))

	profile, err := svc.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Planner of plans", profile.Bio)
	assert.Equal(t, "Alice", profile.Name, "untouched fields survive the merge")
	assert.Equal(t, "device-token", profile.FCMToken)

	assert.ErrorIs(t, svc.UpdateProfile(ctx, "missing", models.UpdateProfileRequest{Bio: "x"}), ErrNotFound)
	assert.ErrorIs(t, svc.UpdateFCMToken(ctx, "missing", "tok"), ErrNotFound)
}

func TestDeleteProfile(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(store.NewMemoryStore())

	id, err := svc.CreateProfile(ctx, &models.UserProfile{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProfile(ctx, id))

	profile, err := svc.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, profile)
}
