package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeteasy-backend/store"
)

// Older documents stored timestamps as ISO strings and arrays as []any.
// Decoding must normalize both shapes.
func TestDecodeMeetingLegacyShapes(t *testing.T) {
	doc := store.Document{
		ID: "m1",
		Data: map[string]any{
			"title":         "Legacy meeting",
			"creatorId":     "alice",
			"creatorName":   "Alice",
			"inviteCode":    "ABC123",
			"status":        "confirmed",
			"confirmedDate": "2024-07-10T00:00:00Z",
			"confirmedTime": "오후 2시",
			"createdAt":     "2024-07-01T09:30:00Z",
			"updatedAt":     time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC),
			"participants": []any{
				map[string]any{
					"id":       "alice",
					"name":     "Alice",
					"status":   "confirmed",
					"joinedAt": "2024-07-01T09:30:00Z",
				},
			},
			"scheduleOptions": []any{
				map[string]any{
					"id":    "opt-1",
					"date":  "2024-07-10T00:00:00Z",
					"time":  "오후 2시",
					"votes": []any{"alice", "bob"},
				},
			},
		},
	}

	m := decodeMeeting(doc)

	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, "Legacy meeting", m.Title)
	assert.Equal(t, time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC), m.CreatedAt)
	assert.Equal(t, time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC), m.UpdatedAt)
	require.NotNil(t, m.ConfirmedDate)
	assert.Equal(t, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), *m.ConfirmedDate)

	require.Len(t, m.Participants, 1)
	assert.Equal(t, time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC), m.Participants[0].JoinedAt)
	assert.Empty(t, m.Participants[0].Email)

	require.Len(t, m.ScheduleOptions, 1)
	assert.Equal(t, []string{"alice", "bob"}, m.ScheduleOptions[0].Votes)
	assert.Equal(t, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), m.ScheduleOptions[0].Date)
}

func TestDecodeMeetingMissingFields(t *testing.T) {
	m := decodeMeeting(store.Document{ID: "m2", Data: map[string]any{"title": "Bare"}})

	assert.Equal(t, "Bare", m.Title)
	assert.Nil(t, m.ConfirmedDate)
	assert.Nil(t, m.Location)
	assert.NotNil(t, m.Participants)
	assert.Empty(t, m.Participants)
	assert.NotNil(t, m.ScheduleOptions)
	assert.Empty(t, m.ScheduleOptions)
	assert.True(t, m.CreatedAt.IsZero())
}

func TestDecodeLocationWithCoordinates(t *testing.T) {
	m := decodeMeeting(store.Document{
		ID: "m3",
		Data: map[string]any{
			"title": "Located",
			"location": map[string]any{
				"name":    "Gangnam Station",
				"address": "Seoul",
				"coordinates": map[string]any{
					"latitude":  37.4979,
					"longitude": 127.0276,
				},
			},
		},
	})

	require.NotNil(t, m.Location)
	assert.Equal(t, "Gangnam Station", m.Location.Name)
	require.NotNil(t, m.Location.Coordinates)
	assert.InDelta(t, 37.4979, m.Location.Coordinates.Latitude, 0.0001)
	assert.InDelta(t, 127.0276, m.Location.Coordinates.Longitude, 0.0001)
}
