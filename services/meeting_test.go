package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeteasy-backend/cache"
	"meeteasy-backend/models"
	"meeteasy-backend/store"
)

func TestMain(m *testing.M) {
	// Real backoff windows would make the retry tests sleep for seconds.
	retryDelay = time.Millisecond
	os.Exit(m.Run())
}

func newTestService() (*MeetingService, *store.MemoryStore) {
	ms := store.NewMemoryStore()
	return NewMeetingService(ms, cache.NewMeetingCache(nil)), ms
}

func newMeeting(creatorID, creatorName string) *models.Meeting {
	return &models.Meeting{
		Title:       "Team dinner",
		CreatorID:   creatorID,
		CreatorName: creatorName,
		Participants: []models.Participant{
			{ID: creatorID, Name: creatorName, Status: models.ParticipantConfirmed, JoinedAt: time.Now().UTC()},
		},
	}
}

func TestCreateAndGetMeeting(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	id, err := svc.Create(ctx, newMeeting("alice", "Alice"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	m, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, "Team dinner", m.Title)
	assert.Equal(t, "alice", m.CreatorID)
	assert.Equal(t, models.MeetingPlanning, m.Status)
	assert.Len(t, m.InviteCode, 6)
	assert.False(t, m.CreatedAt.IsZero())
	assert.False(t, m.UpdatedAt.IsZero())
	require.Len(t, m.Participants, 1)
	assert.Equal(t, "alice", m.Participants[0].ID)
	assert.Empty(t, m.ScheduleOptions)
	assert.Nil(t, m.ConfirmedDate)
}

func TestCreateMeetingValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Create(ctx, &models.Meeting{Title: "   ", CreatorID: "alice"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, &models.Meeting{Title: "No creator"})
	assert.ErrorIs(t, err, ErrValidation)

	// The creator must appear in the participant list.
	_, err = svc.Create(ctx, &models.Meeting{
		Title:     "Creator missing",
		CreatorID: "alice",
		Participants: []models.Participant{
			{ID: "bob", Name: "Bob", Status: models.ParticipantPending},
		},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetServesCachedCopyDuringOutage(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	svc := NewMeetingService(ms, cache.NewMemoryMeetingCache())

	id, err := svc.Create(ctx, newMeeting("alice", "Alice"))
	require.NoError(t, err)

	// A successful read populates the cache.
	_, err = svc.Get(ctx, id)
	require.NoError(t, err)

	// With the backend down past the retry budget, the last known copy
	// is served instead of an error.
	ms.FailNext(3)
	m, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, "Team dinner", m.Title)

	// A cache miss still surfaces the outage.
	ms.FailNext(3)
	_, err = svc.Get(ctx, "never-seen")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestGetMissingMeetingReturnsNil(t *testing.T) {
	svc, _ := newTestService()

	m, err := svc.Get(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestAbsentOptionalFieldsAreOmitted(t *testing.T) {
	ctx := context.Background()
	svc, ms := newTestService()

	meeting := newMeeting("alice", "Alice")
	meeting.Participants[0].Email = "alice@example.com"
	id, err := svc.Create(ctx, meeting)
	require.NoError(t, err)

	require.NoError(t, svc.Join(ctx, id, models.Participant{ID: "bob", Name: "Bob"}))

	// The stored document must not carry the optional keys at all, not
	// carry them as empty strings.
	doc, err := ms.GetByID(ctx, "meetings", id)
	require.NoError(t, err)
	participants := doc.Data["participants"].([]any)
	require.Len(t, participants, 2)

	alice := participants[0].(map[string]any)
	assert.Equal(t, "alice@example.com", alice["email"])

	bob := participants[1].(map[string]any)
	_, hasEmail := bob["email"]
	assert.False(t, hasEmail)
	_, hasImage := bob["profileImage"]
	assert.False(t, hasImage)

	_, hasDescription := doc.Data["description"]
	assert.False(t, hasDescription)
	_, hasLocation := doc.Data["location"]
	assert.False(t, hasLocation)
}

func TestUpdateMeeting(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	id, err := svc.Create(ctx, newMeeting("alice", "Alice"))
	require.NoError(t, err)

	title := "Quarterly offsite"
	description := "Now with an agenda"
	require.NoError(t, svc.Update(ctx, id, models.MeetingUpdate{
		Title:       &title,
		Description: &description,
	}))

	m, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly offsite", m.Title)
	assert.Equal(t, "Now with an agenda", m.Description)

	empty := " "
	assert.ErrorIs(t, svc.Update(ctx, id, models.MeetingUpdate{Title: &empty}), ErrValidation)

	assert.ErrorIs(t, svc.Update(ctx, "missing", models.MeetingUpdate{Description: &description}), ErrNotFound)
}

func TestDeleteMeeting(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	id, err := svc.Create(ctx, newMeeting("alice", "Alice"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))

	m, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestFindByInviteCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	id, err := svc.Create(ctx, newMeeting("alice", "Alice"))
	require.NoError(t, err)

	created, err := svc.Get(ctx, id)
	require.NoError(t, err)

	found, err := svc.FindByInviteCode(ctx, created.InviteCode)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, id, found.ID)

	none, err := svc.FindByInviteCode(ctx, "ZZZZZZ")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestListUserMeetings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	first, err := svc.Create(ctx, newMeeting("alice", "Alice"))
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	second, err := svc.Create(ctx, newMeeting("bob", "Bob"))
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, second, models.Participant{ID: "alice", Name: "Alice"}))
	time.Sleep(time.Millisecond)

	_, err = svc.Create(ctx, newMeeting("carol", "Carol"))
	require.NoError(t, err)

	meetings, err := svc.ListUserMeetings(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, meetings, 2)
	// Newest first: created or joined, both count.
	assert.Equal(t, second, meetings[0].ID)
	assert.Equal(t, first, meetings[1].ID)

	meetings, err = svc.ListUserMeetings(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, meetings)
}

// Full lifecycle: create, join by invite code, propose, vote, confirm.
func TestMeetingLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	id, err := svc.Create(ctx, newMeeting("alice", "Alice"))
	require.NoError(t, err)

	created, err := svc.Get(ctx, id)
	require.NoError(t, err)

	joined, err := svc.FindByInviteCode(ctx, created.InviteCode)
	require.NoError(t, err)
	require.NotNil(t, joined)
	require.NoError(t, svc.Join(ctx, joined.ID, models.Participant{ID: "bob", Name: "Bob"}))

	date := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	option, err := svc.AddScheduleOption(ctx, id, date, "오후 2시")
	require.NoError(t, err)

	require.NoError(t, svc.ToggleVote(ctx, id, option.ID, "bob"))
	require.NoError(t, svc.ToggleVote(ctx, id, option.ID, "alice"))

	m, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, m.ScheduleOptions, 1)
	assert.Equal(t, []string{"bob", "alice"}, m.ScheduleOptions[0].Votes)

	best := BestOption(m.ScheduleOptions)
	require.NotNil(t, best)
	assert.Equal(t, option.ID, best.ID)

	require.NoError(t, svc.ConfirmSchedule(ctx, id, best.ID))

	m, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.MeetingConfirmed, m.Status)
	require.NotNil(t, m.ConfirmedDate)
	assert.True(t, m.ConfirmedDate.Equal(date))
	assert.Equal(t, "오후 2시", m.ConfirmedTime)
	require.Len(t, m.Participants, 2)
}
