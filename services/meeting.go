package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"meeteasy-backend/cache"
	"meeteasy-backend/models"
	"meeteasy-backend/store"
)

const meetingsCollection = "meetings"

// MeetingService owns every read and write of meeting documents. Nothing else
// in the codebase touches the meetings collection.
type MeetingService struct {
	store store.Store
	cache cache.MeetingCache

	// Per-meeting mutexes serialize read-modify-write mutations so two
	// in-process callers cannot clobber each other's array rewrites.
	locks sync.Map
}

func NewMeetingService(st store.Store, c cache.MeetingCache) *MeetingService {
	return &MeetingService{store: st, cache: c}
}

// lockMeeting acquires the single-writer lock for a meeting id and returns
// the release func.
func (s *MeetingService) lockMeeting(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Create stores a new meeting and returns its id. The invite code is issued
// here; createdAt/updatedAt are stamped by the backend's clock.
func (s *MeetingService) Create(ctx context.Context, m *models.Meeting) (string, error) {
	if strings.TrimSpace(m.Title) == "" {
		return "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	if m.CreatorID == "" {
		return "", fmt.Errorf("%w: creator is required", ErrValidation)
	}
	if !m.IsParticipant(m.CreatorID) {
		return "", fmt.Errorf("%w: creator must be listed as a participant", ErrValidation)
	}

	return withRetry(ctx, s.store, "create meeting", func() (string, error) {
		code, err := s.generateUniqueInviteCode(ctx)
		if err != nil {
			return "", err
		}

		status := m.Status
		if status == "" {
			status = models.MeetingPlanning
		}

		doc := map[string]any{
			"title":           m.Title,
			"creatorId":       m.CreatorID,
			"creatorName":     m.CreatorName,
			"inviteCode":      code,
			"status":          status,
			"participants":    participantDocs(m.Participants),
			"scheduleOptions": optionDocs(m.ScheduleOptions),
			"createdAt":       store.ServerTimestamp,
			"updatedAt":       store.ServerTimestamp,
		}
		if m.Description != "" {
			doc["description"] = m.Description
		}
		if m.Location != nil {
			doc["location"] = locationDoc(m.Location)
		}

		id, err := s.store.Insert(ctx, meetingsCollection, doc)
		if err != nil {
			return "", err
		}

		log.Printf("✅ Meeting created: %s (invite code %s)", id, code)
		return id, nil
	})
}

// Get returns nil (not an error) when the meeting does not exist. When the
// backend stays unreachable through the retry policy, the last known copy
// from the cache is served instead; callers must tolerate staleness.
func (s *MeetingService) Get(ctx context.Context, meetingID string) (*models.Meeting, error) {
	m, err := withRetry(ctx, s.store, "get meeting", func() (*models.Meeting, error) {
		doc, err := s.store.GetByID(ctx, meetingsCollection, meetingID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		m := decodeMeeting(doc)
		s.cache.Put(ctx, m)
		return m, nil
	})
	if err != nil {
		if errors.Is(err, ErrBackendUnavailable) {
			if cached := s.cache.Get(ctx, meetingID); cached != nil {
				log.Printf("⚠️  Serving cached copy of meeting %s: %v", meetingID, err)
				return cached, nil
			}
		}
		return nil, err
	}
	return m, nil
}

// Update merges the set fields into the meeting document and rewrites
// updatedAt. Replaced arrays are re-encoded whole, because a partial array
// write is a whole-array overwrite at the store.
func (s *MeetingService) Update(ctx context.Context, meetingID string, updates models.MeetingUpdate) error {
	fields := map[string]any{
		"updatedAt": store.ServerTimestamp,
	}
	if updates.Title != nil {
		if strings.TrimSpace(*updates.Title) == "" {
			return fmt.Errorf("%w: title is required", ErrValidation)
		}
		fields["title"] = *updates.Title
	}
	if updates.Description != nil {
		fields["description"] = *updates.Description
	}
	if updates.Status != nil {
		fields["status"] = *updates.Status
	}
	if updates.ConfirmedDate != nil {
		fields["confirmedDate"] = *updates.ConfirmedDate
	}
	if updates.ConfirmedTime != nil {
		fields["confirmedTime"] = *updates.ConfirmedTime
	}
	if updates.Location != nil {
		fields["location"] = locationDoc(updates.Location)
	}
	if updates.Participants != nil {
		fields["participants"] = participantDocs(updates.Participants)
	}
	if updates.ScheduleOptions != nil {
		fields["scheduleOptions"] = optionDocs(updates.ScheduleOptions)
	}

	_, err := withRetry(ctx, s.store, "update meeting", func() (struct{}, error) {
		if err := s.store.Update(ctx, meetingsCollection, meetingID, fields); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return struct{}{}, fmt.Errorf("%w: meeting %s", ErrNotFound, meetingID)
			}
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, meetingID)
	return nil
}

// Delete removes the meeting document. It does not cascade to chat messages
// or other per-meeting data owned elsewhere; callers clean those up.
func (s *MeetingService) Delete(ctx context.Context, meetingID string) error {
	_, err := withRetry(ctx, s.store, "delete meeting", func() (struct{}, error) {
		return struct{}{}, s.store.Remove(ctx, meetingsCollection, meetingID)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, meetingID)
	log.Printf("✅ Meeting deleted: %s", meetingID)
	return nil
}

// FindByInviteCode is the sole lookup used at join time and by the invite
// code uniqueness check. Returns nil when no meeting carries the code.
func (s *MeetingService) FindByInviteCode(ctx context.Context, code string) (*models.Meeting, error) {
	return withRetry(ctx, s.store, "find meeting by invite code", func() (*models.Meeting, error) {
		docs, err := s.store.Find(ctx, meetingsCollection, store.Query{
			Filters: []store.Filter{{Path: "inviteCode", Op: "==", Value: code}},
			Limit:   1,
		})
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, nil
		}
		return decodeMeeting(docs[0]), nil
	})
}

// ListUserMeetings returns every meeting the user created or participates in,
// newest first.
func (s *MeetingService) ListUserMeetings(ctx context.Context, userID string) ([]*models.Meeting, error) {
	return withRetry(ctx, s.store, "list user meetings", func() ([]*models.Meeting, error) {
		docs, err := s.store.Find(ctx, meetingsCollection, store.Query{
			OrderBy: "createdAt",
			Desc:    true,
		})
		if err != nil {
			return nil, err
		}

		meetings := []*models.Meeting{}
		for _, doc := range docs {
			m := decodeMeeting(doc)
			if m.CreatorID == userID || m.IsParticipant(userID) {
				meetings = append(meetings, m)
			}
		}
		return meetings, nil
	})
}

// getForMutation fetches a meeting that must exist for a mutation to proceed.
func (s *MeetingService) getForMutation(ctx context.Context, meetingID string) (*models.Meeting, error) {
	m, err := s.Get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: meeting %s", ErrNotFound, meetingID)
	}
	return m, nil
}
