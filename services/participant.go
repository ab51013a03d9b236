package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"meeteasy-backend/models"
)

// Join adds a participant to a meeting. Idempotent by construction: joining
// twice with the same id leaves the list unchanged, so a double-submitted
// request cannot produce a duplicate entry.
func (s *MeetingService) Join(ctx context.Context, meetingID string, participant models.Participant) error {
	if participant.ID == "" {
		return fmt.Errorf("%w: participant id is required", ErrValidation)
	}

	unlock := s.lockMeeting(meetingID)
	defer unlock()

	m, err := s.getForMutation(ctx, meetingID)
	if err != nil {
		return err
	}

	if m.IsParticipant(participant.ID) {
		return nil
	}

	if participant.Status == "" {
		participant.Status = models.ParticipantPending
	}
	participant.JoinedAt = time.Now().UTC()

	participants := append(m.Participants, participant)
	if err := s.Update(ctx, meetingID, models.MeetingUpdate{Participants: participants}); err != nil {
		return err
	}

	log.Printf("✅ Participant %s joined meeting %s", participant.ID, meetingID)
	return nil
}

// UpdateParticipantStatus changes one participant's attendance intent.
func (s *MeetingService) UpdateParticipantStatus(ctx context.Context, meetingID, participantID, status string) error {
	switch status {
	case models.ParticipantConfirmed, models.ParticipantPending, models.ParticipantDeclined:
	default:
		return fmt.Errorf("%w: invalid participant status %q", ErrValidation, status)
	}

	unlock := s.lockMeeting(meetingID)
	defer unlock()

	m, err := s.getForMutation(ctx, meetingID)
	if err != nil {
		return err
	}

	found := false
	participants := make([]models.Participant, len(m.Participants))
	for i, p := range m.Participants {
		if p.ID == participantID {
			found = true
			p.Status = status
		}
		participants[i] = p
	}
	if !found {
		return fmt.Errorf("%w: participant %s", ErrNotFound, participantID)
	}

	return s.Update(ctx, meetingID, models.MeetingUpdate{Participants: participants})
}

// Leave removes the participant from the meeting. Leaving a meeting you are
// not in is a no-op. The creator cannot leave; their exit path is deleting
// the meeting, which keeps creatorId pointing at a member.
func (s *MeetingService) Leave(ctx context.Context, meetingID, participantID string) error {
	unlock := s.lockMeeting(meetingID)
	defer unlock()

	m, err := s.getForMutation(ctx, meetingID)
	if err != nil {
		return err
	}

	if participantID == m.CreatorID {
		return fmt.Errorf("%w: the creator cannot leave their own meeting", ErrValidation)
	}

	participants := make([]models.Participant, 0, len(m.Participants))
	removed := false
	for _, p := range m.Participants {
		if p.ID == participantID {
			removed = true
			continue
		}
		participants = append(participants, p)
	}
	if !removed {
		return nil
	}

	if err := s.Update(ctx, meetingID, models.MeetingUpdate{Participants: participants}); err != nil {
		return err
	}

	log.Printf("✅ Participant %s left meeting %s", participantID, meetingID)
	return nil
}
