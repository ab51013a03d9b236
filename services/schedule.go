package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strconv"
	"time"

	"meeteasy-backend/models"
)

// newOptionID builds a client-generated option id: options live inside an
// array field rather than as separate documents, so the store never assigns
// them ids.
func newOptionID() string {
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + hex.EncodeToString(suffix)
}

// requirePlanning rejects scheduling mutations once a meeting has left the
// planning state. Confirmed and cancelled meetings are frozen.
func requirePlanning(m *models.Meeting) error {
	if m.Status != models.MeetingPlanning {
		return fmt.Errorf("%w: meeting is %s, scheduling is closed", ErrValidation, m.Status)
	}
	return nil
}

// AddScheduleOption appends a candidate (date, time-label) with an empty vote
// set and returns it.
func (s *MeetingService) AddScheduleOption(ctx context.Context, meetingID string, date time.Time, timeLabel string) (*models.ScheduleOption, error) {
	if timeLabel == "" {
		return nil, fmt.Errorf("%w: time label is required", ErrValidation)
	}

	unlock := s.lockMeeting(meetingID)
	defer unlock()

	m, err := s.getForMutation(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := requirePlanning(m); err != nil {
		return nil, err
	}

	option := models.ScheduleOption{
		ID:    newOptionID(),
		Date:  date,
		Time:  timeLabel,
		Votes: []string{},
	}

	options := append(m.ScheduleOptions, option)
	if err := s.Update(ctx, meetingID, models.MeetingUpdate{ScheduleOptions: options}); err != nil {
		return nil, err
	}
	return &option, nil
}

// RemoveScheduleOption deletes one candidate by id.
func (s *MeetingService) RemoveScheduleOption(ctx context.Context, meetingID, optionID string) error {
	unlock := s.lockMeeting(meetingID)
	defer unlock()

	m, err := s.getForMutation(ctx, meetingID)
	if err != nil {
		return err
	}
	if err := requirePlanning(m); err != nil {
		return err
	}

	options := make([]models.ScheduleOption, 0, len(m.ScheduleOptions))
	found := false
	for _, o := range m.ScheduleOptions {
		if o.ID == optionID {
			found = true
			continue
		}
		options = append(options, o)
	}
	if !found {
		return fmt.Errorf("%w: schedule option %s", ErrNotFound, optionID)
	}

	return s.Update(ctx, meetingID, models.MeetingUpdate{ScheduleOptions: options})
}

// ToggleVote flips the participant's membership in an option's vote set:
// removed when present, appended when absent.
func (s *MeetingService) ToggleVote(ctx context.Context, meetingID, optionID, participantID string) error {
	if participantID == "" {
		return fmt.Errorf("%w: participant id is required", ErrValidation)
	}

	unlock := s.lockMeeting(meetingID)
	defer unlock()

	m, err := s.getForMutation(ctx, meetingID)
	if err != nil {
		return err
	}
	if err := requirePlanning(m); err != nil {
		return err
	}

	found := false
	options := make([]models.ScheduleOption, len(m.ScheduleOptions))
	for i, o := range m.ScheduleOptions {
		if o.ID == optionID {
			found = true
			o.Votes = toggleVote(o.Votes, participantID)
		}
		options[i] = o
	}
	if !found {
		return fmt.Errorf("%w: schedule option %s", ErrNotFound, optionID)
	}

	return s.Update(ctx, meetingID, models.MeetingUpdate{ScheduleOptions: options})
}

func toggleVote(votes []string, participantID string) []string {
	out := make([]string, 0, len(votes)+1)
	removed := false
	for _, v := range votes {
		if v == participantID {
			removed = true
			continue
		}
		out = append(out, v)
	}
	if !removed {
		out = append(out, participantID)
	}
	return out
}

// ConfirmSchedule picks one option as the meeting's date: status, confirmed
// date and confirmed time are written in a single update so a reader never
// observes a partial confirmation.
func (s *MeetingService) ConfirmSchedule(ctx context.Context, meetingID, optionID string) error {
	unlock := s.lockMeeting(meetingID)
	defer unlock()

	m, err := s.getForMutation(ctx, meetingID)
	if err != nil {
		return err
	}
	if err := requirePlanning(m); err != nil {
		return err
	}

	var option *models.ScheduleOption
	for i := range m.ScheduleOptions {
		if m.ScheduleOptions[i].ID == optionID {
			option = &m.ScheduleOptions[i]
			break
		}
	}
	if option == nil {
		return fmt.Errorf("%w: schedule option %s", ErrNotFound, optionID)
	}

	status := models.MeetingConfirmed
	if err := s.Update(ctx, meetingID, models.MeetingUpdate{
		Status:        &status,
		ConfirmedDate: &option.Date,
		ConfirmedTime: &option.Time,
	}); err != nil {
		return err
	}

	log.Printf("✅ Meeting %s confirmed for %s %s", meetingID, option.Date.Format("2006-01-02"), option.Time)
	return nil
}

// BestOption returns the option with the most votes, the earliest-listed one
// winning ties. Nil when there are no options. Pure function, no store access.
func BestOption(options []models.ScheduleOption) *models.ScheduleOption {
	if len(options) == 0 {
		return nil
	}

	best := options[0]
	for _, o := range options[1:] {
		if len(o.Votes) > len(best.Votes) {
			best = o
		}
	}
	return &best
}
