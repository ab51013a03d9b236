package models

import "time"

// Meeting status values
const (
	MeetingPlanning  = "planning"
	MeetingConfirmed = "confirmed"
	MeetingCancelled = "cancelled"
)

// Participant status values (personal attendance intent, independent of the
// meeting-level status)
const (
	ParticipantConfirmed = "confirmed"
	ParticipantPending   = "pending"
	ParticipantDeclined  = "declined"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Location struct {
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Participant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Status       string    `json:"status"` // confirmed, pending, declined
	JoinedAt     time.Time `json:"joined_at"`
}

type ScheduleOption struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"date"`
	Time  string    `json:"time"` // free-text label, e.g. "오후 2시"
	Votes []string  `json:"votes"`
}

type Meeting struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	CreatorID       string           `json:"creator_id"`
	CreatorName     string           `json:"creator_name"`
	InviteCode      string           `json:"invite_code"`
	Status          string           `json:"status"` // planning, confirmed, cancelled
	ConfirmedDate   *time.Time       `json:"confirmed_date,omitempty"`
	ConfirmedTime   string           `json:"confirmed_time,omitempty"`
	Location        *Location        `json:"location,omitempty"`
	Participants    []Participant    `json:"participants"`
	ScheduleOptions []ScheduleOption `json:"schedule_options"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// IsParticipant reports whether the user appears in the participant list.
func (m *Meeting) IsParticipant(userID string) bool {
	for _, p := range m.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// MeetingUpdate is a partial update; nil fields are left untouched. A non-nil
// Participants or ScheduleOptions slice replaces the whole stored array.
type MeetingUpdate struct {
	Title           *string
	Description     *string
	Status          *string
	ConfirmedDate   *time.Time
	ConfirmedTime   *string
	Location        *Location
	Participants    []Participant
	ScheduleOptions []ScheduleOption
}

// Request structs
type CreateMeetingRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    *Location `json:"location"`
}

// UpdateMeetingRequest only accepts "cancelled" as a status: a meeting
// becomes confirmed through the confirmation endpoint, which writes the
// confirmed date and time with it, and neither state goes back to planning.
type UpdateMeetingRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status" binding:"omitempty,oneof=cancelled"`
	Location    *Location `json:"location"`
}

type JoinMeetingRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

type AddScheduleOptionRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"`
}

type ConfirmScheduleRequest struct {
	OptionID string `json:"option_id" binding:"required"`
}

type UpdateParticipantStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed pending declined"`
}
