package models

import "time"

// Message types
const (
	MessageText   = "text"
	MessageImage  = "image"
	MessageNotice = "notice"
)

// Message is one entry in a meeting's flat, append-only chat log.
type Message struct {
	ID             string    `json:"id"`
	MeetingID      string    `json:"meeting_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	SenderPhotoURL string    `json:"sender_photo_url,omitempty"`
	Type           string    `json:"type"` // text, image, notice
	Content        string    `json:"content"`
	ImageURL       string    `json:"image_url,omitempty"`
	IsNotice       bool      `json:"is_notice"`
	CreatedAt      time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	Content  string `json:"content" binding:"required"`
	Type     string `json:"type" binding:"omitempty,oneof=text image notice"`
	ImageURL string `json:"image_url"`
}
