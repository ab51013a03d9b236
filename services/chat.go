package services

import (
	"context"
	"fmt"
	"log"

	"meeteasy-backend/models"
	"meeteasy-backend/store"
)

const messagesCollection = "messages"

const defaultMessageLimit = 50

// ChatService owns the per-meeting chat log: a flat, append-only list of
// message documents keyed by meeting id.
type ChatService struct {
	store store.Store
}

func NewChatService(st store.Store) *ChatService {
	return &ChatService{store: st}
}

// SendMessage appends a message to the meeting's log and returns its id.
func (s *ChatService) SendMessage(ctx context.Context, msg models.Message) (string, error) {
	if msg.Content == "" {
		return "", fmt.Errorf("%w: message content is required", ErrValidation)
	}
	if msg.Type == "" {
		msg.Type = models.MessageText
	}

	doc := map[string]any{
		"meetingId":  msg.MeetingID,
		"senderId":   msg.SenderID,
		"senderName": msg.SenderName,
		"type":       msg.Type,
		"content":    msg.Content,
		"isNotice":   msg.IsNotice,
		"createdAt":  store.ServerTimestamp,
	}
	if msg.SenderPhotoURL != "" {
		doc["senderPhotoURL"] = msg.SenderPhotoURL
	}
	if msg.ImageURL != "" {
		doc["imageURL"] = msg.ImageURL
	}

	return s.store.Insert(ctx, messagesCollection, doc)
}

// SendNotice appends a pinned notice message.
func (s *ChatService) SendNotice(ctx context.Context, msg models.Message) (string, error) {
	msg.Type = models.MessageNotice
	msg.IsNotice = true
	return s.SendMessage(ctx, msg)
}

// ListMessages returns the latest messages for a meeting, oldest first, so
// the newest message renders at the bottom.
func (s *ChatService) ListMessages(ctx context.Context, meetingID string, limit int) ([]*models.Message, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}

	docs, err := s.store.Find(ctx, messagesCollection, store.Query{
		Filters: []store.Filter{{Path: "meetingId", Op: "==", Value: meetingID}},
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	messages := make([]*models.Message, len(docs))
	for i, doc := range docs {
		messages[len(docs)-1-i] = decodeMessage(doc)
	}
	return messages, nil
}

func (s *ChatService) DeleteMessage(ctx context.Context, messageID string) error {
	return s.store.Remove(ctx, messagesCollection, messageID)
}

// DeleteMeetingMessages removes the whole log for a meeting. The meeting
// service's Delete does not cascade here; the delete handler calls this.
func (s *ChatService) DeleteMeetingMessages(ctx context.Context, meetingID string) error {
	docs, err := s.store.Find(ctx, messagesCollection, store.Query{
		Filters: []store.Filter{{Path: "meetingId", Op: "==", Value: meetingID}},
	})
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if err := s.store.Remove(ctx, messagesCollection, doc.ID); err != nil {
			return err
		}
	}

	log.Printf("✅ Deleted %d chat messages for meeting %s", len(docs), meetingID)
	return nil
}

// SubscribeToMessages watches the meeting's log and delivers the full list,
// oldest first, on every change.
func (s *ChatService) SubscribeToMessages(ctx context.Context, meetingID string, callback func([]*models.Message)) (func(), error) {
	return s.store.SubscribeQuery(ctx, messagesCollection,
		store.Query{
			Filters: []store.Filter{{Path: "meetingId", Op: "==", Value: meetingID}},
			OrderBy: "createdAt",
			Desc:    true,
			Limit:   defaultMessageLimit,
		},
		func(docs []store.Document) {
			messages := make([]*models.Message, len(docs))
			for i, doc := range docs {
				messages[len(docs)-1-i] = decodeMessage(doc)
			}
			callback(messages)
		},
		func(err error) {
			log.Printf("⚠️  Chat subscription error for meeting %s: %v", meetingID, err)
			callback([]*models.Message{})
		})
}
