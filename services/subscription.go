package services

import (
	"context"
	"log"

	"meeteasy-backend/models"
	"meeteasy-backend/store"
)

// SubscribeToMeeting watches one meeting and invokes the callback with the
// full decoded value on every remote change, or nil once the meeting is gone.
// On a subscription-level error the callback degrades to nil as well. The
// returned unsubscribe func is safe to call more than once.
func (s *MeetingService) SubscribeToMeeting(ctx context.Context, meetingID string, callback func(*models.Meeting)) (func(), error) {
	return s.store.Subscribe(ctx, meetingsCollection, meetingID,
		func(doc *store.Document) {
			if doc == nil {
				callback(nil)
				return
			}
			m := decodeMeeting(*doc)
			s.cache.Put(ctx, m)
			callback(m)
		},
		func(err error) {
			log.Printf("⚠️  Meeting %s subscription error: %v", meetingID, err)
			callback(nil)
		})
}

// SubscribeToUserMeetings watches the whole meetings collection and delivers
// the user's meetings (created or joined), newest first, on every change. On
// error the callback degrades to an empty list.
func (s *MeetingService) SubscribeToUserMeetings(ctx context.Context, userID string, callback func([]*models.Meeting)) (func(), error) {
	return s.store.SubscribeQuery(ctx, meetingsCollection,
		store.Query{OrderBy: "createdAt", Desc: true},
		func(docs []store.Document) {
			meetings := []*models.Meeting{}
			for _, doc := range docs {
				m := decodeMeeting(doc)
				if m.CreatorID == userID || m.IsParticipant(userID) {
					s.cache.Put(ctx, m)
					meetings = append(meetings, m)
				}
			}
			callback(meetings)
		},
		func(err error) {
			log.Printf("⚠️  User %s meeting list subscription error: %v", userID, err)
			callback([]*models.Meeting{})
		})
}
