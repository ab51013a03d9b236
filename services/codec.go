package services

import (
	"time"

	"meeteasy-backend/models"
	"meeteasy-backend/store"
)

// Encoding builds plain maps with absent optional fields omitted entirely:
// Firestore rejects undefined-like values, and an omitted field must stay
// omitted rather than come back as an explicit null.

func participantDoc(p models.Participant) map[string]any {
	doc := map[string]any{
		"id":       p.ID,
		"name":     p.Name,
		"status":   p.Status,
		"joinedAt": p.JoinedAt,
	}
	if p.Email != "" {
		doc["email"] = p.Email
	}
	if p.ProfileImage != "" {
		doc["profileImage"] = p.ProfileImage
	}
	return doc
}

func participantDocs(participants []models.Participant) []any {
	docs := make([]any, len(participants))
	for i, p := range participants {
		docs[i] = participantDoc(p)
	}
	return docs
}

func optionDoc(o models.ScheduleOption) map[string]any {
	votes := o.Votes
	if votes == nil {
		votes = []string{}
	}
	return map[string]any{
		"id":    o.ID,
		"date":  o.Date,
		"time":  o.Time,
		"votes": votes,
	}
}

func optionDocs(options []models.ScheduleOption) []any {
	docs := make([]any, len(options))
	for i, o := range options {
		docs[i] = optionDoc(o)
	}
	return docs
}

func locationDoc(l *models.Location) map[string]any {
	doc := map[string]any{
		"name":    l.Name,
		"address": l.Address,
	}
	if l.Coordinates != nil {
		doc["coordinates"] = map[string]any{
			"latitude":  l.Coordinates.Latitude,
			"longitude": l.Coordinates.Longitude,
		}
	}
	return doc
}

// decodeMeeting is the single place the store's raw document shape becomes a
// Meeting. Every timestamp-shaped value is normalized to time.Time here and
// nowhere else.
func decodeMeeting(doc store.Document) *models.Meeting {
	data := doc.Data

	m := &models.Meeting{
		ID:              doc.ID,
		Title:           asString(data["title"]),
		Description:     asString(data["description"]),
		CreatorID:       asString(data["creatorId"]),
		CreatorName:     asString(data["creatorName"]),
		InviteCode:      asString(data["inviteCode"]),
		Status:          asString(data["status"]),
		ConfirmedTime:   asString(data["confirmedTime"]),
		Participants:    decodeParticipants(data["participants"]),
		ScheduleOptions: decodeOptions(data["scheduleOptions"]),
		CreatedAt:       asTime(data["createdAt"]),
		UpdatedAt:       asTime(data["updatedAt"]),
	}

	if t := asTime(data["confirmedDate"]); !t.IsZero() {
		m.ConfirmedDate = &t
	}
	if loc, ok := data["location"].(map[string]any); ok {
		m.Location = decodeLocation(loc)
	}
	return m
}

func decodeParticipants(value any) []models.Participant {
	items, ok := value.([]any)
	if !ok {
		return []models.Participant{}
	}

	participants := make([]models.Participant, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]any)
		if !ok {
			continue
		}
		participants = append(participants, models.Participant{
			ID:           asString(data["id"]),
			Name:         asString(data["name"]),
			Email:        asString(data["email"]),
			ProfileImage: asString(data["profileImage"]),
			Status:       asString(data["status"]),
			JoinedAt:     asTime(data["joinedAt"]),
		})
	}
	return participants
}

func decodeOptions(value any) []models.ScheduleOption {
	items, ok := value.([]any)
	if !ok {
		return []models.ScheduleOption{}
	}

	options := make([]models.ScheduleOption, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]any)
		if !ok {
			continue
		}
		options = append(options, models.ScheduleOption{
			ID:    asString(data["id"]),
			Date:  asTime(data["date"]),
			Time:  asString(data["time"]),
			Votes: asStringSlice(data["votes"]),
		})
	}
	return options
}

func decodeLocation(data map[string]any) *models.Location {
	loc := &models.Location{
		Name:    asString(data["name"]),
		Address: asString(data["address"]),
	}
	if coords, ok := data["coordinates"].(map[string]any); ok {
		loc.Coordinates = &models.Coordinates{
			Latitude:  asFloat(coords["latitude"]),
			Longitude: asFloat(coords["longitude"]),
		}
	}
	return loc
}

func decodeMessage(doc store.Document) *models.Message {
	data := doc.Data
	return &models.Message{
		ID:             doc.ID,
		MeetingID:      asString(data["meetingId"]),
		SenderID:       asString(data["senderId"]),
		SenderName:     asString(data["senderName"]),
		SenderPhotoURL: asString(data["senderPhotoURL"]),
		Type:           asString(data["type"]),
		Content:        asString(data["content"]),
		ImageURL:       asString(data["imageURL"]),
		IsNotice:       asBool(data["isNotice"]),
		CreatedAt:      asTime(data["createdAt"]),
	}
}

func decodeUserProfile(doc store.Document) *models.UserProfile {
	data := doc.Data
	return &models.UserProfile{
		ID:           doc.ID,
		Name:         asString(data["name"]),
		Email:        asString(data["email"]),
		PhotoURL:     asString(data["photoURL"]),
		PhoneNumber:  asString(data["phoneNumber"]),
		Bio:          asString(data["bio"]),
		PasswordHash: asString(data["passwordHash"]),
		FCMToken:     asString(data["fcmToken"]),
		CreatedAt:    asTime(data["createdAt"]),
		UpdatedAt:    asTime(data["updatedAt"]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		// Legacy documents carried ISO strings instead of timestamps.
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func asStringSlice(v any) []string {
	switch items := v.(type) {
	case []string:
		out := make([]string, len(items))
		copy(out, items)
		return out
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}
