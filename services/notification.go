package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"

	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"meeteasy-backend/config"
	"meeteasy-backend/models"
)

// NotificationService delivers invitation and confirmation notifications over
// email (SendGrid) and push (FCM). Everything here is best-effort: a failed
// notification is logged and dropped, never surfaced to the caller.
type NotificationService struct {
	users *UserService
	fcm   *messaging.Client
}

func NewNotificationService(users *UserService, fcm *messaging.Client) *NotificationService {
	return &NotificationService{users: users, fcm: fcm}
}

func (ns *NotificationService) sendPush(ctx context.Context, token, title, body string, data map[string]string) {
	if ns.fcm == nil || token == "" {
		return
	}

	_, err := ns.fcm.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	if err != nil {
		log.Printf("❌ Push send error: %v", err)
		return
	}
	log.Printf("✅ Push notification sent: %s", title)
}

func (ns *NotificationService) sendEmail(toEmail, toName, subject, htmlBody string) {
	if config.AppConfig.SendGridAPIKey == "" {
		log.Printf("⚠️  SendGrid API key not set, skipping email to %s", toEmail)
		return
	}

	from := mail.NewEmail(config.AppConfig.AppName, config.AppConfig.SendGridFrom)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("❌ Email send error: %v", err)
		return
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Printf("✅ Email sent to %s", toEmail)
	} else {
		log.Printf("⚠️  SendGrid returned status: %d", resp.StatusCode)
	}
}

// NotifyInvitation emails a meeting's invite code to someone not yet in the
// app.
func (ns *NotificationService) NotifyInvitation(email, inviterName, meetingTitle, inviteCode string) {
	subject := fmt.Sprintf("%s invited you to \"%s\" on %s", inviterName, meetingTitle, config.AppConfig.AppName)
	htmlBody := buildInvitationEmailHTML(inviterName, meetingTitle, inviteCode)
	ns.sendEmail(email, "", subject, htmlBody)
}

// NotifyScheduleConfirmed tells every participant (except the confirmer) that
// the meeting date is settled.
func (ns *NotificationService) NotifyScheduleConfirmed(ctx context.Context, meeting *models.Meeting, confirmedBy string) {
	if meeting == nil || meeting.ConfirmedDate == nil {
		return
	}

	title := fmt.Sprintf("\"%s\" is confirmed!", meeting.Title)
	body := fmt.Sprintf("The meeting is set for %s %s", meeting.ConfirmedDate.Format("2006-01-02"), meeting.ConfirmedTime)

	for _, p := range meeting.Participants {
		if p.ID == confirmedBy {
			continue
		}

		profile, err := ns.users.GetProfile(ctx, p.ID)
		if err != nil || profile == nil {
			continue
		}

		ns.sendPush(ctx, profile.FCMToken, title, body, map[string]string{
			"type":       "schedule_confirmed",
			"meeting_id": meeting.ID,
		})
		if profile.Email != "" {
			htmlBody := buildConfirmationEmailHTML(profile.Name, meeting.Title, meeting.ConfirmedDate.Format("2006-01-02"), meeting.ConfirmedTime)
			ns.sendEmail(profile.Email, profile.Name, title, htmlBody)
		}
	}
}

// NotifyParticipantJoined pings the creator when someone redeems the invite
// code.
func (ns *NotificationService) NotifyParticipantJoined(ctx context.Context, meeting *models.Meeting, joined models.Participant) {
	if meeting == nil || joined.ID == meeting.CreatorID {
		return
	}

	creator, err := ns.users.GetProfile(ctx, meeting.CreatorID)
	if err != nil || creator == nil {
		return
	}

	ns.sendPush(ctx, creator.FCMToken,
		fmt.Sprintf("%s joined \"%s\"", joined.Name, meeting.Title),
		fmt.Sprintf("%s joined via the invite code", joined.Name),
		map[string]string{
			"type":       "participant_joined",
			"meeting_id": meeting.ID,
		})
}

// ============================================================
// EMAIL TEMPLATES
// ============================================================

func buildInvitationEmailHTML(inviterName, meetingTitle, inviteCode string) string {
	tmpl := `
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #4A6CF7; margin-top: 0;">🎉 You're invited!</h2>
		<p><strong>{{.InviterName}}</strong> invited you to join <strong>"{{.MeetingTitle}}"</strong>.</p>
		<p>Enter this invite code in the app to join:</p>
		<div style="background: #f8f9fa; border-radius: 8px; padding: 16px; margin: 16px 0; text-align: center;">
			<p style="margin: 0; font-size: 28px; letter-spacing: 6px;"><strong>{{.InviteCode}}</strong></p>
		</div>
		<div style="margin: 24px 0;">
			<a href="{{.AppURL}}" style="background: #4A6CF7; color: white; padding: 12px 32px; border-radius: 8px; text-decoration: none; font-weight: bold;">Open App</a>
		</div>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— {{.AppName}}</p>
	</div>
</body>
</html>`

	t, _ := template.New("invitation").Parse(tmpl)
	var buf bytes.Buffer
	t.Execute(&buf, map[string]any{
		"InviterName":  inviterName,
		"MeetingTitle": meetingTitle,
		"InviteCode":   inviteCode,
		"AppURL":       config.AppConfig.AppURL,
		"AppName":      config.AppConfig.AppName,
	})
	return buf.String()
}

func buildConfirmationEmailHTML(userName, meetingTitle, date, timeLabel string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #4A6CF7; margin-top: 0;">✅ Meeting Confirmed</h2>
		<p>Hi <strong>%s</strong>,</p>
		<p><strong>"%s"</strong> is confirmed for <strong>%s %s</strong>.</p>
		<p>See you there!</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— %s</p>
	</div>
</body>
</html>`, userName, meetingTitle, date, timeLabel, config.AppConfig.AppName)
}
