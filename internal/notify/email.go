package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/idolanuel5885/serenity-plus/internal/services"
	"github.com/resend/resend-go/v2"
)

// EmailSender delivers transactional mail through Resend. With no API key it
// degrades to logging, which keeps local development and tests mail-free.
type EmailSender struct {
	client    *resend.Client
	fromEmail string
	appURL    string
}

func NewEmailSender(apiKey string, fromEmail string, appURL string) *EmailSender {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &EmailSender{
		client:    client,
		fromEmail: fromEmail,
		appURL:    strings.TrimRight(appURL, "/"),
	}
}

// SendReturnLink mails the rotating recovery link to the user.
func (sender *EmailSender) SendReturnLink(email string, returnToken string, userName string) error {
	returnURL := fmt.Sprintf("%s/return?token=%s", sender.appURL, returnToken)
	subject := "Your Serenity+ return link"
	body := fmt.Sprintf(
		"Hi %s,\n\nOpen this link on your new device to pick up right where you left off:\n\n%s\n\nThe link stays valid until you request a new one.\n",
		userName, returnURL,
	)

	if sender.client == nil {
		log.Printf("email disabled, return link for %s: %s", email, returnURL)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    sender.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}
	_, err := sender.client.Emails.SendWithContext(context.Background(), params)
	return err
}

// EmailAlertChannel sends health alerts to the operator mailbox.
type EmailAlertChannel struct {
	sender  *EmailSender
	toEmail string
}

func NewEmailAlertChannel(sender *EmailSender, toEmail string) *EmailAlertChannel {
	return &EmailAlertChannel{sender: sender, toEmail: toEmail}
}

func (channel *EmailAlertChannel) Name() string {
	return "email"
}

func (channel *EmailAlertChannel) SendAlert(ctx context.Context, report services.HealthReport) error {
	subject := fmt.Sprintf("Serenity+ week creation %s", report.Status)
	body := fmt.Sprintf(
		"Status: %s\nChecked: %s\n\n%s\n",
		report.Status,
		report.CheckedAt.Format("2006-01-02 15:04:05 MST"),
		strings.Join(report.Alerts, "\n"),
	)

	if channel.sender.client == nil {
		log.Printf("email disabled, alert for %s: %s", channel.toEmail, subject)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    channel.sender.fromEmail,
		To:      []string{channel.toEmail},
		Subject: subject,
		Text:    body,
	}
	_, err := channel.sender.client.Emails.SendWithContext(ctx, params)
	return err
}
