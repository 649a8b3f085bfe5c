package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/idolanuel5885/serenity-plus/internal/services"
)

const webhookTimeout = 10 * time.Second

// ChatWebhookChannel posts a one-line alert to a chat incoming webhook
// (Slack-compatible payload shape).
type ChatWebhookChannel struct {
	url    string
	client *http.Client
}

func NewChatWebhookChannel(url string) *ChatWebhookChannel {
	return &ChatWebhookChannel{
		url:    url,
		client: &http.Client{Timeout: webhookTimeout},
	}
}

func (channel *ChatWebhookChannel) Name() string {
	return "chat-webhook"
}

func (channel *ChatWebhookChannel) SendAlert(ctx context.Context, report services.HealthReport) error {
	text := fmt.Sprintf(":rotating_light: week creation is *%s*: %s",
		report.Status, strings.Join(report.Alerts, "; "))
	payload := map[string]string{"text": text}
	return postJSON(ctx, channel.client, channel.url, payload)
}

// GenericWebhookChannel POSTs the full health report as JSON to an arbitrary
// endpoint.
type GenericWebhookChannel struct {
	url    string
	client *http.Client
}

func NewGenericWebhookChannel(url string) *GenericWebhookChannel {
	return &GenericWebhookChannel{
		url:    url,
		client: &http.Client{Timeout: webhookTimeout},
	}
}

func (channel *GenericWebhookChannel) Name() string {
	return "generic-webhook"
}

func (channel *GenericWebhookChannel) SendAlert(ctx context.Context, report services.HealthReport) error {
	return postJSON(ctx, channel.client, channel.url, report)
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", response.StatusCode)
	}
	return nil
}
