package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// PushSender forwards push notifications to an external delivery endpoint.
// Delivery is best-effort by contract; an unconfigured sender drops pushes
// with a log line.
type PushSender struct {
	url    string
	client *http.Client
}

func NewPushSender(url string) *PushSender {
	return &PushSender{
		url:    url,
		client: &http.Client{Timeout: webhookTimeout},
	}
}

type pushPayload struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	TargetUserID uint   `json:"targetUserId"`
}

func (sender *PushSender) SendPush(title string, body string, targetUserID uint) error {
	if sender.url == "" {
		log.Printf("push disabled, would notify user %d: %s", targetUserID, title)
		return nil
	}

	payload, err := json.Marshal(pushPayload{Title: title, Body: body, TargetUserID: targetUserID})
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, sender.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := sender.client.Do(request)
	if err != nil {
		return fmt.Errorf("post push: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("push endpoint returned status %d", response.StatusCode)
	}
	return nil
}
