package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bagasta/addressbook/internal/model"
)

// WebhookService posts contact change events to a configured URL so external
// systems (CRM sync, audit trails) can follow mutations.
type WebhookService struct {
	Client  *http.Client
	URL     string
	backoff time.Duration
}

func NewWebhookService(url string) *WebhookService {
	return &WebhookService{
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		URL:     url,
		backoff: time.Second,
	}
}

type WebhookPayload struct {
	Event     string         `json:"event"`
	ContactID int64          `json:"contact_id"`
	Contact   *model.Contact `json:"contact,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ContactChanged implements the service layer's change notifier. Delivery is
// best effort: failures are logged, never surfaced to the API caller.
func (s *WebhookService) ContactChanged(eventType string, id int64, contact *model.Contact) {
	if s.URL == "" {
		return
	}
	go func() {
		if _, err := s.send(WebhookPayload{
			Event:     eventType,
			ContactID: id,
			Contact:   contact,
			Timestamp: time.Now(),
		}); err != nil {
			log.Warn().Err(err).Str("event", eventType).Int64("contact_id", id).Msg("webhook delivery failed")
		}
	}()
}

func (s *WebhookService) send(payload WebhookPayload) (string, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	// Simple retry logic (3 times)
	var lastErr error
	for i := 0; i < 3; i++ {
		resp, err := s.Client.Post(s.URL, "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(i+1) * s.backoff)
			continue
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return string(body), nil
		}
		lastErr = fmt.Errorf("webhook returned status %d", resp.StatusCode)
		time.Sleep(time.Duration(i+1) * s.backoff)
	}

	return "", lastErr
}
