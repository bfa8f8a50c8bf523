// Package notify delivers motion alerts to an ntfy-style HTTP endpoint.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Message is a single alert.
type Message struct {
	// EventID identifies the gate event that produced the message.
	EventID  string
	Title    string
	Body     string
	Priority string
	Tags     []string
}

// Notifier sends a message and reports whether delivery succeeded.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// HTTP posts messages to an ntfy topic URL.
type HTTP struct {
	URL    string
	client *http.Client
}

// NewHTTP creates an HTTP notifier. A zero timeout means no timeout.
func NewHTTP(url string, timeout time.Duration) *HTTP {
	return &HTTP{
		URL: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send implements Notifier. The response body is discarded.
func (h *HTTP) Send(ctx context.Context, msg Message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, strings.NewReader(msg.Body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if msg.Priority != "" {
		req.Header.Set("Priority", msg.Priority)
	}
	if len(msg.Tags) > 0 {
		req.Header.Set("Tags", strings.Join(lo.Uniq(msg.Tags), ","))
	}
	if msg.Title != "" {
		req.Header.Set("Title", msg.Title)
	}
	if msg.EventID != "" {
		req.Header.Set("X-Event-ID", msg.EventID)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bad status: %s", resp.Status)
	}
	return nil
}

// Log only logs messages. Used when no endpoint is configured.
type Log struct{}

// Send implements Notifier.
func (Log) Send(_ context.Context, msg Message) error {
	log.Info().
		Str("event", msg.EventID).
		Str("title", msg.Title).
		Str("body", msg.Body).
		Msg("Notification (no endpoint configured)")
	return nil
}
