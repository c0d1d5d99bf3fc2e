// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tuning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-meet/models"
)

// CompletedEvent is published after a session has been completed and committed.
type CompletedEvent struct {
	SessionID   string         `json:"tuning_id"`
	GroupID     string         `json:"group_id"`
	Meeting     models.Meeting `json:"meeting"`
	CompletedAt time.Time      `json:"completed_at"`
}

// Notifier is told about completed sessions. Errors are logged by the caller
// and never undo the completion.
type Notifier interface {
	SessionCompleted(ctx context.Context, ev CompletedEvent) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, ev CompletedEvent) error

func (f NotifierFunc) SessionCompleted(ctx context.Context, ev CompletedEvent) error {
	return f(ctx, ev)
}

// LogNotifier writes completion events to the default slog logger.
type LogNotifier struct{}

func (LogNotifier) SessionCompleted(_ context.Context, ev CompletedEvent) error {
	slog.Info("meeting confirmed",
		"tuning_id", ev.SessionID,
		"group_id", ev.GroupID,
		"meeting_id", ev.Meeting.ID,
		"start", ev.Meeting.StartTime,
		"end", ev.Meeting.EndTime,
	)
	return nil
}

// WebhookNotifier POSTs the event as JSON to URL.
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (w *WebhookNotifier) SessionCompleted(ctx context.Context, ev CompletedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Notifiers fans an event out to every notifier and joins their errors.
type Notifiers []Notifier

func (ns Notifiers) SessionCompleted(ctx context.Context, ev CompletedEvent) error {
	var errs []error
	for _, n := range ns {
		if err := n.SessionCompleted(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
