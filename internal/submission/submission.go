// Package submission delivers a completed profile to its destination.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sriram020204/website-prototype-sub000/internal/advisory"
	"github.com/sriram020204/website-prototype-sub000/internal/profile"
	"github.com/sriram020204/website-prototype-sub000/internal/store"
)

// Submission is what gets delivered. ID is stable across retries of the same
// session and doubles as an idempotency key.
type Submission struct {
	ID          string           `json:"id"`
	SubmittedAt time.Time        `json:"submittedAt"`
	Profile     profile.Profile  `json:"profile"`
	Advisory    *advisory.Result `json:"advisory,omitempty"`
}

// Submitter performs the submission side effect.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) error
}

// Nop accepts every submission and does nothing.
type Nop struct{}

func (Nop) Submit(context.Context, Submission) error { return nil }

// HTTP posts submissions as JSON.
type HTTP struct {
	endpoint string
	client   *http.Client
}

func NewHTTP(endpoint string, timeout time.Duration) *HTTP {
	return &HTTP{endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

func (h *HTTP) Submit(ctx context.Context, sub Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("submission: encoding: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("submission: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", sub.ID)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("submission: posting: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("submission: endpoint returned %s", resp.Status)
	}
	return nil
}

// Outbox writes each submission into a store under "submission-<id>".
// Re-submitting the same ID overwrites the earlier entry.
type Outbox struct {
	store store.Store
}

func NewOutbox(s store.Store) *Outbox {
	return &Outbox{store: s}
}

// Key returns the store key used for a submission ID.
func Key(id string) string {
	return "submission-" + id
}

func (o *Outbox) Submit(ctx context.Context, sub Submission) error {
	data, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return fmt.Errorf("submission: encoding: %w", err)
	}
	if err := o.store.Set(ctx, Key(sub.ID), string(data)); err != nil {
		return fmt.Errorf("submission: %w", err)
	}
	return nil
}
