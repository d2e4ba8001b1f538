// Package history defines the refresh attempt log. It records how each
// refresh resolved; it never stores the fetched items themselves.
package history

import (
	"context"
	"time"
)

// Outcome classifies how a refresh resolved.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeProtocolError  Outcome = "protocol_error"
	OutcomeTransportError Outcome = "transport_error"
)

// Entry represents one resolved refresh attempt.
type Entry struct {
	ID         string    `json:"id"`
	Trigger    string    `json:"trigger,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	StatusCode int       `json:"status_code,omitempty"`
	Groups     int       `json:"groups"`
	Items      int       `json:"items"`
	Message    string    `json:"message,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Failed returns true if the refresh did not produce a new collection.
func (e *Entry) Failed() bool {
	return e.Outcome != OutcomeSuccess
}

// Duration returns how long the refresh took.
func (e *Entry) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

// Recorder accepts resolved refresh attempts.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Store is a Recorder that can also be queried.
type Store interface {
	Recorder
	// List returns up to limit entries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Entry, error)
	Clear(ctx context.Context) error
}
