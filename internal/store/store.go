// Package store persists predictions and chat sessions in two independent
// SQLite databases.
package store

import (
	"context"
	"errors"

	"medai.local/assistant/internal/classifier"
)

// ErrNotFound is returned when a session id matches nothing.
var ErrNotFound = errors.New("not found")

// PredictionStore is the insert-only audit log of scored requests.
type PredictionStore interface {
	// Append inserts one record stamped with the current time.
	Append(ctx context.Context, features classifier.FeatureVector, diagnosis string, confidence float64) error

	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]PredictionRecord, error)

	Close() error
}

// SessionStore holds chat sessions and their transcripts.
type SessionStore interface {
	// CreateSession inserts the session and all of its messages in one
	// transaction. Missing timestamps are filled in by the store.
	CreateSession(ctx context.Context, session *ChatSession, messages []ChatMessage) error

	// ListRecentSessions returns up to limit sessions, newest first.
	ListRecentSessions(ctx context.Context, limit int) ([]SessionSummary, error)

	// GetSession returns ErrNotFound when no session matches.
	GetSession(ctx context.Context, sessionID string) (*ChatSession, error)

	// GetMessages returns the transcript in timestamp order. A session
	// without messages yields an empty slice.
	GetMessages(ctx context.Context, sessionID string) ([]ChatMessage, error)

	Close() error
}
