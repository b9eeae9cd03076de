package store

import (
	"encoding/json"
	"time"

	"medai.local/assistant/internal/classifier"
)

type MessageType string

const (
	MessageTypeBot  MessageType = "bot"
	MessageTypeUser MessageType = "user"
)

// PredictionRecord is one scored request in the audit table.
type PredictionRecord struct {
	ID         int64                    `json:"id"`
	Features   classifier.FeatureVector `json:"features"`
	Diagnosis  string                   `json:"diagnosis"`
	Confidence float64                  `json:"confidence"`
	CreatedAt  time.Time                `json:"timestamp"`
}

// ChatSession is the stored summary of one diagnostic interaction.
type ChatSession struct {
	SessionID  string          `json:"session_id"`
	UserData   json.RawMessage `json:"user_data"` // payload exactly as submitted
	Diagnosis  string          `json:"diagnosis"`
	Confidence float64         `json:"confidence"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SessionSummary is a ChatSession row without its payload, for listings.
type SessionSummary struct {
	SessionID  string    `json:"session_id"`
	CreatedAt  time.Time `json:"created_at"`
	Diagnosis  string    `json:"diagnosis"`
	Confidence float64   `json:"confidence"`
}

type ChatMessage struct {
	SessionID string      `json:"-"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}
