package core

import (
	"context"
	"fmt"

	"medai.local/assistant/internal/config"
	"medai.local/assistant/internal/store"
)

// HistoryService is the read side over stored chat sessions.
type HistoryService struct {
	sessions     store.SessionStore
	defaultLimit int
}

func NewHistoryService(sessions store.SessionStore, defaultLimit int) *HistoryService {
	return &HistoryService{
		sessions:     sessions,
		defaultLimit: config.ClampHistoryLimit(defaultLimit),
	}
}

// ListRecentSessions returns the newest sessions first. limit <= 0 means
// the configured default; nothing above config.MaxHistoryLimit is returned.
func (s *HistoryService) ListRecentSessions(ctx context.Context, limit int) ([]store.SessionSummary, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	limit = config.ClampHistoryLimit(limit)

	sessions, err := s.sessions.ListRecentSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns store.ErrNotFound (wrapped) for unknown ids.
func (s *HistoryService) GetSession(ctx context.Context, sessionID string) (*store.ChatSession, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return session, nil
}

func (s *HistoryService) GetMessages(ctx context.Context, sessionID string) ([]store.ChatMessage, error) {
	messages, err := s.sessions.GetMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages for session %s: %w", sessionID, err)
	}
	return messages, nil
}
