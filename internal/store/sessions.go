package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const chatSchema = `
    CREATE TABLE IF NOT EXISTS chat_sessions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT UNIQUE NOT NULL,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        user_data TEXT,
        diagnosis TEXT,
        confidence REAL
    );

    CREATE TABLE IF NOT EXISTS chat_messages (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        message_type TEXT NOT NULL CHECK (message_type IN ('bot', 'user')),
        message_content TEXT NOT NULL,
        timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (session_id) REFERENCES chat_sessions (session_id)
    );

    CREATE INDEX IF NOT EXISTS idx_chat_sessions_created ON chat_sessions(created_at);
    CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, timestamp);
    `

type SQLiteSessionStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteSessionStore opens (and if needed creates) the chat history database.
func NewSQLiteSessionStore(path string) (*SQLiteSessionStore, error) {
	db, err := openSQLite(path, chatSchema)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	return &SQLiteSessionStore{db: db, now: time.Now}, nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteSessionStore) CreateSession(ctx context.Context, session *ChatSession, messages []ChatMessage) (err error) {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin session transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO chat_sessions (session_id, created_at, user_data, diagnosis, confidence)
        VALUES (?, ?, ?, ?, ?)`,
		session.SessionID, session.CreatedAt, string(session.UserData), session.Diagnosis, session.Confidence)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO chat_messages (session_id, message_type, message_content, timestamp)
        VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	for i := range messages {
		msg := &messages[i]
		msg.SessionID = session.SessionID
		if msg.Timestamp.IsZero() {
			msg.Timestamp = s.now().UTC()
		}
		if _, err = stmt.ExecContext(ctx, msg.SessionID, string(msg.Type), msg.Content, msg.Timestamp); err != nil {
			return fmt.Errorf("failed to insert message %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) ListRecentSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT session_id, created_at, diagnosis, confidence
        FROM chat_sessions
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionSummary{}
	for rows.Next() {
		var sum SessionSummary
		var diagnosis sql.NullString
		var confidence sql.NullFloat64
		if err := rows.Scan(&sum.SessionID, &sum.CreatedAt, &diagnosis, &confidence); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sum.Diagnosis = diagnosis.String
		sum.Confidence = confidence.Float64
		sessions = append(sessions, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

func (s *SQLiteSessionStore) GetSession(ctx context.Context, sessionID string) (*ChatSession, error) {
	session := ChatSession{SessionID: sessionID}
	var userData, diagnosis sql.NullString
	var confidence sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
        SELECT user_data, diagnosis, confidence, created_at
        FROM chat_sessions
        WHERE session_id = ?`, sessionID).Scan(&userData, &diagnosis, &confidence, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if userData.Valid && userData.String != "" {
		session.UserData = []byte(userData.String)
	} else {
		session.UserData = []byte("null")
	}
	session.Diagnosis = diagnosis.String
	session.Confidence = confidence.Float64
	return &session, nil
}

func (s *SQLiteSessionStore) GetMessages(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT message_type, message_content, timestamp
        FROM chat_messages
        WHERE session_id = ?
        ORDER BY timestamp ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []ChatMessage{}
	for rows.Next() {
		msg := ChatMessage{SessionID: sessionID}
		var msgType string
		if err := rows.Scan(&msgType, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		msg.Type = MessageType(msgType)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}
