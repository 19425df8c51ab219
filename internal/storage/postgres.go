package storage

import (
	"context"
	"database/sql"
	"fmt"
	"gpttransit/pkg"
	"strings"

	_ "github.com/lib/pq"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// PostgresStore keeps transcripts and feedback in Postgres.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects with the lib/pq driver and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresStore(db), nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS chat_messages_session_id_idx ON chat_messages(session_id, id)`,
		`CREATE TABLE IF NOT EXISTS chat_feedback (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			message_index INTEGER NOT NULL,
			liked BOOLEAN NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS chat_feedback_session_id_idx ON chat_feedback(session_id)`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) AppendMessage(ctx context.Context, sessionID, role, content string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (session_id, role, content) VALUES ($1, $2, $3)`,
		sessionID, role, content,
	)
	return err
}

// ListMessages returns the latest limit messages of a session, oldest first.
func (s *PostgresStore) ListMessages(ctx context.Context, sessionID string, limit int) ([]pkg.ConversationMessage, error) {
	if strings.TrimSpace(sessionID) == "" {
		return []pkg.ConversationMessage{}, nil
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, created_at
		 FROM chat_messages
		 WHERE session_id = $1
		 ORDER BY id DESC
		 LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]pkg.ConversationMessage, 0)
	for rows.Next() {
		var m pkg.ConversationMessage
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

func (s *PostgresStore) RecordFeedback(ctx context.Context, fb pkg.Feedback) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_feedback (session_id, message_index, liked, content) VALUES ($1, $2, $3, $4)`,
		fb.SessionID, fb.Index, fb.Liked, fb.Content,
	)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
