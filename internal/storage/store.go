// Package storage keeps chat transcripts and reply feedback beyond the
// short-lived conversation memory.
package storage

import (
	"context"
	"gpttransit/pkg"
)

// Store records transcripts and feedback.
type Store interface {
	AppendMessage(ctx context.Context, sessionID, role, content string) error
	ListMessages(ctx context.Context, sessionID string, limit int) ([]pkg.ConversationMessage, error)
	RecordFeedback(ctx context.Context, fb pkg.Feedback) error
	Close() error
}

// NopStore is used when no database is configured.
type NopStore struct{}

func (NopStore) AppendMessage(context.Context, string, string, string) error { return nil }

func (NopStore) ListMessages(context.Context, string, int) ([]pkg.ConversationMessage, error) {
	return []pkg.ConversationMessage{}, nil
}

func (NopStore) RecordFeedback(context.Context, pkg.Feedback) error { return nil }

func (NopStore) Close() error { return nil }
