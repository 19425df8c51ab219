package conversation

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
)

// Service is the session memory used by the agent.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// History returns the stored messages of a session, oldest first.
func (s *Service) History(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	history, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return history.Messages, nil
}

// SaveTurn appends one user question and the assistant reply.
func (s *Service) SaveTurn(ctx context.Context, sessionID, query, reply string) error {
	return s.repo.AddMessage(ctx, sessionID,
		schema.UserMessage(query),
		schema.AssistantMessage(reply, nil),
	)
}

// Replace overwrites the history, e.g. with a single summary message.
func (s *Service) Replace(ctx context.Context, sessionID string, messages []*schema.Message) error {
	return s.repo.Save(ctx, sessionID, &ConversationHistory{Messages: messages})
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Clear(ctx, sessionID)
}
