package conversation

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// ContextStrategy picks the part of a history handed to the model.
type ContextStrategy interface {
	Window(messages []*schema.Message) []*schema.Message
}

// WindowStrategy keeps the last MaxTurns messages. It is used when no
// summarizer is configured.
type WindowStrategy struct {
	MaxTurns int
}

func NewWindowStrategy(maxTurns int) *WindowStrategy {
	return &WindowStrategy{MaxTurns: maxTurns}
}

func (s *WindowStrategy) Window(messages []*schema.Message) []*schema.Message {
	if s.MaxTurns <= 0 {
		return messages
	}
	return trimTail(messages, s.MaxTurns)
}

// Transcript renders messages as "Human: ..." and "AI: ..." lines for the
// summarization prompt.
func Transcript(messages []*schema.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case schema.User:
			b.WriteString("Human: " + msg.Content + "\n")
		case schema.Assistant:
			if msg.Content == "" {
				continue
			}
			b.WriteString("AI: " + msg.Content + "\n")
		case schema.System:
			b.WriteString("System: " + msg.Content + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if len(messages) <= maxTurns {
		return messages
	}
	return messages[len(messages)-maxTurns:]
}
