// Package core runs the transit assistant: a ReAct agent over the transit
// tools with per-session memory.
package core

import (
	"context"
	"errors"
	"fmt"
	"gpttransit/internal/storage"
	"gpttransit/src/conversation"
	"gpttransit/src/logger"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
)

const (
	DefaultMaxSteps = 12
	DefaultMaxTurns = 20
)

// ErrEmptyInput is returned for blank questions.
var ErrEmptyInput = errors.New("input is empty")

// Options wires an AgentManager.
type Options struct {
	ChatModel model.ToolCallingChatModel
	// Summarizer condenses the history before every turn. Without one the
	// last MaxTurns messages are sent instead.
	Summarizer model.BaseChatModel
	Tools      []tool.BaseTool
	Memory     *conversation.Service
	Store      storage.Store
	MaxSteps   int
	MaxTurns   int
}

// AgentManager answers questions for many sessions. Turns of one session
// run one at a time.
type AgentManager struct {
	agent     *react.Agent
	template  prompt.ChatTemplate
	summarize compose.Runnable[map[string]any, *schema.Message]
	window    conversation.ContextStrategy
	memory    *conversation.Service
	store     storage.Store

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// sessionLock serializes turns of one session. It is dropped once no turn
// holds or waits for it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewAgentManager(ctx context.Context, opts Options) (*AgentManager, error) {
	if opts.ChatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if opts.Memory == nil {
		return nil, errors.New("conversation memory is required")
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if opts.Store == nil {
		opts.Store = storage.NopStore{}
	}

	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: opts.ChatModel,
		ToolsConfig:      compose.ToolsNodeConfig{Tools: opts.Tools},
		MaxStep:          opts.MaxSteps,
	})
	if err != nil {
		return nil, fmt.Errorf("create react agent: %w", err)
	}

	m := &AgentManager{
		agent:    agent,
		template: NewChatTemplate(),
		window:   conversation.NewWindowStrategy(opts.MaxTurns),
		memory:   opts.Memory,
		store:    opts.Store,
		locks:    make(map[string]*sessionLock),
	}

	if opts.Summarizer != nil {
		chain, err := compose.NewChain[map[string]any, *schema.Message]().
			AppendChatTemplate(NewSummaryTemplate()).
			AppendChatModel(opts.Summarizer).
			Compile(ctx)
		if err != nil {
			return nil, fmt.Errorf("compile summarization chain: %w", err)
		}
		m.summarize = chain
	}
	return m, nil
}

// Invoke answers one question within a session and records the turn.
func (a *AgentManager) Invoke(ctx context.Context, sessionID, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyInput
	}
	unlock := a.lock(sessionID)
	defer unlock()

	start := time.Now()
	log := logger.Component("agent").With().Str("session_id", sessionID).Logger()

	history, err := a.prepareHistory(ctx, sessionID)
	if err != nil {
		return "", err
	}

	messages, err := a.template.Format(ctx, map[string]any{
		historyKey: history,
		inputKey:   input,
	})
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}

	out, err := a.agent.Generate(ctx, messages)
	if err != nil {
		log.Error().Err(err).Msg("Agent run failed")
		return "", fmt.Errorf("agent generate: %w", err)
	}
	reply := out.Content

	if err := a.memory.SaveTurn(ctx, sessionID, input, reply); err != nil {
		return "", fmt.Errorf("save turn: %w", err)
	}
	a.record(ctx, sessionID, input, reply)

	log.Info().
		Int("history", len(history)).
		Dur("elapsed", time.Since(start)).
		Msg("Agent replied")
	return reply, nil
}

// prepareHistory returns the messages sent with the next question. With a
// summarizer a non-empty history is replaced by one summary message; a
// failed summary falls back to the window.
func (a *AgentManager) prepareHistory(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	history, err := a.memory.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 || a.summarize == nil {
		return a.window.Window(history), nil
	}

	summary, err := a.summarize.Invoke(ctx, map[string]any{
		transcriptKey: conversation.Transcript(history),
	})
	if err != nil || strings.TrimSpace(summary.Content) == "" {
		logger.Warn().Err(err).Str("session_id", sessionID).Msg("History summarization failed, using recent messages")
		return a.window.Window(history), nil
	}

	condensed := []*schema.Message{schema.AssistantMessage(summary.Content, nil)}
	if err := a.memory.Replace(ctx, sessionID, condensed); err != nil {
		return nil, fmt.Errorf("replace history: %w", err)
	}
	logger.Debug().Str("session_id", sessionID).Int("messages", len(history)).Msg("History summarized")
	return condensed, nil
}

func (a *AgentManager) record(ctx context.Context, sessionID, input, reply string) {
	if err := a.store.AppendMessage(ctx, sessionID, string(schema.User), input); err != nil {
		logger.Warn().Err(err).Str("session_id", sessionID).Msg("Transcript write failed")
		return
	}
	if err := a.store.AppendMessage(ctx, sessionID, string(schema.Assistant), reply); err != nil {
		logger.Warn().Err(err).Str("session_id", sessionID).Msg("Transcript write failed")
	}
}

// ClearMemory forgets a session's history.
func (a *AgentManager) ClearMemory(ctx context.Context, sessionID string) error {
	unlock := a.lock(sessionID)
	defer unlock()
	return a.memory.Clear(ctx, sessionID)
}

// History returns the stored messages of a session.
func (a *AgentManager) History(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	return a.memory.History(ctx, sessionID)
}

func (a *AgentManager) lock(sessionID string) func() {
	a.locksMu.Lock()
	l, ok := a.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		a.locks[sessionID] = l
	}
	l.refs++
	a.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		a.locksMu.Lock()
		if l.refs--; l.refs == 0 {
			delete(a.locks, sessionID)
		}
		a.locksMu.Unlock()
	}
}
