package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
)

// MemoryRepository keeps histories in process. Entries expire ttl after
// their last access, like the Redis repository.
type MemoryRepository struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*memoryEntry
	swept    time.Time
}

type memoryEntry struct {
	messages []*schema.Message
	expires  time.Time
}

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memoryEntry),
	}
}

func (m *MemoryRepository) Load(_ context.Context, sessionID string) (*ConversationHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.live(sessionID)
	if entry == nil {
		return &ConversationHistory{Messages: []*schema.Message{}}, nil
	}
	entry.expires = m.now().Add(m.ttl)
	return &ConversationHistory{
		Messages: append([]*schema.Message(nil), entry.messages...),
	}, nil
}

func (m *MemoryRepository) Save(_ context.Context, sessionID string, history *ConversationHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	history.UpdatedAt = m.now()
	m.sessions[sessionID] = &memoryEntry{
		messages: append([]*schema.Message(nil), history.Messages...),
		expires:  m.now().Add(m.ttl),
	}
	return nil
}

func (m *MemoryRepository) AddMessage(_ context.Context, sessionID string, messages ...*schema.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	entry := m.live(sessionID)
	if entry == nil {
		entry = &memoryEntry{}
		m.sessions[sessionID] = entry
	}
	entry.messages = append(entry.messages, messages...)
	entry.expires = m.now().Add(m.ttl)
	return nil
}

func (m *MemoryRepository) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// live returns the session entry, dropping it when expired. Callers hold mu.
func (m *MemoryRepository) live(sessionID string) *memoryEntry {
	entry, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}
	if m.ttl > 0 && m.now().After(entry.expires) {
		delete(m.sessions, sessionID)
		return nil
	}
	return entry
}

// sweep drops every expired session, at most once per ttl. Callers hold mu.
func (m *MemoryRepository) sweep() {
	now := m.now()
	if m.ttl <= 0 || now.Sub(m.swept) < m.ttl {
		return
	}
	m.swept = now
	for id, entry := range m.sessions {
		if now.After(entry.expires) {
			delete(m.sessions, id)
		}
	}
}
