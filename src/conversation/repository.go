package conversation

import (
	"context"
	"errors"
	"fmt"
	"gpttransit/src/logger"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "conversation:"

// ConversationHistory is the chat memory of one session.
type ConversationHistory struct {
	Messages  []*schema.Message `json:"messages"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Repository persists conversation histories by session id.
type Repository interface {
	Load(ctx context.Context, sessionID string) (*ConversationHistory, error)
	Save(ctx context.Context, sessionID string, history *ConversationHistory) error
	AddMessage(ctx context.Context, sessionID string, messages ...*schema.Message) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisRepository stores each history as one JSON value under
// conversation:<session>, refreshing its TTL on every read.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) (*ConversationHistory, error) {
	key := keyPrefix + sessionID
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &ConversationHistory{Messages: []*schema.Message{}}, nil
		}
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var history ConversationHistory
	if err := sonic.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}

	if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Conversation TTL refresh failed")
	}
	return &history, nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, history *ConversationHistory) error {
	history.UpdatedAt = time.Now()
	data, err := sonic.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	return r.client.Set(ctx, keyPrefix+sessionID, data, r.ttl).Err()
}

func (r *RedisRepository) AddMessage(ctx context.Context, sessionID string, messages ...*schema.Message) error {
	history, err := r.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	history.Messages = append(history.Messages, messages...)
	return r.Save(ctx, sessionID, history)
}

func (r *RedisRepository) Clear(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, keyPrefix+sessionID).Err()
}

// Close releases the underlying client.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}
