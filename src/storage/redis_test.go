package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisClient_Errors(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoRedisURL)

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.ErrorContains(t, err, "failed to parse REDIS_URL")
}
