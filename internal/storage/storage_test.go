package storage

import (
	"context"
	"gpttransit/pkg"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopStore(t *testing.T) {
	var s Store = NopStore{}
	ctx := context.Background()
	require.NoError(t, s.AppendMessage(ctx, "s", "user", "hi"))
	require.NoError(t, s.RecordFeedback(ctx, pkg.Feedback{SessionID: "s"}))
	msgs, err := s.ListMessages(ctx, "s", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.NoError(t, s.Close())
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.EnsureSchema(ctx))

	id := "test-" + uuid.NewString()
	require.NoError(t, s.AppendMessage(ctx, id, "user", "How do I get to City Hall?"))
	require.NoError(t, s.AppendMessage(ctx, id, "assistant", "Take the East West line."))
	require.NoError(t, s.AppendMessage(ctx, "", "user", "ignored"))

	msgs, err := s.ListMessages(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "Take the East West line.", msgs[1].Content)
	assert.False(t, msgs[0].CreatedAt.IsZero())

	msgs, err = s.ListMessages(ctx, id, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "assistant", msgs[0].Role)

	require.NoError(t, s.RecordFeedback(ctx, pkg.Feedback{SessionID: id, Index: 1, Liked: true, Content: "Take the East West line."}))
}
