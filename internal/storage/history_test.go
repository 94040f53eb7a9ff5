package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/models"
)

func conversation(n int) []models.ChatMessage {
	msgs := make([]models.ChatMessage, 0, n)
	for i := 0; i < n; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		msgs = append(msgs, models.ChatMessage{Role: role, Content: fmt.Sprintf("m%d", i)})
	}
	return msgs
}

func historyStores(t *testing.T, limit int) map[string]HistoryStorage {
	file, err := NewFileHistory(filepath.Join(t.TempDir(), "memory.json"), limit, zap.NewNop())
	require.NoError(t, err)
	return map[string]HistoryStorage{
		"memory": NewMemoryHistory(limit),
		"file":   file,
	}
}

func TestHistoryStorage(t *testing.T) {
	ctx := context.Background()

	for name, store := range historyStores(t, 4) {
		t.Run(name, func(t *testing.T) {
			got, err := store.Load(ctx, "nobody")
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)

			require.NoError(t, store.Save(ctx, "u1", conversation(2)))
			got, err = store.Load(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, conversation(2), got)

			// Хранятся только последние 4 сообщения
			require.NoError(t, store.Save(ctx, "u1", conversation(6)))
			got, err = store.Load(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, conversation(6)[2:], got)

			require.NoError(t, store.Save(ctx, "u2", conversation(1)))
			got, err = store.Load(ctx, "u1")
			require.NoError(t, err)
			assert.Len(t, got, 4)

			_, err = store.Load(ctx, "")
			assert.ErrorIs(t, err, ErrEmptyUserID)
			assert.ErrorIs(t, store.Save(ctx, "", nil), ErrEmptyUserID)
		})
	}
}

func TestMemoryHistory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHistory(10)

	msgs := conversation(2)
	require.NoError(t, h.Save(ctx, "u", msgs))
	msgs[0].Content = "changed"

	got, err := h.Load(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "m0", got[0].Content)

	got[1].Content = "changed"
	again, err := h.Load(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "m1", again[1].Content)
}

func TestFileHistory_CreatesFileAndPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "memory.json")

	h1, err := NewFileHistory(path, 20, zap.NewNop())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	require.NoError(t, h1.Save(ctx, "u1", conversation(3)))

	h2, err := NewFileHistory(path, 20, zap.NewNop())
	require.NoError(t, err)
	got, err := h2.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, conversation(3), got)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"u1\"")

	leftovers, err := filepath.Glob(path + ".*.tmp")
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileHistory_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	h, err := NewFileHistory(path, 20, zap.NewNop())
	require.NoError(t, err)

	_, err = h.Load(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrHistoryCorrupted)
}
