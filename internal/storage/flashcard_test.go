package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/models"
)

// testFlashcardStorage общие проверки для всех реализаций FlashcardStorage
func testFlashcardStorage(t *testing.T, store FlashcardStorage) {
	ctx := context.Background()
	userID := "test-" + uuid.NewString()
	other := "test-" + uuid.NewString()

	require.NoError(t, store.CheckConnection(ctx))

	cards, err := store.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cards)

	added, err := store.Add(ctx, userID, []models.Flashcard{
		{JP: "猫", EN: "cat", Romaji: "neko"},
		{JP: "犬", EN: "dog"},
		{JP: "猫", EN: "cat"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = store.Add(ctx, userID, []models.Flashcard{
		{JP: "猫", EN: "cat"},
		{JP: "猫", EN: "kitty"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	added, err = store.Add(ctx, other, []models.Flashcard{{JP: "猫", EN: "cat"}})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	cards, err = store.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	for _, c := range cards {
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, userID, c.UserID)
		assert.Equal(t, models.DefaultFlashcardSource, c.Source)
		assert.Equal(t, models.DefaultFlashcardStatus, c.Status)
		assert.InDelta(t, models.DefaultEaseFactor, c.EaseFactor, 0.0001)
		assert.Zero(t, c.Interval)
		assert.Zero(t, c.Repetitions)
	}

	_, err = store.Add(ctx, userID, []models.Flashcard{{JP: "鳥"}})
	assert.ErrorIs(t, err, ErrInvalidCard)

	// Удаляется ровно одна карточка с данным jp
	deleted, err := store.Delete(ctx, userID, "猫")
	require.NoError(t, err)
	assert.True(t, deleted)

	cards, err = store.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	deleted, err = store.Delete(ctx, userID, "象")
	require.NoError(t, err)
	assert.False(t, deleted)

	cards, err = store.List(ctx, other)
	require.NoError(t, err)
	assert.Len(t, cards, 1)

	_, err = store.List(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestMemoryFlashcards(t *testing.T) {
	store := NewMemoryFlashcards(zap.NewNop())
	defer store.Close()
	testFlashcardStorage(t, store)
}

func TestMemoryFlashcards_KeepsReviewFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryFlashcards(zap.NewNop())
	reviewed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	_, err := store.Add(ctx, "u", []models.Flashcard{{
		JP: "水", EN: "water", Source: "import", Status: "learning",
		EaseFactor: 2.1, Interval: 3, Repetitions: 2, LastReviewed: &reviewed,
	}})
	require.NoError(t, err)

	cards, err := store.List(ctx, "u")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "import", cards[0].Source)
	assert.Equal(t, "learning", cards[0].Status)
	assert.InDelta(t, 2.1, cards[0].EaseFactor, 0.0001)
	assert.Equal(t, 3, cards[0].Interval)
	assert.Equal(t, reviewed, *cards[0].LastReviewed)
}

func TestPostgresFlashcards(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	store, err := NewPostgresFlashcards(context.Background(), dsn, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	testFlashcardStorage(t, store)
}

func TestMongoFlashcards(t *testing.T) {
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI is not set")
	}

	store, err := NewMongoFlashcards(context.Background(), uri, "lingrind_test", zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	testFlashcardStorage(t, store)
}

func TestInsertFields(t *testing.T) {
	card, err := prepareCard("u", models.Flashcard{JP: "火", EN: "fire", Romaji: "hi"})
	require.NoError(t, err)

	doc := insertFields(card)
	assert.NotEmpty(t, doc["_id"])
	assert.Equal(t, "hi", doc["romaji"])
	assert.Equal(t, "user", doc["source"])
	assert.NotContains(t, doc, "jp")
	assert.NotContains(t, doc, "userId")
	assert.NotContains(t, doc, "formal")
	assert.NotContains(t, doc, "lastReviewed")
}
