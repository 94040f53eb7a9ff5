package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/models"
)

// MemoryFlashcards реализует FlashcardStorage в памяти
type MemoryFlashcards struct {
	mu     sync.RWMutex
	cards  map[string][]models.Flashcard
	logger *zap.Logger
}

// NewMemoryFlashcards создает хранилище карточек в памяти
func NewMemoryFlashcards(logger *zap.Logger) *MemoryFlashcards {
	return &MemoryFlashcards{
		cards:  make(map[string][]models.Flashcard),
		logger: logger,
	}
}

// List возвращает копию карточек пользователя в порядке добавления
func (m *MemoryFlashcards) List(_ context.Context, userID string) ([]models.Flashcard, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Flashcard{}, m.cards[userID]...), nil
}

// Add добавляет отсутствующие карточки
func (m *MemoryFlashcards) Add(_ context.Context, userID string, cards []models.Flashcard) (int, error) {
	if userID == "" {
		return 0, ErrEmptyUserID
	}
	prepared := make([]models.Flashcard, 0, len(cards))
	for _, card := range cards {
		card, err := prepareCard(userID, card)
		if err != nil {
			return 0, err
		}
		prepared = append(prepared, card)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	added := 0
	for _, card := range prepared {
		if m.exists(userID, card.JP, card.EN) {
			continue
		}
		card.ID = uuid.NewString()
		m.cards[userID] = append(m.cards[userID], card)
		added++
	}

	m.logger.Debug("Flashcards added", zap.String("user_id", userID), zap.Int("added", added))
	return added, nil
}

func (m *MemoryFlashcards) exists(userID, jp, en string) bool {
	for _, c := range m.cards[userID] {
		if c.JP == jp && c.EN == en {
			return true
		}
	}
	return false
}

// Delete удаляет первую карточку пользователя с указанным jp
func (m *MemoryFlashcards) Delete(_ context.Context, userID, jp string) (bool, error) {
	if userID == "" {
		return false, ErrEmptyUserID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cards := m.cards[userID]
	for i, c := range cards {
		if c.JP == jp {
			m.cards[userID] = append(cards[:i:i], cards[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// CheckConnection всегда успешна для памяти
func (m *MemoryFlashcards) CheckConnection(_ context.Context) error {
	return nil
}

// Close ничего не делает
func (m *MemoryFlashcards) Close() error {
	return nil
}
