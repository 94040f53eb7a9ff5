package storage

import (
	"context"
	"sync"

	"github.com/InQaaaaGit/lingrind.git/internal/models"
)

// MemoryHistory реализует HistoryStorage в памяти процесса
type MemoryHistory struct {
	mu      sync.RWMutex
	limit   int
	entries map[string][]models.ChatMessage
}

// NewMemoryHistory создает хранилище истории в памяти
func NewMemoryHistory(limit int) *MemoryHistory {
	return &MemoryHistory{
		limit:   limit,
		entries: make(map[string][]models.ChatMessage),
	}
}

// Load возвращает копию истории пользователя
func (h *MemoryHistory) Load(_ context.Context, userID string) ([]models.ChatMessage, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]models.ChatMessage{}, h.entries[userID]...), nil
}

// Save заменяет историю пользователя
func (h *MemoryHistory) Save(_ context.Context, userID string, messages []models.ChatMessage) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[userID] = trimHistory(messages, h.limit)
	return nil
}
