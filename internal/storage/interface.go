package storage

import (
	"context"

	"github.com/InQaaaaGit/lingrind.git/internal/models"
)

// HistoryStorage хранит историю диалога по ключу пользователя.
// Каждый запрос сам читает и записывает историю: при параллельной записи
// одного ключа побеждает последний писатель.
type HistoryStorage interface {
	// Load возвращает историю пользователя, пустую если ее нет
	Load(ctx context.Context, userID string) ([]models.ChatMessage, error)
	// Save заменяет историю пользователя, оставляя только последние сообщения
	Save(ctx context.Context, userID string, messages []models.ChatMessage) error
}

// FlashcardStorage интерфейс для хранилища карточек пользователей
type FlashcardStorage interface {
	// List возвращает все карточки пользователя
	List(ctx context.Context, userID string) ([]models.Flashcard, error)
	// Add сохраняет карточки, которых еще нет у пользователя (по паре jp, en).
	// Возвращает число добавленных.
	Add(ctx context.Context, userID string, cards []models.Flashcard) (int, error)
	// Delete удаляет одну карточку пользователя с указанным jp
	Delete(ctx context.Context, userID, jp string) (bool, error)
	DatabaseChecker
	// Close освобождает ресурсы хранилища
	Close() error
}

// DatabaseChecker определяет интерфейс для проверки соединения с базой данных
type DatabaseChecker interface {
	// CheckConnection проверяет соединение с базой данных
	CheckConnection(ctx context.Context) error
}

// trimHistory оставляет последние limit сообщений.
func trimHistory(messages []models.ChatMessage, limit int) []models.ChatMessage {
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return append([]models.ChatMessage{}, messages...)
}

// prepareCard проверяет карточку и заполняет значения по умолчанию.
func prepareCard(userID string, card models.Flashcard) (models.Flashcard, error) {
	if card.JP == "" || card.EN == "" {
		return card, ErrInvalidCard
	}
	card.UserID = userID
	card.ApplyDefaults()
	return card, nil
}
