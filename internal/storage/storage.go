package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/config"
)

// NewHistoryStorage выбирает хранилище истории: файл, если задан путь, иначе память
func NewHistoryStorage(cfg *config.Config, logger *zap.Logger) (HistoryStorage, error) {
	if cfg.MemoryFilePath == "" {
		logger.Info("Using in-memory chat history")
		return NewMemoryHistory(cfg.MemoryHistoryLimit), nil
	}
	h, err := NewFileHistory(cfg.MemoryFilePath, cfg.MemoryHistoryLimit, logger)
	if err != nil {
		return nil, fmt.Errorf("error initializing history file: %w", err)
	}
	logger.Info("Using file chat history", zap.String("path", cfg.MemoryFilePath))
	return h, nil
}

// NewFlashcardStorage выбирает хранилище карточек: MongoDB, затем PostgreSQL, затем память
func NewFlashcardStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (FlashcardStorage, error) {
	switch {
	case cfg.MongoURI != "":
		s, err := NewMongoFlashcards(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, fmt.Errorf("error initializing MongoDB storage: %w", err)
		}
		logger.Info("Using MongoDB flashcard storage")
		return s, nil
	case cfg.DatabaseDSN != "":
		s, err := NewPostgresFlashcards(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, fmt.Errorf("error initializing PostgreSQL storage: %w", err)
		}
		logger.Info("Using PostgreSQL flashcard storage")
		return s, nil
	default:
		logger.Info("Using in-memory flashcard storage")
		return NewMemoryFlashcards(logger), nil
	}
}
