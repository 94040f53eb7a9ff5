package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileHistory реализует HistoryStorage в JSON файле вида {"userId": [messages]}.
// Файл читается на каждый запрос, поэтому правки извне видны сразу.
type FileHistory struct {
	filePath string
	limit    int
	mutex    sync.Mutex
	logger   *zap.Logger
}

// NewFileHistory создает хранилище и пустой файл, если его еще нет
func NewFileHistory(filePath string, limit int, logger *zap.Logger) (*FileHistory, error) {
	h := &FileHistory{
		filePath: filePath,
		limit:    limit,
		logger:   logger,
	}

	if _, err := os.Stat(filePath); errors.Is(err, fs.ErrNotExist) {
		if err := h.writeAll(map[string][]models.ChatMessage{}); err != nil {
			return nil, err
		}
		logger.Info("Created history file", zap.String("path", filePath))
	} else if err != nil {
		return nil, fmt.Errorf("error checking history file: %w", err)
	}

	return h, nil
}

// Load возвращает историю пользователя из файла
func (h *FileHistory) Load(_ context.Context, userID string) ([]models.ChatMessage, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()

	all, err := h.readAll()
	if err != nil {
		return nil, err
	}
	return append([]models.ChatMessage{}, all[userID]...), nil
}

// Save перезаписывает историю пользователя, остальные ключи сохраняются
func (h *FileHistory) Save(_ context.Context, userID string, messages []models.ChatMessage) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()

	all, err := h.readAll()
	if err != nil {
		return err
	}
	all[userID] = trimHistory(messages, h.limit)
	return h.writeAll(all)
}

func (h *FileHistory) readAll() (map[string][]models.ChatMessage, error) {
	data, err := os.ReadFile(h.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string][]models.ChatMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading history file: %w", err)
	}

	all := map[string][]models.ChatMessage{}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryCorrupted, err)
	}
	return all, nil
}

// writeAll пишет во временный файл и переименовывает его поверх старого.
func (h *FileHistory) writeAll(all map[string][]models.ChatMessage) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(h.filePath), filepath.Base(h.filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, h.filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing history file: %w", err)
	}
	return nil
}
