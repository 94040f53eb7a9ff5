// Package service содержит прикладную логику: пакетный перевод карточек,
// диалог с репетитором, извлечение карточек, описание изображений и озвучку.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/config"
	"github.com/InQaaaaGit/lingrind.git/internal/llm"
	"github.com/InQaaaaGit/lingrind.git/internal/models"
	"github.com/InQaaaaGit/lingrind.git/internal/prompt"
	"github.com/InQaaaaGit/lingrind.git/internal/relay"
	"github.com/InQaaaaGit/lingrind.git/internal/storage"
)

// NoReply ответ, если модель вернула пустой текст.
const NoReply = "No reply."

// Параметры запросов к модели.
const (
	ExtractTemperature = 0.2
	VisionMaxTokens    = 1000
)

// Speaker синтезирует речь.
type Speaker interface {
	Speak(ctx context.Context, text string) ([]byte, error)
}

// LearningService определяет интерфейс сервиса
type LearningService interface {
	// TranslateCards переводит карточки пакетами. Никогда не возвращает ошибку:
	// упавшие пакеты отражаются только в отчете.
	TranslateCards(ctx context.Context, cards []models.CardInput) models.TranslateResponse
	Chat(ctx context.Context, userID, text string) (string, error)
	History(ctx context.Context, userID string) ([]models.ChatMessage, error)
	ExtractFlashcards(ctx context.Context, text string) ([]models.ExtractedCard, error)
	DescribeImage(ctx context.Context, imageURL, text string) (string, error)
	Speak(ctx context.Context, text string) ([]byte, error)
	ListFlashcards(ctx context.Context, userID string) ([]models.Flashcard, error)
	AddFlashcards(ctx context.Context, userID string, cards []models.Flashcard) (int, error)
	DeleteFlashcard(ctx context.Context, userID, jp string) (bool, error)
	CheckConnection(ctx context.Context) error
}

// LearningServiceImpl реализует LearningService
type LearningServiceImpl struct {
	cfg        *config.Config
	completer  llm.Completer
	history    storage.HistoryStorage
	flashcards storage.FlashcardStorage
	speaker    Speaker
	translator *relay.Relay[models.CardInput, models.Translation]
	logger     *zap.Logger
}

// NewLearningService создает новый экземпляр LearningService
func NewLearningService(
	cfg *config.Config,
	completer llm.Completer,
	history storage.HistoryStorage,
	flashcards storage.FlashcardStorage,
	speaker Speaker,
	logger *zap.Logger,
) *LearningServiceImpl {
	translator := relay.New[models.CardInput, models.Translation](
		relay.Options{
			BatchSize: cfg.TranslateBatchSize,
			Cooldown:  cfg.TranslateCooldown,
			Retries:   cfg.TranslateRetries,
		},
		models.CardInput.Valid,
		models.Translation.Valid,
		logger.Named("relay"),
	)

	return &LearningServiceImpl{
		cfg:        cfg,
		completer:  completer,
		history:    history,
		flashcards: flashcards,
		speaker:    speaker,
		translator: translator,
		logger:     logger,
	}
}

// TranslateCards переводит карточки через пакетную пересылку
func (s *LearningServiceImpl) TranslateCards(ctx context.Context, cards []models.CardInput) models.TranslateResponse {
	res := s.translator.Run(ctx, cards, s.translateBatch)
	return models.TranslateResponse{
		Translated: res.Items,
		Report:     res.Report,
	}
}

// translateBatch один вызов модели на пакет.
func (s *LearningServiceImpl) translateBatch(ctx context.Context, _ int, batch []models.CardInput) ([]models.Translation, error) {
	phrases := make([]string, len(batch))
	for i, c := range batch {
		phrases[i] = c.JP
	}

	text, err := s.completer.Complete(ctx, llm.UserPrompt(s.cfg.ChatModel, prompt.Translate(phrases)))
	if err != nil {
		return nil, err
	}

	decoded := llm.DecodeList[models.Translation](text)
	if !decoded.OK() {
		return nil, decoded.Err()
	}
	if decoded.Dropped > 0 {
		s.logger.Warn("Dropped non-object translations", zap.Int("dropped", decoded.Dropped))
	}
	return decoded.Items, nil
}

// Chat отвечает от имени репетитора с учетом истории пользователя и сохраняет обмен репликами.
func (s *LearningServiceImpl) Chat(ctx context.Context, userID, text string) (string, error) {
	past, err := s.history.Load(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("error loading history: %w", err)
	}

	messages := make([]llm.Message, 0, len(past)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: prompt.TutorSystem})
	for _, m := range past {
		messages = append(messages, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: text})

	reply, err := s.completer.Complete(ctx, llm.Request{Model: s.cfg.ChatModel, Messages: messages})
	if errors.Is(err, llm.ErrEmptyResponse) {
		reply, err = NoReply, nil
	}
	if err != nil {
		return "", err
	}

	updated := append(past,
		models.ChatMessage{Role: string(llm.RoleUser), Content: text},
		models.ChatMessage{Role: string(llm.RoleAssistant), Content: reply},
	)
	if err := s.history.Save(ctx, userID, updated); err != nil {
		return "", fmt.Errorf("error saving history: %w", err)
	}

	s.logger.Info("Tutor replied", zap.String("user_id", userID), zap.Int("history", len(updated)))
	return reply, nil
}

// History возвращает сохраненную историю пользователя
func (s *LearningServiceImpl) History(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	return s.history.Load(ctx, userID)
}

// ExtractFlashcards извлекает карточки из произвольного текста
func (s *LearningServiceImpl) ExtractFlashcards(ctx context.Context, text string) ([]models.ExtractedCard, error) {
	req := llm.UserPrompt(s.cfg.ChatModel, prompt.Extract(text))
	req.Temperature = ExtractTemperature

	raw, err := s.completer.Complete(ctx, req)
	if err != nil && !errors.Is(err, llm.ErrEmptyResponse) {
		return nil, err
	}

	// Пустой ответ разбирается как обычный и дает ошибку разбора
	decoded := llm.DecodeList[models.ExtractedCard](raw)
	if !decoded.OK() {
		return nil, decoded.Err()
	}
	return decoded.Items, nil
}

// DescribeImage отвечает на вопрос об изображении
func (s *LearningServiceImpl) DescribeImage(ctx context.Context, imageURL, text string) (string, error) {
	if text == "" {
		text = prompt.DefaultVisionPrompt
	}
	req := llm.Request{
		Model:     s.cfg.VisionModel,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: text, ImageURL: imageURL}},
		MaxTokens: VisionMaxTokens,
	}

	reply, err := s.completer.Complete(ctx, req)
	if errors.Is(err, llm.ErrEmptyResponse) {
		return NoReply, nil
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}

// Speak возвращает озвучку фразы
func (s *LearningServiceImpl) Speak(ctx context.Context, text string) ([]byte, error) {
	return s.speaker.Speak(ctx, text)
}

// ListFlashcards возвращает карточки пользователя
func (s *LearningServiceImpl) ListFlashcards(ctx context.Context, userID string) ([]models.Flashcard, error) {
	return s.flashcards.List(ctx, userID)
}

// AddFlashcards сохраняет новые карточки и возвращает их число
func (s *LearningServiceImpl) AddFlashcards(ctx context.Context, userID string, cards []models.Flashcard) (int, error) {
	added, err := s.flashcards.Add(ctx, userID, cards)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Flashcards saved",
		zap.String("user_id", userID),
		zap.Int("received", len(cards)),
		zap.Int("added", added),
	)
	return added, nil
}

// DeleteFlashcard удаляет карточку пользователя
func (s *LearningServiceImpl) DeleteFlashcard(ctx context.Context, userID, jp string) (bool, error) {
	return s.flashcards.Delete(ctx, userID, jp)
}

// CheckConnection проверяет хранилище карточек
func (s *LearningServiceImpl) CheckConnection(ctx context.Context) error {
	return s.flashcards.CheckConnection(ctx)
}

var _ LearningService = (*LearningServiceImpl)(nil)
