package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/models"
)

// FlashcardsCollection имя коллекции карточек
const FlashcardsCollection = "userflashcards"

// MongoFlashcards реализует FlashcardStorage с использованием MongoDB
type MongoFlashcards struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewMongoFlashcards подключается к MongoDB и создает уникальный индекс (userId, jp, en)
func NewMongoFlashcards(ctx context.Context, uri, database string, logger *zap.Logger) (*MongoFlashcards, error) {
	clientOptions := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		if discErr := client.Disconnect(context.Background()); discErr != nil {
			logger.Error("Failed to disconnect MongoDB client after ping error", zap.Error(discErr))
		}
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	coll := client.Database(database).Collection(FlashcardsCollection)
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "jp", Value: 1}, {Key: "en", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := coll.Indexes().CreateOne(ctx, index); err != nil {
		if discErr := client.Disconnect(context.Background()); discErr != nil {
			logger.Error("Failed to disconnect MongoDB client after index error", zap.Error(discErr))
		}
		return nil, fmt.Errorf("failed to create flashcard index: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", database))
	return &MongoFlashcards{client: client, coll: coll, logger: logger}, nil
}

// List возвращает карточки пользователя
func (ms *MongoFlashcards) List(ctx context.Context, userID string) ([]models.Flashcard, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	cursor, err := ms.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("error finding flashcards: %w", err)
	}

	cards := []models.Flashcard{}
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("error decoding flashcards: %w", err)
	}
	return cards, nil
}

// Add выполняет upsert каждой карточки: существующие не меняются
func (ms *MongoFlashcards) Add(ctx context.Context, userID string, cards []models.Flashcard) (int, error) {
	if userID == "" {
		return 0, ErrEmptyUserID
	}
	if len(cards) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(cards))
	for _, card := range cards {
		card, err := prepareCard(userID, card)
		if err != nil {
			return 0, err
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"userId": card.UserID, "jp": card.JP, "en": card.EN}).
			SetUpdate(bson.M{"$setOnInsert": insertFields(card)}).
			SetUpsert(true))
	}

	res, err := ms.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return 0, fmt.Errorf("error adding flashcards: %w", err)
	}
	return int(res.UpsertedCount), nil
}

// insertFields поля новой карточки кроме тех, что уже заданы фильтром.
func insertFields(card models.Flashcard) bson.M {
	doc := bson.M{
		"_id":         uuid.NewString(),
		"source":      card.Source,
		"interval":    card.Interval,
		"easeFactor":  card.EaseFactor,
		"repetitions": card.Repetitions,
		"status":      card.Status,
	}
	optional := map[string]string{
		"romaji":      card.Romaji,
		"formal":      card.Formal,
		"audio":       card.Audio,
		"explanation": card.Explanation,
	}
	for k, v := range optional {
		if v != "" {
			doc[k] = v
		}
	}
	if card.LastReviewed != nil {
		doc["lastReviewed"] = *card.LastReviewed
	}
	return doc
}

// Delete удаляет одну карточку пользователя с указанным jp
func (ms *MongoFlashcards) Delete(ctx context.Context, userID, jp string) (bool, error) {
	if userID == "" {
		return false, ErrEmptyUserID
	}
	res, err := ms.coll.DeleteOne(ctx, bson.M{"userId": userID, "jp": jp})
	if err != nil {
		return false, fmt.Errorf("error deleting flashcard: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// CheckConnection проверяет соединение с MongoDB
func (ms *MongoFlashcards) CheckConnection(ctx context.Context) error {
	return ms.client.Ping(ctx, nil)
}

// Close отключает клиента
func (ms *MongoFlashcards) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ms.client.Disconnect(ctx)
}
