package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/models"
)

const createFlashcardsTableSQL = `CREATE TABLE IF NOT EXISTS user_flashcards (` +
	`id TEXT PRIMARY KEY,` +
	`user_id TEXT NOT NULL,` +
	`jp TEXT NOT NULL,` +
	`romaji TEXT NOT NULL DEFAULT '',` +
	`en TEXT NOT NULL,` +
	`formal TEXT NOT NULL DEFAULT '',` +
	`audio TEXT NOT NULL DEFAULT '',` +
	`explanation TEXT NOT NULL DEFAULT '',` +
	`source TEXT NOT NULL DEFAULT 'user',` +
	`last_reviewed TIMESTAMPTZ,` +
	`review_interval INTEGER NOT NULL DEFAULT 0,` +
	`ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,` +
	`repetitions INTEGER NOT NULL DEFAULT 0,` +
	`status TEXT NOT NULL DEFAULT 'new',` +
	`created_at TIMESTAMPTZ NOT NULL DEFAULT now(),` +
	`UNIQUE (user_id, jp, en)` +
	`)`

const insertFlashcardSQL = `INSERT INTO user_flashcards ` +
	`(id, user_id, jp, romaji, en, formal, audio, explanation, source, last_reviewed, review_interval, ease_factor, repetitions, status) ` +
	`VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) ` +
	`ON CONFLICT (user_id, jp, en) DO NOTHING`

const selectFlashcardsSQL = `SELECT id, user_id, jp, romaji, en, formal, audio, explanation, source, ` +
	`last_reviewed, review_interval, ease_factor, repetitions, status ` +
	`FROM user_flashcards WHERE user_id = $1 ORDER BY created_at, id`

const deleteFlashcardSQL = `DELETE FROM user_flashcards WHERE id = (` +
	`SELECT id FROM user_flashcards WHERE user_id = $1 AND jp = $2 ORDER BY created_at, id LIMIT 1)`

// PostgresFlashcards реализует FlashcardStorage с использованием PostgreSQL
type PostgresFlashcards struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresFlashcards подключается к базе и создает таблицу карточек
func NewPostgresFlashcards(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresFlashcards, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Failed to close DB connection after ping error", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("database connection check error: %w", err)
	}

	if _, err := db.ExecContext(ctx, createFlashcardsTableSQL); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Failed to close DB connection after table creation error", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("table creation error: %w", err)
	}

	return &PostgresFlashcards{db: db, logger: logger}, nil
}

// List возвращает карточки пользователя в порядке добавления
func (ps *PostgresFlashcards) List(ctx context.Context, userID string) ([]models.Flashcard, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	rows, err := ps.db.QueryContext(ctx, selectFlashcardsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying flashcards: %w", err)
	}
	defer rows.Close()

	cards := []models.Flashcard{}
	for rows.Next() {
		var (
			card     models.Flashcard
			reviewed sql.NullTime
		)
		if err := rows.Scan(&card.ID, &card.UserID, &card.JP, &card.Romaji, &card.EN, &card.Formal,
			&card.Audio, &card.Explanation, &card.Source, &reviewed, &card.Interval, &card.EaseFactor,
			&card.Repetitions, &card.Status); err != nil {
			return nil, fmt.Errorf("error scanning flashcard: %w", err)
		}
		if reviewed.Valid {
			t := reviewed.Time
			card.LastReviewed = &t
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flashcards: %w", err)
	}
	return cards, nil
}

// Add сохраняет карточки в одной транзакции, дубликаты пропускаются
func (ps *PostgresFlashcards) Add(ctx context.Context, userID string, cards []models.Flashcard) (int, error) {
	if userID == "" {
		return 0, ErrEmptyUserID
	}
	if len(cards) == 0 {
		return 0, nil
	}

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("transaction start error: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback после Commit безопасен

	stmt, err := tx.PrepareContext(ctx, insertFlashcardSQL)
	if err != nil {
		return 0, fmt.Errorf("query preparation error: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, card := range cards {
		card, err := prepareCard(userID, card)
		if err != nil {
			return 0, err
		}

		var reviewed sql.NullTime
		if card.LastReviewed != nil {
			reviewed = sql.NullTime{Time: *card.LastReviewed, Valid: true}
		}
		res, err := stmt.ExecContext(ctx, uuid.NewString(), card.UserID, card.JP, card.Romaji, card.EN,
			card.Formal, card.Audio, card.Explanation, card.Source, reviewed, card.Interval,
			card.EaseFactor, card.Repetitions, card.Status)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23502" { // not_null_violation
				return 0, ErrInvalidCard
			}
			return 0, fmt.Errorf("insert flashcard error: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("transaction commit error: %w", err)
	}
	return added, nil
}

// Delete удаляет самую раннюю карточку пользователя с указанным jp
func (ps *PostgresFlashcards) Delete(ctx context.Context, userID, jp string) (bool, error) {
	if userID == "" {
		return false, ErrEmptyUserID
	}
	res, err := ps.db.ExecContext(ctx, deleteFlashcardSQL, userID, jp)
	if err != nil {
		return false, fmt.Errorf("delete flashcard error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

// CheckConnection проверяет соединение с базой данных
func (ps *PostgresFlashcards) CheckConnection(ctx context.Context) error {
	return ps.db.PingContext(ctx)
}

// Close закрывает соединение с базой данных
func (ps *PostgresFlashcards) Close() error {
	return ps.db.Close()
}
