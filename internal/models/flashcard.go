package models

import "time"

// Значения полей карточки по умолчанию.
const (
	DefaultFlashcardSource = "user"
	DefaultFlashcardStatus = "new"
	DefaultEaseFactor      = 2.5
)

// Flashcard сохраненная карточка пользователя.
type Flashcard struct {
	ID           string     `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID       string     `json:"userId" bson:"userId"`
	JP           string     `json:"jp" bson:"jp" validate:"required"`
	Romaji       string     `json:"romaji,omitempty" bson:"romaji,omitempty"`
	EN           string     `json:"en" bson:"en" validate:"required"`
	Formal       string     `json:"formal,omitempty" bson:"formal,omitempty"`
	Audio        string     `json:"audio,omitempty" bson:"audio,omitempty"`
	Explanation  string     `json:"explanation,omitempty" bson:"explanation,omitempty"`
	Source       string     `json:"source" bson:"source"`
	LastReviewed *time.Time `json:"lastReviewed,omitempty" bson:"lastReviewed,omitempty"`
	Interval     int        `json:"interval" bson:"interval"`
	EaseFactor   float64    `json:"easeFactor" bson:"easeFactor"`
	Repetitions  int        `json:"repetitions" bson:"repetitions"`
	Status       string     `json:"status" bson:"status"`
}

// ApplyDefaults заполняет незаданные поля значениями по умолчанию.
func (f *Flashcard) ApplyDefaults() {
	if f.Source == "" {
		f.Source = DefaultFlashcardSource
	}
	if f.Status == "" {
		f.Status = DefaultFlashcardStatus
	}
	if f.EaseFactor == 0 {
		f.EaseFactor = DefaultEaseFactor
	}
}

// AddFlashcardsRequest тело POST /api/user-flashcards.
type AddFlashcardsRequest struct {
	UserID string      `json:"userId" validate:"required"`
	Cards  []Flashcard `json:"cards" validate:"required,dive"`
}

// DeleteFlashcardRequest тело DELETE /api/user-flashcards.
type DeleteFlashcardRequest struct {
	UserID string `json:"userId" validate:"required"`
	JP     string `json:"jp" validate:"required"`
}

// MessageResponse ответ с текстовым сообщением.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse тело ответа об ошибке.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
