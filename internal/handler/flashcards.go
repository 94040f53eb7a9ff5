package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/models"
	"github.com/InQaaaaGit/lingrind.git/internal/storage"
)

// HandleListFlashcards возвращает карточки пользователя
func (h *Handler) HandleListFlashcards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		h.writeError(w, http.StatusBadRequest, "Missing userId", nil)
		return
	}

	cards, err := h.service.ListFlashcards(r.Context(), userID)
	if err != nil {
		h.storageError(w, "Listing flashcards failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, cards)
}

// HandleAddFlashcards сохраняет карточки, которых еще нет у пользователя
func (h *Handler) HandleAddFlashcards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.AddFlashcardsRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			h.writeError(w, http.StatusBadRequest, "Invalid data", err)
			return
		}
		h.writeError(w, http.StatusBadRequest, "Invalid data", nil)
		return
	}

	added, err := h.service.AddFlashcards(r.Context(), req.UserID, req.Cards)
	if err != nil {
		h.storageError(w, "Adding flashcards failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, models.MessageResponse{Message: fmt.Sprintf("Added %d new card(s)", added)})
}

// HandleDeleteFlashcard удаляет одну карточку пользователя
func (h *Handler) HandleDeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.DeleteFlashcardRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Missing data", nil)
		return
	}

	deleted, err := h.service.DeleteFlashcard(r.Context(), req.UserID, req.JP)
	if err != nil {
		h.storageError(w, "Deleting flashcard failed", err)
		return
	}
	h.logger.Info("Flashcard delete", zap.String("user_id", req.UserID), zap.Bool("deleted", deleted))
	h.writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Card deleted"})
}

// storageError переводит ошибки хранилища в ответ: ошибки данных 400, прочие 500.
func (h *Handler) storageError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, storage.ErrEmptyUserID) || errors.Is(err, storage.ErrInvalidCard) {
		h.writeError(w, http.StatusBadRequest, "Invalid data", err)
		return
	}
	h.logger.Error(msg, zap.Error(err))
	h.writeError(w, http.StatusInternalServerError, internalErrorMessage, err)
}
