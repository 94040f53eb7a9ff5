package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/models"
)

// HandleChat отвечает от имени репетитора
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.ChatRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Prompt and userId are required.", nil)
		return
	}

	reply, err := h.service.Chat(r.Context(), req.UserID, req.Prompt)
	if err != nil {
		h.logger.Error("Chat failed", zap.String("user_id", req.UserID), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, internalErrorMessage, err)
		return
	}

	h.writeJSON(w, http.StatusOK, models.ReplyResponse{Reply: reply})
}

// HandleMemory возвращает историю диалога пользователя
func (h *Handler) HandleMemory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		h.writeError(w, http.StatusBadRequest, "userId is required", nil)
		return
	}

	messages, err := h.service.History(r.Context(), userID)
	if err != nil {
		h.logger.Error("Loading history failed", zap.String("user_id", userID), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, internalErrorMessage, err)
		return
	}

	h.writeJSON(w, http.StatusOK, models.MemoryResponse{Messages: messages})
}

// HandleExtractFlashcards извлекает карточки из текста
func (h *Handler) HandleExtractFlashcards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.ExtractRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Missing or invalid text.", nil)
		return
	}

	cards, err := h.service.ExtractFlashcards(r.Context(), req.Text)
	if err != nil {
		h.logger.Error("Failed to extract flashcards", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Flashcard extraction failed.", err)
		return
	}

	h.writeJSON(w, http.StatusOK, models.ExtractResponse{Cards: cards})
}

// HandleVision отвечает на вопрос об изображении
func (h *Handler) HandleVision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.VisionRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Missing image.", nil)
		return
	}

	reply, err := h.service.DescribeImage(r.Context(), req.Base64Image, req.Prompt)
	if err != nil {
		h.logger.Error("Vision API error", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Vision API failed", err)
		return
	}

	h.writeJSON(w, http.StatusOK, models.ReplyResponse{Reply: reply})
}
