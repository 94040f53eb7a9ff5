package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/models"
)

// HandleTranslate переводит карточки пакетами.
// Отсутствующий или испорченный список считается пустым, ответ всегда 200.
func (h *Handler) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.TranslateRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.logger.Info("Translate request without a readable body", zap.Error(err))
	}

	cards := req.CardList()
	h.logger.Info("Translating cards", zap.Int("cards", len(cards)))

	resp := h.service.TranslateCards(r.Context(), cards)
	h.writeJSON(w, http.StatusOK, resp)
}
