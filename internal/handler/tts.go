package handler

import (
	"net/http"

	"go.uber.org/zap"
)

// HandleTTS отдает mp3 с озвучкой фразы q
func (h *Handler) HandleTTS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	text := r.URL.Query().Get("q")
	if text == "" {
		http.Error(w, "Missing text", http.StatusBadRequest)
		return
	}

	audio, err := h.service.Speak(r.Context(), text)
	if err != nil {
		h.logger.Error("TTS proxy error", zap.Error(err))
		http.Error(w, "TTS Proxy Failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeAudio)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		h.logger.Error("Error writing audio", zap.Error(err))
	}
}
