// Package handler содержит HTTP обработчики API.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/config"
	"github.com/InQaaaaGit/lingrind.git/internal/models"
	"github.com/InQaaaaGit/lingrind.git/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	contentTypeJSON  = "application/json"
	contentTypeAudio = "audio/mpeg"

	internalErrorMessage = "Internal Server Error"
)

var errNotJSON = errors.New("content type is not application/json")

type Handler struct {
	service  service.LearningService
	cfg      *config.Config
	validate *validator.Validate
	logger   *zap.Logger
}

func NewHandler(service service.LearningService, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger,
	}
}

// decodeJSON читает тело запроса в v. Тело должно быть JSON.
func (h *Handler) decodeJSON(r *http.Request, v any) error {
	defer func() {
		if err := r.Body.Close(); err != nil {
			h.logger.Error("Error closing request body", zap.Error(err))
		}
	}()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), contentTypeJSON) {
		return errNotJSON
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// decodeAndValidate читает тело и проверяет теги validate.
func (h *Handler) decodeAndValidate(r *http.Request, v any) error {
	if err := h.decodeJSON(r, v); err != nil {
		return err
	}
	return h.validate.Struct(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error writing JSON response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string, cause error) {
	resp := models.ErrorResponse{Error: message}
	if cause != nil {
		resp.Details = cause.Error()
	}
	h.writeJSON(w, status, resp)
}
