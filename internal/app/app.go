// Package app собирает зависимости приложения и настраивает маршруты HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/cache"
	"github.com/InQaaaaGit/lingrind.git/internal/config"
	"github.com/InQaaaaGit/lingrind.git/internal/handler"
	"github.com/InQaaaaGit/lingrind.git/internal/llm"
	"github.com/InQaaaaGit/lingrind.git/internal/middleware"
	"github.com/InQaaaaGit/lingrind.git/internal/service"
	"github.com/InQaaaaGit/lingrind.git/internal/storage"
	"github.com/InQaaaaGit/lingrind.git/internal/tts"
)

// App основное приложение: конфигурация, роутер и обработчики.
type App struct {
	config  *config.Config
	router  *chi.Mux
	logger  *zap.Logger
	handler *handler.Handler
	closers []func() error
}

// NewApp создает клиента модели, хранилища, кэш озвучки и сервис.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	completer, err := llm.NewOpenAIClient(cfg, logger.Named("llm"))
	if err != nil {
		return nil, fmt.Errorf("error creating provider client: %w", err)
	}

	history, err := storage.NewHistoryStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	flashcards, err := storage.NewFlashcardStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var audioCache cache.Cache = cache.NewNoopCache()
	if cfg.TTSCacheSize > 0 {
		mc, err := cache.NewMemoryCache(cfg.TTSCacheSize, cfg.TTSCacheTTL)
		if err != nil {
			_ = flashcards.Close()
			return nil, fmt.Errorf("error creating tts cache: %w", err)
		}
		audioCache = mc
	}
	speaker := tts.NewClient(cfg, audioCache, logger.Named("tts"))

	svc := service.NewLearningService(cfg, completer, history, flashcards, speaker, logger)

	a := New(cfg, svc, logger)
	a.closers = append(a.closers, flashcards.Close, func() error {
		audioCache.Close()
		return nil
	})
	return a, nil
}

// New создает приложение поверх готового сервиса и настраивает маршруты.
func New(cfg *config.Config, svc service.LearningService, logger *zap.Logger) *App {
	a := &App{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		handler: handler.NewHandler(svc, cfg, logger),
	}
	a.setupRoutes()
	return a
}

// setupRoutes регистрирует middleware и эндпоинты API.
func (a *App) setupRoutes() {
	a.router.Use(chimiddleware.RequestID)
	a.router.Use(chimiddleware.Recoverer)
	a.router.Use(middleware.LoggerMiddleware(a.logger))
	a.router.Use(middleware.CORSMiddleware(a.config.CORSOrigins))
	if a.config.BodyLimit > 0 {
		a.router.Use(chimiddleware.RequestSize(a.config.BodyLimit))
	}
	a.router.Use(middleware.GzipMiddleware)

	a.router.Get("/ping", a.handler.HandlePing)

	a.router.Route("/api", func(r chi.Router) {
		r.Post("/translate", a.handler.HandleTranslate)
		r.Post("/ai-response", a.handler.HandleChat)
		r.Get("/memory", a.handler.HandleMemory)
		r.Get("/tts", a.handler.HandleTTS)
		r.Post("/extract-flashcards", a.handler.HandleExtractFlashcards)
		r.Post("/vision", a.handler.HandleVision)

		r.Get("/user-flashcards", a.handler.HandleListFlashcards)
		r.Post("/user-flashcards", a.handler.HandleAddFlashcards)
		r.Delete("/user-flashcards", a.handler.HandleDeleteFlashcard)
	})

	// Профилирование только в debug режиме
	if a.config.LogLevel == "debug" {
		a.router.Mount("/debug/pprof", http.DefaultServeMux)
	}
}

// Handler возвращает корневой обработчик.
func (a *App) Handler() http.Handler {
	return a.router
}

// GetServer создает HTTP сервер. Таймаута записи нет: перевод большого списка
// идет пакетами с паузами и длится дольше любого фиксированного лимита.
func (a *App) GetServer() *http.Server {
	return &http.Server{
		Addr:              a.config.ServerAddress,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Close освобождает хранилища и кэш.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
