// Command relay запускает backend для клиента изучения японского:
// пакетный перевод карточек, диалог с репетитором, озвучку и хранение карточек.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/app"
	"github.com/InQaaaaGit/lingrind.git/internal/buildinfo"
	"github.com/InQaaaaGit/lingrind.git/internal/server"
)

// Заполняются при сборке: go build -ldflags "-X main.buildVersion=v1.0.0 ..."
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("relay: %v", err)
	}
}

func run() error {
	cfg := server.InitConfig(nil)

	logger, cleanup, err := server.InitLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	buildinfo.NewInfo(buildVersion, buildDate, buildCommit).Resolve().Log(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Error creating application", zap.Error(err))
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("Error closing application", zap.Error(err))
		}
	}()

	logger.Info("Relay configured",
		zap.String("chat_model", cfg.ChatModel),
		zap.Int("batch_size", cfg.TranslateBatchSize),
		zap.Duration("cooldown", cfg.TranslateCooldown),
		zap.Int("retries", cfg.TranslateRetries),
	)

	return server.NewHTTPServer(application.GetServer(), cfg, logger).Run(ctx)
}
