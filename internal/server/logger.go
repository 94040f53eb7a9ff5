package server

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/InQaaaaGit/lingrind.git/internal/config"
)

// Параметры ротации файла логов
const (
	logMaxSizeMB  = 50
	logMaxBackups = 5
	logMaxAgeDays = 28
)

// InitLogger создает логгер по конфигурации: JSON в stdout, консольный формат для debug,
// при заданном LOG_FILE дополнительно пишет в файл с ротацией.
// Возвращаемая функция сбрасывает буферы и закрывает файл.
func InitLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	jsonCfg := zap.NewProductionEncoderConfig()
	jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	stdoutEncoder := zapcore.NewJSONEncoder(jsonCfg)
	if level.Level() == zapcore.DebugLevel {
		stdoutEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	cores := []zapcore.Core{
		zapcore.NewCore(stdoutEncoder, zapcore.Lock(os.Stdout), level),
	}

	var rotator *lumberjack.Logger
	if cfg.LogFile != "" {
		rotator = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), zapcore.AddSync(rotator), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	cleanup := func() {
		// Sync для stdout на некоторых системах возвращает EINVAL, это не ошибка записи
		_ = logger.Sync()
		if rotator != nil {
			if err := rotator.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
			}
		}
	}
	return logger, cleanup, nil
}
