package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/config"
)

func TestHTTPServer_RunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.ServerAddress = "127.0.0.1:0"

	srv := NewHTTPServer(&http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}, cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTPServer_StartError(t *testing.T) {
	cfg := config.Default()
	cfg.ServerAddress = "invalid-address"

	srv := NewHTTPServer(&http.Server{
		Addr:              cfg.ServerAddress,
		ReadHeaderTimeout: time.Second,
	}, cfg, zap.NewNop())

	err := srv.Run(context.Background())
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "relay.log")

	tests := []struct {
		name    string
		level   string
		file    string
		wantErr bool
	}{
		{name: "info to stdout", level: "info"},
		{name: "debug console", level: "debug"},
		{name: "with file", level: "warn", file: logFile},
		{name: "bad level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.LogLevel = tt.level
			cfg.LogFile = tt.file

			logger, cleanup, err := InitLogger(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			logger.Warn("test entry", zap.String("case", tt.name))
			cleanup()

			if tt.file != "" {
				data, err := os.ReadFile(tt.file)
				require.NoError(t, err)
				assert.Contains(t, string(data), "test entry")
			}
		})
	}
}
