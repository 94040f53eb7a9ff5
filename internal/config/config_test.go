package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv убирает переменные на время теста и восстанавливает их после.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, v) })
		}
	}
}

func TestConfigPriority(t *testing.T) {
	unsetEnv(t, "SERVER_ADDRESS", "TRANSLATE_BATCH_SIZE", "TRANSLATE_COOLDOWN", "CONFIG")

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name          string
		envServerAddr string
		envBatchSize  string
		args          []string
		wantAddr      string
		wantBatchSize int
		wantCooldown  time.Duration
	}{
		{
			name:          "Default values",
			args:          []string{"cmd"},
			wantAddr:      DefaultServerAddress,
			wantBatchSize: DefaultTranslateBatchSize,
			wantCooldown:  DefaultTranslateCooldown,
		},
		{
			name:          "Command line flags override defaults",
			args:          []string{"cmd", "-a", ":7070", "-batch-size", "5", "-cooldown", "10ms"},
			wantAddr:      ":7070",
			wantBatchSize: 5,
			wantCooldown:  10 * time.Millisecond,
		},
		{
			name:          "Environment variables override command line flags",
			envServerAddr: ":9090",
			envBatchSize:  "7",
			args:          []string{"cmd", "-a", ":7070", "-batch-size", "5"},
			wantAddr:      ":9090",
			wantBatchSize: 7,
			wantCooldown:  DefaultTranslateCooldown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envServerAddr != "" {
				t.Setenv("SERVER_ADDRESS", tt.envServerAddr)
			}
			if tt.envBatchSize != "" {
				t.Setenv("TRANSLATE_BATCH_SIZE", tt.envBatchSize)
			}

			os.Args = tt.args
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			cfg, err := NewConfig()
			require.NoError(t, err)

			assert.Equal(t, tt.wantAddr, cfg.ServerAddress)
			assert.Equal(t, tt.wantBatchSize, cfg.TranslateBatchSize)
			assert.Equal(t, tt.wantCooldown, cfg.TranslateCooldown)
		})
	}
}

func TestNewConfigRejectsInvalidBatchSize(t *testing.T) {
	unsetEnv(t, "CONFIG")
	t.Setenv("TRANSLATE_BATCH_SIZE", "0")

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cmd"}
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "Defaults are valid", mutate: func(c *Config) {}},
		{name: "Zero batch size", mutate: func(c *Config) { c.TranslateBatchSize = 0 }, wantErr: true},
		{name: "Negative cooldown", mutate: func(c *Config) { c.TranslateCooldown = -time.Second }, wantErr: true},
		{name: "Zero cooldown is allowed", mutate: func(c *Config) { c.TranslateCooldown = 0 }},
		{name: "Negative retries", mutate: func(c *Config) { c.TranslateRetries = -1 }, wantErr: true},
		{name: "Zero history limit", mutate: func(c *Config) { c.MemoryHistoryLimit = 0 }, wantErr: true},
		{name: "Negative rpm", mutate: func(c *Config) { c.ProviderRPM = -5 }, wantErr: true},
		{name: "HTTPS without cert", mutate: func(c *Config) { c.EnableHTTPS = "true" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLookupConfigFile(t *testing.T) {
	unsetEnv(t, "CONFIG")

	assert.Equal(t, "", lookupConfigFile([]string{"-a", ":80"}))
	assert.Equal(t, "a.json", lookupConfigFile([]string{"-c", "a.json"}))
	assert.Equal(t, "b.json", lookupConfigFile([]string{"-a", ":80", "-c=b.json"}))

	t.Setenv("CONFIG", "env.json")
	assert.Equal(t, "env.json", lookupConfigFile([]string{"-c", "a.json"}))
}
