// Package config собирает конфигурацию сервиса из значений по умолчанию,
// JSON-файла, флагов командной строки и переменных окружения.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Значения по умолчанию.
const (
	DefaultServerAddress      = "0.0.0.0:10000"
	DefaultChatModel          = "gpt-4-turbo"
	DefaultVisionModel        = "gpt-4o"
	DefaultProviderTimeout    = 60 * time.Second
	DefaultTranslateBatchSize = 20
	DefaultTranslateCooldown  = 1200 * time.Millisecond
	DefaultMemoryFilePath     = "memory.json"
	DefaultMemoryHistoryLimit = 20
	DefaultMongoDatabase      = "lingrind"
	DefaultBodyLimit          = 10 << 20
	DefaultTTSURL             = "https://translate.google.com/translate_tts"
	DefaultTTSLanguage        = "ja"
	DefaultTTSCacheSize       = 256
	DefaultTTSCacheTTL        = time.Hour
)

// DefaultCORSOrigins список источников, с которых работает клиент (веб, capacitor, APK).
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"https://lingrind-tailwind-starter.onrender.com",
	"capacitor://localhost",
	"https://localhost",
	"http://localhost",
	"file://",
}

// Config хранит конфигурацию приложения.
type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS"` // Адрес для запуска HTTP-сервера
	EnableHTTPS   string `env:"ENABLE_HTTPS"`   // Включение HTTPS (любое непустое значение, кроме false/0)
	TLSCertFile   string `env:"TLS_CERT_FILE"`
	TLSKeyFile    string `env:"TLS_KEY_FILE"`
	ConfigFile    string `env:"CONFIG"` // Путь к JSON-файлу конфигурации

	// Провайдер LLM
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL"` // Пусто - стандартный адрес OpenAI
	ChatModel       string        `env:"CHAT_MODEL"`
	VisionModel     string        `env:"VISION_MODEL"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT"`
	ProviderRPM     int           `env:"PROVIDER_RPM"` // 0 - без ограничения

	// Пакетный перевод
	TranslateBatchSize int           `env:"TRANSLATE_BATCH_SIZE"`
	TranslateCooldown  time.Duration `env:"TRANSLATE_COOLDOWN"`
	TranslateRetries   int           `env:"TRANSLATE_RETRIES"`

	// История диалогов
	MemoryFilePath     string `env:"MEMORY_FILE_PATH"` // Пусто - история только в памяти
	MemoryHistoryLimit int    `env:"MEMORY_HISTORY_LIMIT"`

	// Хранилище карточек: MongoDB имеет приоритет над PostgreSQL, без обоих - память
	DatabaseDSN   string `env:"DATABASE_DSN"`
	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DATABASE"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
	BodyLimit   int64    `env:"BODY_LIMIT"`

	// Прокси синтеза речи
	TTSURL       string        `env:"TTS_URL"`
	TTSLanguage  string        `env:"TTS_LANGUAGE"`
	TTSCacheSize int           `env:"TTS_CACHE_SIZE"`
	TTSCacheTTL  time.Duration `env:"TTS_CACHE_TTL"`

	LogLevel string `env:"LOG_LEVEL"`
	LogFile  string `env:"LOG_FILE"` // Пусто - только stdout
}

// JSONConfig структура JSON-файла конфигурации. Незаданные поля не меняют Config.
type JSONConfig struct {
	ServerAddress      *string  `json:"server_address,omitempty"`
	EnableHTTPS        *bool    `json:"enable_https,omitempty"`
	TLSCertFile        *string  `json:"tls_cert_file,omitempty"`
	TLSKeyFile         *string  `json:"tls_key_file,omitempty"`
	OpenAIBaseURL      *string  `json:"openai_base_url,omitempty"`
	ChatModel          *string  `json:"chat_model,omitempty"`
	VisionModel        *string  `json:"vision_model,omitempty"`
	ProviderTimeout    *string  `json:"provider_timeout,omitempty"`
	ProviderRPM        *int     `json:"provider_rpm,omitempty"`
	TranslateBatchSize *int     `json:"translate_batch_size,omitempty"`
	TranslateCooldown  *string  `json:"translate_cooldown,omitempty"`
	TranslateRetries   *int     `json:"translate_retries,omitempty"`
	MemoryFilePath     *string  `json:"memory_file_path,omitempty"`
	MemoryHistoryLimit *int     `json:"memory_history_limit,omitempty"`
	DatabaseDSN        *string  `json:"database_dsn,omitempty"`
	MongoURI           *string  `json:"mongodb_uri,omitempty"`
	MongoDatabase      *string  `json:"mongodb_database,omitempty"`
	CORSOrigins        []string `json:"cors_origins,omitempty"`
	TTSURL             *string  `json:"tts_url,omitempty"`
	TTSCacheSize       *int     `json:"tts_cache_size,omitempty"`
	LogLevel           *string  `json:"log_level,omitempty"`
	LogFile            *string  `json:"log_file,omitempty"`
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	return &Config{
		ServerAddress:      DefaultServerAddress,
		ChatModel:          DefaultChatModel,
		VisionModel:        DefaultVisionModel,
		ProviderTimeout:    DefaultProviderTimeout,
		TranslateBatchSize: DefaultTranslateBatchSize,
		TranslateCooldown:  DefaultTranslateCooldown,
		MemoryFilePath:     DefaultMemoryFilePath,
		MemoryHistoryLimit: DefaultMemoryHistoryLimit,
		MongoDatabase:      DefaultMongoDatabase,
		CORSOrigins:        append([]string(nil), DefaultCORSOrigins...),
		BodyLimit:          DefaultBodyLimit,
		TTSURL:             DefaultTTSURL,
		TTSLanguage:        DefaultTTSLanguage,
		TTSCacheSize:       DefaultTTSCacheSize,
		TTSCacheTTL:        DefaultTTSCacheTTL,
		LogLevel:           "info",
	}
}

// NewConfig инициализирует конфигурацию.
// Приоритет: значения по умолчанию < JSON-файл < флаги < переменные окружения.
// Перед разбором окружения подгружается .env из рабочего каталога, если он есть.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	cfg := Default()

	// Путь к JSON-файлу нужен до разбора остальных флагов
	cfg.ConfigFile = lookupConfigFile(os.Args[1:])
	jsonCfg, err := loadJSONConfig(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.applyJSONConfig(jsonCfg)

	flag.StringVar(&cfg.ConfigFile, "c", cfg.ConfigFile, "Путь к JSON-файлу конфигурации (env: CONFIG)")
	flag.StringVar(&cfg.ServerAddress, "a", cfg.ServerAddress, "Адрес запуска HTTP-сервера (env: SERVER_ADDRESS)")
	flag.StringVar(&cfg.EnableHTTPS, "s", cfg.EnableHTTPS, "Включить HTTPS (env: ENABLE_HTTPS)")
	flag.StringVar(&cfg.MemoryFilePath, "m", cfg.MemoryFilePath, "Файл истории диалогов (env: MEMORY_FILE_PATH)")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "DSN PostgreSQL для карточек (env: DATABASE_DSN)")
	flag.IntVar(&cfg.TranslateBatchSize, "batch-size", cfg.TranslateBatchSize, "Размер пакета перевода (env: TRANSLATE_BATCH_SIZE)")
	flag.DurationVar(&cfg.TranslateCooldown, "cooldown", cfg.TranslateCooldown, "Пауза между пакетами (env: TRANSLATE_COOLDOWN)")
	flag.Parse()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseEnv применяет переменные окружения поверх текущих значений.
func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}
	return nil
}

// Validate проверяет согласованность значений.
func (c *Config) Validate() error {
	switch {
	case c.TranslateBatchSize <= 0:
		return fmt.Errorf("translate batch size must be positive, got %d", c.TranslateBatchSize)
	case c.TranslateCooldown < 0:
		return fmt.Errorf("translate cooldown must not be negative, got %s", c.TranslateCooldown)
	case c.TranslateRetries < 0:
		return fmt.Errorf("translate retries must not be negative, got %d", c.TranslateRetries)
	case c.MemoryHistoryLimit <= 0:
		return fmt.Errorf("memory history limit must be positive, got %d", c.MemoryHistoryLimit)
	case c.ProviderRPM < 0:
		return fmt.Errorf("provider rpm must not be negative, got %d", c.ProviderRPM)
	case c.IsHTTPSEnabled() && (c.TLSCertFile == "" || c.TLSKeyFile == ""):
		return errors.New("https enabled but tls cert or key file is empty")
	}
	return nil
}

// IsHTTPSEnabled сообщает, включен ли HTTPS.
func (c *Config) IsHTTPSEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(c.EnableHTTPS))
	return v != "" && v != "false" && v != "0"
}

// lookupConfigFile ищет -c в аргументах и CONFIG в окружении (окружение важнее).
func lookupConfigFile(args []string) string {
	if v, ok := os.LookupEnv("CONFIG"); ok {
		return v
	}
	for i, a := range args {
		switch {
		case (a == "-c" || a == "--c") && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(a, "-c="):
			return strings.TrimPrefix(a, "-c=")
		case strings.HasPrefix(a, "--c="):
			return strings.TrimPrefix(a, "--c=")
		}
	}
	return ""
}

// loadJSONConfig читает JSON-файл. Пустое имя или отсутствующий файл дают пустую конфигурацию.
func loadJSONConfig(filename string) (*JSONConfig, error) {
	cfg := &JSONConfig{}
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// applyJSONConfig переносит заданные в JSON значения в Config.
func (c *Config) applyJSONConfig(j *JSONConfig) {
	if j == nil {
		return
	}
	setString(&c.ServerAddress, j.ServerAddress)
	if j.EnableHTTPS != nil {
		if *j.EnableHTTPS {
			c.EnableHTTPS = "true"
		} else {
			c.EnableHTTPS = ""
		}
	}
	setString(&c.TLSCertFile, j.TLSCertFile)
	setString(&c.TLSKeyFile, j.TLSKeyFile)
	setString(&c.OpenAIBaseURL, j.OpenAIBaseURL)
	setString(&c.ChatModel, j.ChatModel)
	setString(&c.VisionModel, j.VisionModel)
	setDuration(&c.ProviderTimeout, j.ProviderTimeout)
	setInt(&c.ProviderRPM, j.ProviderRPM)
	setInt(&c.TranslateBatchSize, j.TranslateBatchSize)
	setDuration(&c.TranslateCooldown, j.TranslateCooldown)
	setInt(&c.TranslateRetries, j.TranslateRetries)
	setString(&c.MemoryFilePath, j.MemoryFilePath)
	setInt(&c.MemoryHistoryLimit, j.MemoryHistoryLimit)
	setString(&c.DatabaseDSN, j.DatabaseDSN)
	setString(&c.MongoURI, j.MongoURI)
	setString(&c.MongoDatabase, j.MongoDatabase)
	if len(j.CORSOrigins) > 0 {
		c.CORSOrigins = append([]string(nil), j.CORSOrigins...)
	}
	setString(&c.TTSURL, j.TTSURL)
	setInt(&c.TTSCacheSize, j.TTSCacheSize)
	setString(&c.LogLevel, j.LogLevel)
	setString(&c.LogFile, j.LogFile)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// setDuration игнорирует некорректные значения, чтобы опечатка в файле не роняла сервис.
func setDuration(dst *time.Duration, v *string) {
	if v == nil {
		return
	}
	if d, err := time.ParseDuration(*v); err == nil {
		*dst = d
	}
}
