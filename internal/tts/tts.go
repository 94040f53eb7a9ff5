// Package tts проксирует синтез речи через публичный сервис озвучки.
package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/cache"
	"github.com/InQaaaaGit/lingrind.git/internal/config"
)

// UserAgent без браузерного User-Agent сервис отвечает отказом.
const UserAgent = "Mozilla/5.0"

// maxAudioSize ограничение на размер ответа сервиса озвучки.
const maxAudioSize = 5 << 20

var (
	// ErrEmptyText возвращается для пустого текста
	ErrEmptyText = errors.New("text is empty")
	// ErrUpstreamStatus возвращается, когда сервис ответил не 2xx
	ErrUpstreamStatus = errors.New("tts upstream returned error status")
	// ErrAudioTooLarge возвращается, когда ответ сервиса больше maxAudioSize
	ErrAudioTooLarge = errors.New("tts audio is too large")
)

// Client получает mp3 для фразы.
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
	cache      cache.Cache
	logger     *zap.Logger
}

// NewClient создает клиента. cache может быть nil.
func NewClient(cfg *config.Config, c cache.Cache, logger *zap.Logger) *Client {
	if c == nil {
		c = cache.NewNoopCache()
	}
	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = config.DefaultProviderTimeout
	}
	return &Client{
		baseURL:    cfg.TTSURL,
		language:   cfg.TTSLanguage,
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
		logger:     logger,
	}
}

// Speak возвращает аудио для text, сначала пробуя кэш.
func (c *Client) Speak(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	key := c.language + "|" + text
	if audio, ok := c.cache.Get(key); ok {
		c.logger.Debug("TTS cache hit", zap.Int("bytes", len(audio)))
		return audio, nil
	}

	audio, err := c.fetch(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, audio)
	return audio, nil
}

func (c *Client) fetch(ctx context.Context, text string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("tl", c.language)
	q.Set("client", "tw-ob")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error building tts request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading tts response: %w", err)
	}
	if len(audio) > maxAudioSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrAudioTooLarge, maxAudioSize)
	}
	return audio, nil
}
