package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/InQaaaaGit/lingrind.git/internal/config"
)

// OpenAIClient реализует Completer поверх OpenAI Chat Completions.
// Все вызовы проходят через общий ограничитель частоты (PROVIDER_RPM).
type OpenAIClient struct {
	client  *openai.Client
	limiter ratelimit.Limiter
	logger  *zap.Logger
}

// NewOpenAIClient создает клиента из конфигурации.
func NewOpenAIClient(cfg *config.Config, logger *zap.Logger) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")
	}
	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = config.DefaultProviderTimeout
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	limiter := ratelimit.NewUnlimited()
	if cfg.ProviderRPM > 0 {
		limiter = ratelimit.New(cfg.ProviderRPM, ratelimit.Per(time.Minute), ratelimit.WithoutSlack)
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(clientCfg),
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Complete отправляет запрос и возвращает текст первого варианта ответа.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	c.limiter.Take()
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, toChatCompletionRequest(req))
	if err != nil {
		err = classifyError(err)
		c.logger.Warn("Provider call failed",
			zap.String("model", req.Model),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return "", err
	}

	c.logger.Debug("Provider call completed",
		zap.String("model", req.Model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

func toChatCompletionRequest(req Request) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msg := openai.ChatCompletionMessage{Role: string(m.Role)}
		if m.ImageURL != "" {
			msg.MultiContent = []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: m.Content},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: m.ImageURL}},
			}
		} else {
			msg.Content = m.Content
		}
		msgs = append(msgs, msg)
	}

	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
}

// classifyError сводит ошибки клиента к ErrRateLimited/ErrUpstream, отмену контекста оставляет как есть.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
		}
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", ErrRateLimited, reqErr.Err)
		}
		return fmt.Errorf("%w: status %d: %v", ErrUpstream, reqErr.HTTPStatusCode, reqErr.Err)
	}

	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
