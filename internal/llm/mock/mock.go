// Package mock содержит управляемую реализацию llm.Completer для тестов.
package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/InQaaaaGit/lingrind.git/internal/llm"
)

// Completer отвечает через CompleteFunc и запоминает все запросы.
// Без CompleteFunc каждый вызов возвращает ошибку.
type Completer struct {
	CompleteFunc func(ctx context.Context, req llm.Request) (string, error)

	mu       sync.Mutex
	requests []llm.Request
}

// Complete реализует llm.Completer.
func (c *Completer) Complete(ctx context.Context, req llm.Request) (string, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()

	if c.CompleteFunc == nil {
		return "", errors.New("not implemented")
	}
	return c.CompleteFunc(ctx, req)
}

// Requests возвращает копию полученных запросов.
func (c *Completer) Requests() []llm.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]llm.Request(nil), c.requests...)
}

// Reply отвечает всегда одним и тем же текстом.
func Reply(text string) *Completer {
	return &Completer{CompleteFunc: func(context.Context, llm.Request) (string, error) {
		return text, nil
	}}
}

// Fail всегда возвращает err.
func Fail(err error) *Completer {
	return &Completer{CompleteFunc: func(context.Context, llm.Request) (string, error) {
		return "", err
	}}
}

var _ llm.Completer = (*Completer)(nil)
