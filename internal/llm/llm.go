// Package llm описывает обращения к языковой модели и разбор ее ответов.
package llm

import "context"

// Role роль автора сообщения в диалоге.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message одно сообщение диалога. ImageURL (http(s) или data URL) превращает
// сообщение в составное: текст плюс изображение.
type Message struct {
	Role     Role
	Content  string
	ImageURL string
}

// Request запрос на завершение диалога.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float32 // 0 - значение провайдера по умолчанию
	MaxTokens   int     // 0 - без ограничения
}

// Completer возвращает текст первого варианта ответа модели.
// Пустой ответ - ошибка ErrEmptyResponse.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// UserPrompt запрос из одного пользовательского сообщения.
func UserPrompt(model, text string) Request {
	return Request{
		Model:    model,
		Messages: []Message{{Role: RoleUser, Content: text}},
	}
}
