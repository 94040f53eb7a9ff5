package llm

import "errors"

// Классы ошибок провайдера, по которым принимают решения вызывающие.
var (
	// ErrEmptyResponse провайдер ответил без текста
	ErrEmptyResponse = errors.New("no content in provider response")
	// ErrRateLimited провайдер вернул 429
	ErrRateLimited = errors.New("provider rate limited")
	// ErrUpstream прочие ошибки провайдера
	ErrUpstream = errors.New("provider request failed")
	// ErrResponseInvalid текст ответа не удалось разобрать как ожидаемый JSON
	ErrResponseInvalid = errors.New("provider response invalid")
	// ErrMissingAPIKey не задан ключ доступа
	ErrMissingAPIKey = errors.New("missing provider api key")
)
