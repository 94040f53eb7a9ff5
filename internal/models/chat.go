package models

import "encoding/json"

// ChatMessage сообщение в истории диалога.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest тело POST /api/ai-response.
type ChatRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

// ReplyResponse ответ модели.
type ReplyResponse struct {
	Reply string `json:"reply"`
}

// MemoryResponse ответ GET /api/memory.
type MemoryResponse struct {
	Messages []ChatMessage `json:"messages"`
}

// VisionRequest тело POST /api/vision.
type VisionRequest struct {
	Base64Image string `json:"base64Image" validate:"required"`
	Prompt      string `json:"prompt"`
}

// ExtractRequest тело POST /api/extract-flashcards.
type ExtractRequest struct {
	Text string `json:"text" validate:"required"`
}

// ExtractedCard карточка, извлеченная моделью из текста.
// Прочие поля ответа модели сохраняются в Extra.
type ExtractedCard struct {
	JP          string
	Romaji      string
	EN          string
	Explanation string
	Extra       map[string]json.RawMessage
}

func (c *ExtractedCard) UnmarshalJSON(data []byte) error {
	*c = ExtractedCard{}
	raw := objectFields(data)
	if raw == nil {
		return ErrNotObject
	}
	takeString(raw, "jp", &c.JP)
	takeString(raw, "romaji", &c.Romaji)
	takeString(raw, "en", &c.EN)
	takeString(raw, "explanation", &c.Explanation)
	c.Extra = restOrNil(raw)
	return nil
}

func (c ExtractedCard) MarshalJSON() ([]byte, error) {
	return marshalObject(c.Extra,
		namedString{key: "jp", value: c.JP},
		namedString{key: "romaji", value: c.Romaji, omitEmpty: true},
		namedString{key: "en", value: c.EN},
		namedString{key: "explanation", value: c.Explanation, omitEmpty: true},
	)
}

// ExtractResponse ответ POST /api/extract-flashcards.
type ExtractResponse struct {
	Cards []ExtractedCard `json:"cards"`
}
