package llm

import (
	"fmt"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	fenceOpen  = regexp.MustCompile("(?i)^```[a-z0-9_-]*[ \\t]*\\r?\\n?")
	fenceClose = regexp.MustCompile("\\r?\\n?[ \\t]*```$")
)

// StripCodeFence убирает обрамляющие ```json ... ``` вокруг ответа модели.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Decoded результат разбора ответа-списка.
// Успех: Reason пуст, Items содержит разобранные элементы.
// Неудача: Reason описывает причину, Items пуст.
type Decoded[T any] struct {
	Items   []T
	Dropped int // Элементы массива, не подошедшие под T
	Reason  string
}

// OK сообщает об успешном разборе.
func (d Decoded[T]) OK() bool {
	return d.Reason == ""
}

// Err возвращает ошибку с ErrResponseInvalid для неудачного разбора и nil для успешного.
func (d Decoded[T]) Err() error {
	if d.OK() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrResponseInvalid, d.Reason)
}

// DecodeList разбирает текст модели как JSON-массив элементов T.
// Элементы, которые не декодируются в T, отбрасываются и учитываются в Dropped.
func DecodeList[T any](text string) Decoded[T] {
	body := StripCodeFence(text)
	if body == "" {
		return Decoded[T]{Reason: "empty response"}
	}

	data := []byte(body)
	if !json.Valid(data) {
		return Decoded[T]{Reason: "unparsable JSON"}
	}
	if body[0] != '[' {
		return Decoded[T]{Reason: "output was not an array"}
	}

	var raw []jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Decoded[T]{Reason: fmt.Sprintf("unparsable JSON: %v", err)}
	}

	res := Decoded[T]{Items: make([]T, 0, len(raw))}
	for _, el := range raw {
		var v T
		if err := json.Unmarshal(el, &v); err != nil {
			res.Dropped++
			continue
		}
		res.Items = append(res.Items, v)
	}
	return res
}
