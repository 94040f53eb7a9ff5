package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
)

// ErrNotObject элемент ответа модели не является JSON-объектом.
var ErrNotObject = errors.New("element is not a JSON object")

// objectFields разбирает JSON-объект в набор сырых значений.
// Для не объекта возвращает nil.
func objectFields(data []byte) map[string]json.RawMessage {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	return raw
}

// takeString переносит строковое поле key в dst и удаляет его из raw.
// Значение другого типа (в том числе null) остается в raw как есть.
func takeString(raw map[string]json.RawMessage, key string, dst *string) {
	v, ok := raw[key]
	if !ok {
		return
	}
	if t := bytes.TrimSpace(v); len(t) == 0 || t[0] != '"' {
		return
	}
	var s string
	if json.Unmarshal(v, &s) != nil {
		return
	}
	*dst = s
	delete(raw, key)
}

// restOrNil возвращает оставшиеся поля или nil, если их нет.
func restOrNil(raw map[string]json.RawMessage) map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// namedString строковое поле для marshalObject.
type namedString struct {
	key       string
	value     string
	omitEmpty bool
}

// marshalObject собирает объект: сначала строковые поля в заданном порядке,
// затем поля из extra по алфавиту. Пустое необязательное поле не перекрывает
// одноименное значение из extra.
func marshalObject(extra map[string]json.RawMessage, fields ...namedString) ([]byte, error) {
	var buf bytes.Buffer
	written := make(map[string]bool, len(fields))

	writeField := func(key string, value []byte) {
		if buf.Len() > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
	}

	for _, f := range fields {
		if f.omitEmpty && f.value == "" {
			continue
		}
		v, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		writeField(f.key, v)
		written[f.key] = true
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		if !written[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeField(k, extra[k])
	}

	return append(append([]byte{'{'}, buf.Bytes()...), '}'), nil
}
