package models

import (
	"encoding/json"
	"strings"

	"github.com/InQaaaaGit/lingrind.git/internal/relay"
)

// CardInput карточка, которую нужно перевести. Обязательное поле - jp.
type CardInput struct {
	JP string `json:"jp"`
}

// UnmarshalJSON никогда не возвращает ошибку: элемент неправильной формы
// или jp не строкой дает пустую карточку, которая потом отфильтровывается.
func (c *CardInput) UnmarshalJSON(data []byte) error {
	*c = CardInput{}
	if raw := objectFields(data); raw != nil {
		takeString(raw, "jp", &c.JP)
	}
	return nil
}

// Valid сообщает, что в карточке есть непустой jp.
func (c CardInput) Valid() bool {
	return strings.TrimSpace(c.JP) != ""
}

// TranslateRequest тело POST /api/translate.
type TranslateRequest struct {
	Cards json.RawMessage `json:"cards"`
}

// CardList возвращает карточки запроса. Отсутствующий или не массив cards - пустой список.
func (r TranslateRequest) CardList() []CardInput {
	if len(r.Cards) == 0 {
		return nil
	}
	var cards []CardInput
	if err := json.Unmarshal(r.Cards, &cards); err != nil {
		return nil
	}
	return cards
}

// Translation переведенная карточка.
// Поля, которые модель добавила сверх jp/en/romaji/formal, а также известные
// поля не строкового типа хранятся в Extra и возвращаются клиенту без изменений.
type Translation struct {
	JP     string
	EN     string
	Romaji string
	Formal string
	Extra  map[string]json.RawMessage
}

// UnmarshalJSON требует только, чтобы элемент был объектом. Поля не строкового
// типа не делают перевод ошибочным: годится ли он, решает Valid.
func (t *Translation) UnmarshalJSON(data []byte) error {
	*t = Translation{}
	raw := objectFields(data)
	if raw == nil {
		return ErrNotObject
	}
	takeString(raw, "jp", &t.JP)
	takeString(raw, "en", &t.EN)
	takeString(raw, "romaji", &t.Romaji)
	takeString(raw, "formal", &t.Formal)
	t.Extra = restOrNil(raw)
	return nil
}

func (t Translation) MarshalJSON() ([]byte, error) {
	return marshalObject(t.Extra,
		namedString{key: "jp", value: t.JP},
		namedString{key: "en", value: t.EN},
		namedString{key: "romaji", value: t.Romaji, omitEmpty: true},
		namedString{key: "formal", value: t.Formal, omitEmpty: true},
	)
}

// Valid сообщает, что перевод содержит и исходный текст, и перевод.
func (t Translation) Valid() bool {
	return t.JP != "" && t.EN != ""
}

// TranslateResponse ответ POST /api/translate.
type TranslateResponse struct {
	Translated []Translation `json:"translated"`
	Report     relay.Report  `json:"report"`
}
