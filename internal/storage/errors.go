package storage

import "errors"

// ErrEmptyUserID возвращается, когда не указан идентификатор пользователя
var ErrEmptyUserID = errors.New("user id is empty")

// ErrInvalidCard возвращается, когда у карточки нет jp или en
var ErrInvalidCard = errors.New("flashcard requires jp and en")

// ErrHistoryCorrupted возвращается, когда файл истории не удается разобрать
var ErrHistoryCorrupted = errors.New("history file is corrupted")
