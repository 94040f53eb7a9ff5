package relay

// BatchOutcome итог обработки одного пакета.
type BatchOutcome struct {
	Index    int    `json:"index"`
	Size     int    `json:"size"`
	Accepted int    `json:"accepted"`
	Error    string `json:"error,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"`
}

// Report сводка по одному запуску Run.
type Report struct {
	Received  int            `json:"received"` // Элементов во входе
	Items     int            `json:"items"`    // Элементов после фильтрации
	Accepted  int            `json:"accepted"` // Результатов в выходе
	Batches   int            `json:"batches"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Skipped   int            `json:"skipped"`
	Outcomes  []BatchOutcome `json:"outcomes,omitempty"`
}

// Complete сообщает, что все пакеты обработаны без ошибок.
func (r Report) Complete() bool {
	return r.Failed == 0 && r.Skipped == 0
}
