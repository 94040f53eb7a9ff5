// Package relay реализует пакетную пересылку элементов во внешний сервис.
//
// Входные элементы фильтруются, делятся на последовательные пакеты фиксированного
// размера и по одному пакету отправляются через BatchFunc. Пакеты обрабатываются строго
// последовательно, между ними выдерживается пауза. Ошибка пакета не прерывает обработку:
// пакет просто не добавляет результатов, а ошибка попадает в лог и в отчет.
package relay

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBatchSize размер пакета по умолчанию.
	DefaultBatchSize = 20
	// DefaultCooldown пауза между пакетами по умолчанию.
	DefaultCooldown = 1200 * time.Millisecond
)

// BatchFunc выполняет внешний вызов для одного пакета.
// index начинается с 1 и нужен только для логов.
type BatchFunc[I, R any] func(ctx context.Context, index int, batch []I) ([]R, error)

// Options параметры пересылки.
type Options struct {
	BatchSize int           // Максимальный размер пакета, <= 0 - DefaultBatchSize
	Cooldown  time.Duration // Пауза после пакета, кроме последнего
	Retries   int           // Дополнительные попытки для упавшего пакета
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Cooldown < 0 {
		o.Cooldown = 0
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	return o
}

// Result накопленные результаты и отчет по пакетам.
type Result[R any] struct {
	Items  []R
	Report Report
}

// Relay пересылает элементы типа I и собирает результаты типа R.
type Relay[I, R any] struct {
	opts   Options
	keep   func(I) bool
	accept func(R) bool
	logger *zap.Logger
	wait   func(ctx context.Context, d time.Duration) error
}

// New создает Relay. keep отбирает входные элементы, accept - результаты.
// nil в keep или accept означает "пропускать все".
func New[I, R any](opts Options, keep func(I) bool, accept func(R) bool, logger *zap.Logger) *Relay[I, R] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay[I, R]{
		opts:   opts.withDefaults(),
		keep:   keep,
		accept: accept,
		logger: logger,
		wait:   sleepWithCtx,
	}
}

// Options возвращает действующие параметры.
func (r *Relay[I, R]) Options() Options {
	return r.opts
}

// Run обрабатывает items и всегда возвращает результат, даже если все пакеты упали.
// Порядок результатов совпадает с порядком входа за вычетом отброшенных элементов.
func (r *Relay[I, R]) Run(ctx context.Context, items []I, call BatchFunc[I, R]) Result[R] {
	filtered := Filter(items, r.keep)
	batches := Partition(filtered, r.opts.BatchSize)

	res := Result[R]{
		Items: make([]R, 0, len(filtered)),
		Report: Report{
			Received: len(items),
			Items:    len(filtered),
			Batches:  len(batches),
			Outcomes: make([]BatchOutcome, 0, len(batches)),
		},
	}
	if len(batches) == 0 {
		return res
	}

	r.logger.Info("Relay started",
		zap.Int("items", len(filtered)),
		zap.Int("dropped", len(items)-len(filtered)),
		zap.Int("batches", len(batches)),
		zap.Int("batch_size", r.opts.BatchSize),
	)

	for i, batch := range batches {
		index := i + 1
		if err := ctx.Err(); err != nil {
			r.skipRemaining(&res.Report, batches[i:], index, err)
			break
		}

		accepted, err := r.runBatch(ctx, index, batch, call)
		outcome := BatchOutcome{Index: index, Size: len(batch), Accepted: len(accepted)}
		if err != nil {
			outcome.Error = err.Error()
			res.Report.Failed++
			r.logger.Error("Batch failed",
				zap.Int("batch", index),
				zap.Int("size", len(batch)),
				zap.Error(err),
			)
		} else {
			res.Report.Succeeded++
			res.Items = append(res.Items, accepted...)
			r.logger.Info("Batch processed",
				zap.Int("batch", index),
				zap.Int("accepted", len(accepted)),
			)
		}
		res.Report.Outcomes = append(res.Report.Outcomes, outcome)

		if index == len(batches) {
			break
		}
		if err := r.wait(ctx, r.opts.Cooldown); err != nil {
			r.skipRemaining(&res.Report, batches[i+1:], index+1, err)
			break
		}
	}

	res.Report.Accepted = len(res.Items)
	r.logger.Info("Relay finished",
		zap.Int("accepted", res.Report.Accepted),
		zap.Int("succeeded", res.Report.Succeeded),
		zap.Int("failed", res.Report.Failed),
		zap.Int("skipped", res.Report.Skipped),
	)
	return res
}

// runBatch вызывает call с повторами и отбирает допустимые результаты.
// Результаты неудачной попытки не используются.
func (r *Relay[I, R]) runBatch(ctx context.Context, index int, batch []I, call BatchFunc[I, R]) ([]R, error) {
	var lastErr error
	for attempt := 0; attempt <= r.opts.Retries; attempt++ {
		if attempt > 0 {
			r.logger.Warn("Retrying batch",
				zap.Int("batch", index),
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr),
			)
			if err := r.wait(ctx, r.opts.Cooldown); err != nil {
				return nil, err
			}
		}

		out, err := call(ctx, index, batch)
		if err == nil {
			return Filter(out, r.accept), nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (r *Relay[I, R]) skipRemaining(rep *Report, rest [][]I, firstIndex int, cause error) {
	for j, batch := range rest {
		rep.Skipped++
		rep.Outcomes = append(rep.Outcomes, BatchOutcome{
			Index:   firstIndex + j,
			Size:    len(batch),
			Error:   cause.Error(),
			Skipped: true,
		})
	}
	r.logger.Warn("Relay interrupted",
		zap.Int("skipped_batches", len(rest)),
		zap.Error(cause),
	)
}

// Filter возвращает элементы, для которых keep вернул true, сохраняя порядок.
func Filter[T any](items []T, keep func(T) bool) []T {
	if keep == nil {
		return append([]T(nil), items...)
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Partition делит items на последовательные пакеты не длиннее size.
// Пакеты ссылаются на исходный срез и не пересекаются.
func Partition[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(items) == 0 {
		return nil
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end:end])
	}
	return batches
}

// sleepWithCtx прерываемая пауза.
func sleepWithCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
