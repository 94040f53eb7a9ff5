package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type item struct {
	Text string
}

type pair struct {
	Src string
	Dst string
}

func keepText(it item) bool { return strings.TrimSpace(it.Text) != "" }

func acceptPair(p pair) bool { return p.Src != "" && p.Dst != "" }

// echo переводит пакет без ошибок.
func echo(_ context.Context, _ int, batch []item) ([]pair, error) {
	out := make([]pair, 0, len(batch))
	for _, it := range batch {
		out = append(out, pair{Src: it.Text, Dst: strings.ToUpper(it.Text)})
	}
	return out, nil
}

// newTestRelay создает Relay без реальных пауз; events фиксирует порядок вызовов и пауз.
func newTestRelay(opts Options, events *[]string) *Relay[item, pair] {
	r := New[item, pair](opts, keepText, acceptPair, zap.NewNop())
	r.wait = func(ctx context.Context, d time.Duration) error {
		if events != nil {
			*events = append(*events, "wait")
		}
		return ctx.Err()
	}
	return r
}

func items(texts ...string) []item {
	out := make([]item, 0, len(texts))
	for _, t := range texts {
		out = append(out, item{Text: t})
	}
	return out
}

func TestRun_DropsInvalidItemsBeforeBatching(t *testing.T) {
	calls := 0
	r := newTestRelay(Options{BatchSize: 2}, nil)

	res := r.Run(context.Background(), items("a", "", "b"), func(ctx context.Context, index int, batch []item) ([]pair, error) {
		calls++
		assert.Equal(t, items("a", "b"), batch)
		return echo(ctx, index, batch)
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, []pair{{"a", "A"}, {"b", "B"}}, res.Items)
	assert.Equal(t, 3, res.Report.Received)
	assert.Equal(t, 2, res.Report.Items)
	assert.Equal(t, 1, res.Report.Batches)
	assert.True(t, res.Report.Complete())
}

func TestRun_FailedBatchIsContained(t *testing.T) {
	r := newTestRelay(Options{BatchSize: 1}, nil)

	res := r.Run(context.Background(), items("one", "two", "three"), func(ctx context.Context, index int, batch []item) ([]pair, error) {
		if index == 2 {
			return []pair{{"leak", "LEAK"}}, errors.New("provider unavailable")
		}
		return echo(ctx, index, batch)
	})

	require.Len(t, res.Items, 2)
	assert.Equal(t, []pair{{"one", "ONE"}, {"three", "THREE"}}, res.Items)
	assert.Equal(t, 2, res.Report.Succeeded)
	assert.Equal(t, 1, res.Report.Failed)
	require.Len(t, res.Report.Outcomes, 3)
	assert.Equal(t, "provider unavailable", res.Report.Outcomes[1].Error)
	assert.Equal(t, 0, res.Report.Outcomes[1].Accepted)
	assert.False(t, res.Report.Complete())
}

func TestRun_EmptyInputMakesNoCalls(t *testing.T) {
	var events []string
	r := newTestRelay(Options{}, &events)

	for _, in := range [][]item{nil, {}, items("", "   ")} {
		res := r.Run(context.Background(), in, func(context.Context, int, []item) ([]pair, error) {
			t.Fatal("call must not be issued for empty input")
			return nil, nil
		})
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
		assert.Equal(t, 0, res.Report.Batches)
	}
	assert.Empty(t, events)
}

func TestRun_AllResultsRejectedIsNotAnError(t *testing.T) {
	r := newTestRelay(Options{BatchSize: 5}, nil)

	res := r.Run(context.Background(), items("a", "b"), func(context.Context, int, []item) ([]pair, error) {
		return []pair{{Src: "a"}, {Dst: "B"}}, nil
	})

	assert.Empty(t, res.Items)
	assert.Equal(t, 1, res.Report.Succeeded)
	assert.Equal(t, 0, res.Report.Failed)
}

func TestRun_CooldownSeparatesBatches(t *testing.T) {
	var events []string
	r := newTestRelay(Options{BatchSize: 2, Cooldown: time.Second}, &events)

	r.Run(context.Background(), items("a", "b", "c", "d", "e"), func(ctx context.Context, index int, batch []item) ([]pair, error) {
		events = append(events, fmt.Sprintf("call%d", index))
		if index == 2 {
			return nil, errors.New("boom")
		}
		return echo(ctx, index, batch)
	})

	// Пауза есть и после упавшего пакета, но не после последнего
	assert.Equal(t, []string{"call1", "wait", "call2", "wait", "call3"}, events)
}

func TestRun_RealCooldownElapses(t *testing.T) {
	const cooldown = 20 * time.Millisecond
	r := New[item, pair](Options{BatchSize: 1, Cooldown: cooldown}, keepText, acceptPair, zap.NewNop())

	var starts []time.Time
	res := r.Run(context.Background(), items("a", "b", "c"), func(ctx context.Context, index int, batch []item) ([]pair, error) {
		starts = append(starts, time.Now())
		return echo(ctx, index, batch)
	})

	require.Len(t, starts, 3)
	assert.Len(t, res.Items, 3)
	for i := 1; i < len(starts); i++ {
		assert.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), cooldown)
	}
}

func TestRun_RetriesFailedBatch(t *testing.T) {
	var events []string
	attempts := map[int]int{}
	r := newTestRelay(Options{BatchSize: 1, Retries: 2}, &events)

	res := r.Run(context.Background(), items("a", "b"), func(ctx context.Context, index int, batch []item) ([]pair, error) {
		attempts[index]++
		events = append(events, fmt.Sprintf("call%d", index))
		if index == 1 && attempts[index] < 2 {
			return nil, errors.New("rate limited")
		}
		return echo(ctx, index, batch)
	})

	assert.Equal(t, []pair{{"a", "A"}, {"b", "B"}}, res.Items)
	assert.Equal(t, 2, attempts[1])
	assert.Equal(t, 1, attempts[2])
	assert.Equal(t, []string{"call1", "wait", "call1", "wait", "call2"}, events)
}

func TestRun_RetriesExhausted(t *testing.T) {
	calls := 0
	r := newTestRelay(Options{BatchSize: 3, Retries: 1}, nil)

	res := r.Run(context.Background(), items("a"), func(context.Context, int, []item) ([]pair, error) {
		calls++
		return nil, errors.New("still broken")
	})

	assert.Equal(t, 2, calls)
	assert.Empty(t, res.Items)
	assert.Equal(t, 1, res.Report.Failed)
}

func TestRun_CancelledContextSkipsRemainingBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := New[item, pair](Options{BatchSize: 1, Cooldown: time.Hour}, keepText, acceptPair, zap.NewNop())

	calls := 0
	res := r.Run(ctx, items("a", "b", "c"), func(ctx context.Context, index int, batch []item) ([]pair, error) {
		calls++
		cancel()
		return echo(ctx, index, batch)
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, []pair{{"a", "A"}}, res.Items)
	assert.Equal(t, 2, res.Report.Skipped)
	require.Len(t, res.Report.Outcomes, 3)
	assert.True(t, res.Report.Outcomes[2].Skipped)
	assert.Equal(t, 3, res.Report.Outcomes[2].Index)
}

func TestRun_OutputIsOrderedSubsequence(t *testing.T) {
	in := items("a", "", "b", "c", " ", "d", "e", "f", "g")
	r := newTestRelay(Options{BatchSize: 2}, nil)

	res := r.Run(context.Background(), in, func(ctx context.Context, index int, batch []item) ([]pair, error) {
		if index == 2 {
			return nil, errors.New("fail")
		}
		out, _ := echo(ctx, index, batch)
		// Первый результат каждого пакета некорректен и должен быть отброшен
		out[0].Dst = ""
		return out, nil
	})

	filtered := Filter(in, keepText)
	assert.LessOrEqual(t, len(res.Items), len(filtered))

	pos := 0
	for _, p := range res.Items {
		for pos < len(filtered) && filtered[pos].Text != p.Src {
			pos++
		}
		require.Less(t, pos, len(filtered), "result %q is out of order", p.Src)
		pos++
	}
}

func TestRun_Idempotent(t *testing.T) {
	in := items("x", "y", "", "z")
	r := newTestRelay(Options{BatchSize: 2}, nil)

	first := r.Run(context.Background(), in, echo)
	second := r.Run(context.Background(), in, echo)

	assert.Equal(t, first.Items, second.Items)
	assert.Equal(t, first.Report, second.Report)
}

func TestPartition(t *testing.T) {
	for n := 0; n <= 45; n++ {
		for _, size := range []int{1, 2, 3, 7, 20, 50} {
			in := make([]int, n)
			for i := range in {
				in[i] = i
			}

			batches := Partition(in, size)
			assert.Len(t, batches, (n+size-1)/size, "n=%d size=%d", n, size)

			next := 0
			for _, b := range batches {
				assert.LessOrEqual(t, len(b), size)
				assert.NotEmpty(t, b)
				for _, v := range b {
					assert.Equal(t, next, v)
					next++
				}
			}
			assert.Equal(t, n, next)
		}
	}
}

func TestPartition_BatchesDoNotAlias(t *testing.T) {
	batches := Partition([]int{1, 2, 3, 4}, 2)
	require.Len(t, batches, 2)

	batches[0] = append(batches[0], 99)
	assert.Equal(t, []int{3, 4}, batches[1])
}

func TestNew_Defaults(t *testing.T) {
	r := New[item, pair](Options{BatchSize: 0, Cooldown: -time.Second, Retries: -1}, nil, nil, nil)

	assert.Equal(t, DefaultBatchSize, r.Options().BatchSize)
	assert.Equal(t, time.Duration(0), r.Options().Cooldown)
	assert.Equal(t, 0, r.Options().Retries)
}

func TestSleepWithCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, sleepWithCtx(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepWithCtx(context.Background(), time.Millisecond))
	assert.NoError(t, sleepWithCtx(context.Background(), 0))
}
