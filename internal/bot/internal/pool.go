package internal

import (
	"context"
	"runtime"
	"sync"
	"time"

	"tichu/internal/domain"
)

// worldTask is one determinized world queued for search.
type worldTask struct {
	Index int
	World *domain.GameState
}

// worldOutcome pairs a world's search result with its sample index.
type worldOutcome struct {
	Index  int
	Result SearchResult
}

// SearchWorlds explores independent determinized worlds on a worker pool.
// Each worker owns its world outright; the only shared state is the task and
// result channels and the context's deadline, which workers poll
// cooperatively inside the tree walk. Results come back indexed so
// aggregation is order-independent.
func SearchWorlds(ctx context.Context, worlds []*domain.GameState, seat int, cfg SearchConfig, eval Evaluator, workers int) []SearchResult {
	if len(worlds) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(worlds) {
		workers = len(worlds)
	}

	deadline, _ := ctx.Deadline()

	tasks := make(chan worldTask, len(worlds))
	results := make(chan worldOutcome, len(worlds))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				results <- worldOutcome{
					Index:  task.Index,
					Result: SearchWorld(task.World, seat, cfg, eval, deadline),
				}
			}
		}()
	}

	for i, w := range worlds {
		tasks <- worldTask{Index: i, World: w}
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]SearchResult, len(worlds))
	for r := range results {
		out[r.Index] = r.Result
	}
	return out
}

// ValueWorlds prices every world without choosing a root action; used when
// weighing an out-of-turn bomb against staying quiet.
func ValueWorlds(ctx context.Context, worlds []*domain.GameState, seat int, cfg SearchConfig, eval Evaluator, workers int) []float64 {
	if len(worlds) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(worlds) {
		workers = len(worlds)
	}

	deadline, _ := ctx.Deadline()
	type valued struct {
		Index int
		Value float64
	}

	tasks := make(chan worldTask, len(worlds))
	results := make(chan valued, len(worlds))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				results <- valued{
					Index: task.Index,
					Value: ValueWorld(task.World, seat, cfg, eval, deadline),
				}
			}
		}()
	}

	for i, w := range worlds {
		tasks <- worldTask{Index: i, World: w}
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]float64, len(worlds))
	for r := range results {
		out[r.Index] = r.Value
	}
	return out
}

// BudgetDeadline converts a wall-clock budget into a context with a small
// reserve held back for aggregation, so the caller can still return a legal
// action before the full budget expires.
func BudgetDeadline(ctx context.Context, budget time.Duration) (context.Context, context.CancelFunc) {
	if budget <= 0 {
		return context.WithCancel(ctx)
	}
	reserve := budget / 10
	if reserve > 50*time.Millisecond {
		reserve = 50 * time.Millisecond
	}
	return context.WithDeadline(ctx, time.Now().Add(budget-reserve))
}
