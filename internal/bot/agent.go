package bot

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"tichu/internal/bot/brain"
	botinternal "tichu/internal/bot/internal"
	"tichu/internal/domain"
	"tichu/internal/log"
)

// Config bounds a single decision: how many determinized worlds to search,
// how deep, and under what node and wall-clock budget.
type Config struct {
	Samples        int
	Workers        int // 0 means one per CPU
	MaxDepth       int
	NodeBudget     int // per world, 0 means unbounded
	TopK           int
	PruneThreshold int
	TimeBudget     time.Duration
	Aggregation    Aggregation
	Seed           int64
}

// DefaultConfig is tuned for interactive play: a few hundred milliseconds
// per decision across eight sampled worlds.
func DefaultConfig() Config {
	return Config{
		Samples:        8,
		MaxDepth:       6,
		NodeBudget:     200000,
		TopK:           12,
		PruneThreshold: 16,
		TimeBudget:     500 * time.Millisecond,
		Aggregation:    AggregateMean,
		Seed:           1,
	}
}

// Agent is the decision engine: it samples worlds consistent with what the
// seat can observe, searches each independently, and aggregates the root
// values into one legal action. Decisions at different turns are strictly
// sequential; the mutex only guards the sampling rng.
type Agent struct {
	cfg     Config
	eval    Evaluator
	sampler *brain.Sampler

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds an agent. A nil evaluator gets the default heuristic; a nil
// weighter leaves determinization uniform.
func New(cfg Config, eval Evaluator, weighter Weighter) *Agent {
	if cfg.Samples <= 0 {
		cfg.Samples = DefaultConfig().Samples
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().MaxDepth
	}
	if cfg.Aggregation == "" {
		cfg.Aggregation = AggregateMean
	}
	if eval == nil {
		eval = botinternal.HandEvaluator{W: DefaultWeights}
	}
	return &Agent{
		cfg:     cfg,
		eval:    eval,
		sampler: &brain.Sampler{Weighter: weighter},
		rng:     rand.New(rand.NewSource(cfg.Seed)),
	}
}

func (a *Agent) searchConfig() botinternal.SearchConfig {
	return botinternal.SearchConfig{
		MaxDepth:       a.cfg.MaxDepth,
		NodeBudget:     a.cfg.NodeBudget,
		TopK:           a.cfg.TopK,
		PruneThreshold: a.cfg.PruneThreshold,
	}
}

func (a *Agent) sampleWorlds(g *domain.GameState, seat int) []*domain.GameState {
	obs := brain.Observe(g, seat)
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sampler.Worlds(obs, a.cfg.Samples, a.rng)
}

// DecideAction is the per-turn entry point. It always returns a member of
// the legal action set before the time budget expires, degrading to the
// first enumerated legal action if no full evaluation completed.
func (a *Agent) DecideAction(ctx context.Context, g *domain.GameState, seat int) domain.Action {
	legal := domain.LegalActions(g, seat)
	if len(legal) == 0 {
		return domain.Action{Seat: seat, Pass: true}
	}
	fallback := legal[0]

	ctx, cancel := botinternal.BudgetDeadline(ctx, a.cfg.TimeBudget)
	defer cancel()

	worlds := a.sampleWorlds(g, seat)
	results := botinternal.SearchWorlds(ctx, worlds, seat, a.searchConfig(), a.eval, a.cfg.Workers)

	chosen, ok := a.pickAction(legal, results)
	if !ok {
		log.Debug("search budget expired before any evaluation", "seat", seat)
		chosen = fallback
	}
	return a.withWish(g, seat, chosen)
}

// pickAction folds per-world root values into one action. Ties break toward
// the earlier enumerated action, which keeps decisions deterministic for a
// fixed seed.
func (a *Agent) pickAction(legal []domain.Action, results []botinternal.SearchResult) (domain.Action, bool) {
	best := math.Inf(-1)
	var chosen domain.Action
	found := false
	aborted := 0
	for _, r := range results {
		if r.Aborted {
			aborted++
		}
	}

	for _, action := range legal {
		key := action.Key()
		sum, min := 0.0, math.Inf(1)
		n := 0
		for _, r := range results {
			v, ok := r.Values[key]
			if !ok {
				continue
			}
			sum += v
			if v < min {
				min = v
			}
			n++
		}
		if n == 0 {
			continue
		}
		agg := sum / float64(n)
		if a.cfg.Aggregation == AggregateMinimum {
			agg = min
		}
		if agg > best {
			best = agg
			chosen = action
			found = true
		}
	}

	if aborted > 0 {
		log.Debug("search degraded under budget", "aborted_worlds", aborted, "of", len(results))
	}
	return chosen, found
}

// ConsiderBomb offers the agent an out-of-turn bomb. It reports false when
// no bomb is held or when staying quiet values higher.
func (a *Agent) ConsiderBomb(ctx context.Context, g *domain.GameState, seat int) (domain.Action, bool) {
	legal := domain.LegalActions(g, seat)
	if len(legal) == 0 {
		return domain.Action{}, false
	}

	ctx, cancel := botinternal.BudgetDeadline(ctx, a.cfg.TimeBudget)
	defer cancel()

	worlds := a.sampleWorlds(g, seat)
	results := botinternal.SearchWorlds(ctx, worlds, seat, a.searchConfig(), a.eval, a.cfg.Workers)
	quiet := botinternal.ValueWorlds(ctx, worlds, seat, a.searchConfig(), a.eval, a.cfg.Workers)

	declineValue := 0.0
	for _, v := range quiet {
		declineValue += v
	}
	if len(quiet) > 0 {
		declineValue /= float64(len(quiet))
	}

	action, found := a.pickAction(legal, results)
	if !found {
		return domain.Action{}, false
	}

	bombValue := aggregateKey(results, action.Key(), a.cfg.Aggregation)
	if bombValue > declineValue+bombMargin {
		return action, true
	}
	return domain.Action{}, false
}

func aggregateKey(results []botinternal.SearchResult, key string, mode Aggregation) float64 {
	sum, min := 0.0, math.Inf(1)
	n := 0
	for _, r := range results {
		if v, ok := r.Values[key]; ok {
			sum += v
			if v < min {
				min = v
			}
			n++
		}
	}
	if n == 0 {
		return math.Inf(-1)
	}
	if mode == AggregateMinimum {
		return min
	}
	return sum / float64(n)
}

// withWish attaches a rank wish to a MahJong play: the lowest rank absent
// from the rest of the hand, so the obligation lands on the opponents, not
// on cards the agent still wants to shed on its own terms.
func (a *Agent) withWish(g *domain.GameState, seat int, action domain.Action) domain.Action {
	if action.Pass || action.Wish != 0 || !domain.ContainsCard(action.Combo.Cards, domain.MahJong) {
		return action
	}
	remaining := domain.RemoveCards(g.Round.Hands[seat], action.Combo.Cards)
	for r := domain.Rank(2); r <= domain.RankAce; r++ {
		if !domain.ContainsRank(remaining, r) {
			action.Wish = r
			return action
		}
	}
	action.Wish = domain.RankAce
	return action
}
