package bot

import (
	"tichu/internal/bot/brain"
	"tichu/internal/domain"
)

// Evaluator is the boundary contract to the external heuristic: a
// deterministic real-valued score of a fully observed world from one seat's
// team perspective, consumed only at search cutoff nodes. The internal
// search accepts any implementation structurally.
type Evaluator interface {
	Evaluate(world *domain.GameState, seat int) float64
}

// Weighter re-exports the sampler's optional inference collaborator so
// callers can plug card-tracking models without importing brain directly.
type Weighter = brain.Weighter

// Aggregation selects how per-world root values fold into one decision.
type Aggregation string

const (
	// AggregateMean averages values across worlds.
	AggregateMean Aggregation = "mean"
	// AggregateMinimum takes the worst case across worlds, for risk-averse play.
	AggregateMinimum Aggregation = "minimum"
)
