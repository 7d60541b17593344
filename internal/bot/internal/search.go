package internal

import (
	"math"
	"time"

	"tichu/internal/domain"
)

// Evaluator scores a fully observed world from one seat's team perspective.
// It is consulted only at cutoff nodes and must be deterministic for
// identical input.
type Evaluator interface {
	Evaluate(world *domain.GameState, seat int) float64
}

// SearchConfig bounds one world's tree walk.
type SearchConfig struct {
	MaxDepth       int
	NodeBudget     int
	TopK           int // moves kept when pruning kicks in
	PruneThreshold int // legal-action count that triggers top-K pruning
}

// SearchResult is the outcome of searching a single determinized world.
type SearchResult struct {
	Action  domain.Action
	Values  map[string]float64 // root value per action key
	Nodes   int
	Aborted bool
}

// deadlineCheckMask throttles clock reads to every 64th node.
const deadlineCheckMask = 63

type searcher struct {
	cfg      SearchConfig
	eval     Evaluator
	seat     int
	team     int
	base     [2]int // scores before the search, to isolate this round's swing
	deadline time.Time
	nodes    int
	aborted  bool
}

// SearchWorld runs team-aligned minimax with alpha-beta over one world:
// seats on the searcher's team maximize, the opposing seats minimize, and
// every value is the signed own-minus-opposing point swing. On budget expiry
// the walk degrades to evaluator cutoffs and reports Aborted; the best root
// values found so far remain usable.
func SearchWorld(world *domain.GameState, seat int, cfg SearchConfig, eval Evaluator, deadline time.Time) SearchResult {
	s := &searcher{
		cfg:      cfg,
		eval:     eval,
		seat:     seat,
		team:     domain.TeamOf(seat),
		base:     world.Scores,
		deadline: deadline,
	}

	actions := s.orderedActions(world, seat)
	res := SearchResult{Values: make(map[string]float64, len(actions))}
	if len(actions) == 0 {
		res.Action = domain.Action{Seat: seat, Pass: true}
		return res
	}

	best := math.Inf(-1)
	for i, a := range actions {
		child := world.Clone()
		if err := child.Apply(a); err != nil {
			continue // enumerated actions are legal by construction
		}
		v := s.value(child, s.cfg.MaxDepth-1, math.Inf(-1), math.Inf(1))
		res.Values[a.Key()] = v
		if v > best || i == 0 {
			best = v
			res.Action = a
		}
		if s.aborted {
			break
		}
	}
	res.Nodes = s.nodes
	res.Aborted = s.aborted
	return res
}

// ValueWorld scores a world without committing to a root action, used to
// price declining an out-of-turn bomb.
func ValueWorld(world *domain.GameState, seat int, cfg SearchConfig, eval Evaluator, deadline time.Time) float64 {
	s := &searcher{
		cfg:      cfg,
		eval:     eval,
		seat:     seat,
		team:     domain.TeamOf(seat),
		base:     world.Scores,
		deadline: deadline,
	}
	return s.value(world, cfg.MaxDepth, math.Inf(-1), math.Inf(1))
}

func (s *searcher) value(g *domain.GameState, depth int, alpha, beta float64) float64 {
	if g.Round.Phase == domain.PhaseRoundOver {
		own := g.Scores[s.team] - s.base[s.team]
		opp := g.Scores[1-s.team] - s.base[1-s.team]
		return float64(own - opp)
	}

	s.nodes++
	if s.cfg.NodeBudget > 0 && s.nodes > s.cfg.NodeBudget {
		s.aborted = true
	}
	if !s.aborted && s.nodes&deadlineCheckMask == 0 && !s.deadline.IsZero() && time.Now().After(s.deadline) {
		s.aborted = true
	}
	if s.aborted || depth <= 0 {
		return s.eval.Evaluate(g, s.seat)
	}

	acting := g.Round.Trick.NextSeat
	actions := s.orderedActions(g, acting)
	if len(actions) == 0 {
		return s.eval.Evaluate(g, s.seat)
	}

	maximizing := domain.TeamOf(acting) == s.team
	best := math.Inf(-1)
	if !maximizing {
		best = math.Inf(1)
	}
	for _, a := range actions {
		child := g.Clone()
		if err := child.Apply(a); err != nil {
			continue
		}
		v := s.value(child, depth-1, alpha, beta)
		if maximizing {
			if v > best {
				best = v
			}
			if best >= beta {
				return best
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if v < best {
				best = v
			}
			if best <= alpha {
				return best
			}
			if best < beta {
				beta = best
			}
		}
		if s.aborted {
			break
		}
	}
	return best
}

// orderedActions returns the legal set in static search order: lower
// combinations first, bombs deferred, pass last (the enumerator's order),
// truncated to TopK plays when the branching factor crosses the threshold.
// Pass survives pruning so pruned nodes never lose the quiet line.
func (s *searcher) orderedActions(g *domain.GameState, seat int) []domain.Action {
	actions := domain.LegalActions(g, seat)
	if s.cfg.PruneThreshold <= 0 || len(actions) <= s.cfg.PruneThreshold || s.cfg.TopK <= 0 {
		return actions
	}

	kept := make([]domain.Action, 0, s.cfg.TopK+1)
	for _, a := range actions {
		if a.Pass {
			kept = append(kept, a)
			continue
		}
		if len(kept) < s.cfg.TopK {
			kept = append(kept, a)
		}
	}
	return kept
}
