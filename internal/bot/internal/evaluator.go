package internal

import (
	"tichu/internal/domain"
)

// Weights tunes the heuristic hand evaluator.
type Weights struct {
	Bomb         float64 // per bomb held
	StraightCard float64 // per card bound in a straight
	Triple       float64
	Pair         float64
	HighSingle   float64 // Ace or better left as a single
	LowSingle    float64 // penalty for stranded low singles
	PointDiff    float64 // per captured card point of swing
	FinishFirst  float64 // first finisher on own team
	CardsLeft    float64 // per card still in hand
}

// HandEvaluator is the default heuristic evaluator: captured-point swing
// plus the structural quality of both teams' remaining hands. External
// evaluators (e.g. a trained network) satisfy Evaluator the same way.
type HandEvaluator struct {
	W Weights
}

// Evaluate returns the own-team minus opposing-team heuristic value.
func (e HandEvaluator) Evaluate(world *domain.GameState, seat int) float64 {
	r := world.Round
	team := domain.TeamOf(seat)

	val := 0.0
	for s := 0; s < 4; s++ {
		side := 1.0
		if domain.TeamOf(s) != team {
			side = -1.0
		}
		val += side * e.W.PointDiff * float64(domain.CountPoints(r.Piles[s]))
		val += side * e.handScore(r.Hands[s])
		val += side * e.W.CardsLeft * float64(len(r.Hands[s]))
	}
	if len(r.FinishOrder) > 0 && domain.TeamOf(r.FinishOrder[0]) == team {
		val += e.W.FinishFirst
	} else if len(r.FinishOrder) > 0 {
		val -= e.W.FinishFirst
	}
	return val
}

// handScore greedily decomposes a hand, bombs first, and prices what
// remains, the structure-preserving decomposition the move scorer also
// relies on.
func (e HandEvaluator) handScore(hand []domain.Card) float64 {
	if len(hand) == 0 {
		return 0
	}
	cards := append([]domain.Card{}, hand...)
	domain.SortCards(cards)
	score := 0.0

	cards, bombs := extractSquares(cards)
	score += float64(bombs) * e.W.Bomb

	cards, straightCards := extractStraights(cards)
	score += float64(straightCards) * e.W.StraightCard

	cards, triples := extractTriples(cards)
	score += float64(triples) * e.W.Triple

	cards, pairs := extractPairs(cards)
	score += float64(pairs) * e.W.Pair

	for _, c := range cards {
		switch {
		case c == domain.Dragon:
			score += 2 * e.W.HighSingle
		case c == domain.Phoenix:
			score += 2 * e.W.HighSingle
		case c.Rank >= domain.RankAce:
			score += e.W.HighSingle
		case c == domain.Dog || c == domain.MahJong:
			// lead-control utilities, neither asset nor liability
		case c.Rank <= 9:
			score += e.W.LowSingle
		}
	}
	return score
}

func removeSubset(source, subset []domain.Card) []domain.Card {
	return domain.RemoveCards(source, subset)
}

func extractSquares(cards []domain.Card) ([]domain.Card, int) {
	found := 0
	for i := 0; i <= len(cards)-4; {
		if !cards[i].IsSpecial() && cards[i].Rank == cards[i+3].Rank {
			cards = removeSubset(cards, cards[i:i+4])
			found++
			i = 0
		} else {
			i++
		}
	}
	return cards, found
}

func extractTriples(cards []domain.Card) ([]domain.Card, int) {
	found := 0
	for i := 0; i <= len(cards)-3; {
		if !cards[i].IsSpecial() && cards[i].Rank == cards[i+2].Rank {
			cards = removeSubset(cards, cards[i:i+3])
			found++
			i = 0
		} else {
			i++
		}
	}
	return cards, found
}

func extractPairs(cards []domain.Card) ([]domain.Card, int) {
	found := 0
	for i := 0; i <= len(cards)-2; {
		if !cards[i].IsSpecial() && cards[i].Rank == cards[i+1].Rank {
			cards = removeSubset(cards, cards[i:i+2])
			found++
			i = 0
		} else {
			i++
		}
	}
	return cards, found
}

// extractStraights repeatedly pulls the longest run of five or more
// consecutive ranks, one card per rank, and reports how many cards were
// bound.
func extractStraights(cards []domain.Card) ([]domain.Card, int) {
	bound := 0
	for {
		groups := map[domain.Rank]domain.Card{}
		var ranks []domain.Rank
		for _, c := range cards {
			if c.IsSpecial() {
				continue
			}
			if _, ok := groups[c.Rank]; !ok {
				ranks = append(ranks, c.Rank)
				groups[c.Rank] = c
			}
		}

		bestStart, bestLen := -1, 0
		for i := 0; i < len(ranks); i++ {
			length := 1
			for j := i + 1; j < len(ranks) && ranks[j] == ranks[j-1]+1; j++ {
				length++
			}
			if length >= 5 && length > bestLen {
				bestStart, bestLen = i, length
			}
		}
		if bestStart < 0 {
			return cards, bound
		}

		run := make([]domain.Card, 0, bestLen)
		for k := 0; k < bestLen; k++ {
			run = append(run, groups[ranks[bestStart+k]])
		}
		cards = removeSubset(cards, run)
		bound += bestLen
	}
}
