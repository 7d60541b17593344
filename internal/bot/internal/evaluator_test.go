package internal

import (
	"testing"

	"tichu/internal/domain"
)

var testWeights = Weights{
	Bomb:         30,
	StraightCard: 2,
	Triple:       8,
	Pair:         4,
	HighSingle:   3,
	LowSingle:    -1.5,
	PointDiff:    1,
	FinishFirst:  40,
	CardsLeft:    -2.5,
}

func endgameWorld(hands [4][]domain.Card) *domain.GameState {
	g := domain.NewGame(1000)
	g.StartRound(hands)
	return g
}

func TestEvaluateIsZeroSum(t *testing.T) {
	g := endgameWorld([4][]domain.Card{
		{{Suit: domain.SuitJade, Rank: 5}, {Suit: domain.SuitSword, Rank: 5}},
		{{Suit: domain.SuitJade, Rank: domain.RankKing}},
		{{Suit: domain.SuitSword, Rank: 9}, {Suit: domain.SuitPagoda, Rank: 9}, {Suit: domain.SuitStar, Rank: 9}},
		{{Suit: domain.SuitPagoda, Rank: 2}},
	})
	g.Round.Piles[0] = []domain.Card{{Suit: domain.SuitJade, Rank: 10}}

	e := HandEvaluator{W: testWeights}
	v0 := e.Evaluate(g, 0)
	v1 := e.Evaluate(g, 1)
	if v0 != -v1 {
		t.Errorf("values not zero-sum: seat0 %v, seat1 %v", v0, v1)
	}
	v2 := e.Evaluate(g, 2)
	if v0 != v2 {
		t.Errorf("partners disagree: seat0 %v, seat2 %v", v0, v2)
	}
}

func TestHandScorePrefersStructure(t *testing.T) {
	e := HandEvaluator{W: testWeights}

	bomb := []domain.Card{
		{Suit: domain.SuitJade, Rank: 8},
		{Suit: domain.SuitSword, Rank: 8},
		{Suit: domain.SuitPagoda, Rank: 8},
		{Suit: domain.SuitStar, Rank: 8},
	}
	scattered := []domain.Card{
		{Suit: domain.SuitJade, Rank: 3},
		{Suit: domain.SuitSword, Rank: 6},
		{Suit: domain.SuitPagoda, Rank: 9},
		{Suit: domain.SuitStar, Rank: 2},
	}
	if e.handScore(bomb) <= e.handScore(scattered) {
		t.Errorf("bomb hand %v scored below scattered hand %v", e.handScore(bomb), e.handScore(scattered))
	}

	if got := e.handScore(nil); got != 0 {
		t.Errorf("empty hand score = %v, want 0", got)
	}
}

func TestExtractStraights(t *testing.T) {
	cards := []domain.Card{
		{Suit: domain.SuitJade, Rank: 4},
		{Suit: domain.SuitSword, Rank: 5},
		{Suit: domain.SuitJade, Rank: 6},
		{Suit: domain.SuitStar, Rank: 7},
		{Suit: domain.SuitPagoda, Rank: 8},
		{Suit: domain.SuitJade, Rank: domain.RankKing},
	}
	rest, bound := extractStraights(cards)
	if bound != 5 {
		t.Errorf("bound = %d, want 5", bound)
	}
	if len(rest) != 1 || rest[0].Rank != domain.RankKing {
		t.Errorf("remainder = %v, want the king", rest)
	}
}

func TestExtractSquaresAndPairs(t *testing.T) {
	cards := []domain.Card{
		{Suit: domain.SuitJade, Rank: 8},
		{Suit: domain.SuitSword, Rank: 8},
		{Suit: domain.SuitPagoda, Rank: 8},
		{Suit: domain.SuitStar, Rank: 8},
		{Suit: domain.SuitJade, Rank: 3},
		{Suit: domain.SuitSword, Rank: 3},
	}
	rest, squares := extractSquares(cards)
	if squares != 1 {
		t.Fatalf("squares = %d, want 1", squares)
	}
	rest, pairs := extractPairs(rest)
	if pairs != 1 || len(rest) != 0 {
		t.Errorf("pairs = %d remainder = %v, want one pair and nothing left", pairs, rest)
	}
}
