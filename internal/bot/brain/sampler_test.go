package brain

import (
	"math/rand"
	"testing"

	"tichu/internal/domain"
)

func TestSampleConsistency(t *testing.T) {
	g := dealtGame(t, 11)
	obs := Observe(g, 0)
	s := &Sampler{}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		world := s.Sample(obs, rng)
		r := world.Round

		seen := map[domain.Card]bool{}
		for seat := 0; seat < 4; seat++ {
			if len(r.Hands[seat]) != obs.HandSizes[seat] {
				t.Fatalf("sample %d: hand size[%d] = %d, want %d", i, seat, len(r.Hands[seat]), obs.HandSizes[seat])
			}
			for _, c := range r.Hands[seat] {
				if seen[c] {
					t.Fatalf("sample %d: card %s dealt twice", i, c)
				}
				seen[c] = true
			}
		}

		// Own hand is reproduced exactly.
		for j, c := range g.Round.Hands[0] {
			if r.Hands[0][j] != c {
				t.Fatalf("sample %d: own hand altered", i)
			}
		}
	}
}

// forcedWeighter pins specific cards to specific seats.
type forcedWeighter struct {
	rows map[domain.Card][4]float64
}

func (f forcedWeighter) Weights(obs *Observation) map[domain.Card][4]float64 {
	return f.rows
}

func TestSampleHonorsWeighter(t *testing.T) {
	g := domain.NewGame(1000)
	g.StartRound([4][]domain.Card{
		{{Suit: domain.SuitJade, Rank: 2}},
		{{Suit: domain.SuitJade, Rank: 3}},
		{{Suit: domain.SuitSword, Rank: 3}},
		{{Suit: domain.SuitPagoda, Rank: 3}},
	})
	// Everything else has already been played.
	inHands := []domain.Card{
		{Suit: domain.SuitJade, Rank: 2},
		{Suit: domain.SuitJade, Rank: 3},
		{Suit: domain.SuitSword, Rank: 3},
		{Suit: domain.SuitPagoda, Rank: 3},
	}
	g.Round.Piles[0] = domain.RemoveCards(domain.NewDeck(), inHands)

	obs := Observe(g, 0)
	if got := len(obs.Unknown()); got != 3 {
		t.Fatalf("unknown = %d, want 3", got)
	}

	s := &Sampler{Weighter: forcedWeighter{rows: map[domain.Card][4]float64{
		{Suit: domain.SuitJade, Rank: 3}:   {0, 1, 0, 0},
		{Suit: domain.SuitSword, Rank: 3}:  {0, 0, 1, 0},
		{Suit: domain.SuitPagoda, Rank: 3}: {0, 0, 0, 1},
	}}}
	rng := rand.New(rand.NewSource(9))

	for i := 0; i < 10; i++ {
		world := s.Sample(obs, rng)
		r := world.Round
		if r.Hands[1][0] != (domain.Card{Suit: domain.SuitJade, Rank: 3}) {
			t.Fatalf("sample %d: seat 1 holds %v", i, r.Hands[1])
		}
		if r.Hands[2][0] != (domain.Card{Suit: domain.SuitSword, Rank: 3}) {
			t.Fatalf("sample %d: seat 2 holds %v", i, r.Hands[2])
		}
		if r.Hands[3][0] != (domain.Card{Suit: domain.SuitPagoda, Rank: 3}) {
			t.Fatalf("sample %d: seat 3 holds %v", i, r.Hands[3])
		}
	}
}

func TestSampleKnownPlacement(t *testing.T) {
	g := dealtGame(t, 12)
	obs := Observe(g, 0)
	traded := g.Round.Hands[3][0]
	obs.MarkKnown(traded, 3)

	s := &Sampler{}
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 10; i++ {
		world := s.Sample(obs, rng)
		if !domain.ContainsCard(world.Round.Hands[3], traded) {
			t.Fatalf("sample %d: known card %s not at seat 3", i, traded)
		}
	}
}

func TestSamplePanicsOnMismatch(t *testing.T) {
	g := dealtGame(t, 13)
	obs := Observe(g, 0)
	obs.HandSizes[2]-- // corrupt the bookkeeping

	defer func() {
		if recover() == nil {
			t.Error("no panic on determinization mismatch")
		}
	}()
	(&Sampler{}).Sample(obs, rand.New(rand.NewSource(3)))
}

func TestWorlds(t *testing.T) {
	g := dealtGame(t, 14)
	obs := Observe(g, 2)
	worlds := (&Sampler{}).Worlds(obs, 5, rand.New(rand.NewSource(4)))
	if len(worlds) != 5 {
		t.Fatalf("worlds = %d, want 5", len(worlds))
	}
	for i, w := range worlds {
		if w == nil || len(w.Round.Hands[2]) != 14 {
			t.Errorf("world %d malformed", i)
		}
	}
}
