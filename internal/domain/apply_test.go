package domain

import (
	"errors"
	"testing"
)

func play(t *testing.T, g *GameState, seat int, cards ...Card) {
	t.Helper()
	if err := g.Apply(Action{Seat: seat, Combo: MustClassify(cards)}); err != nil {
		t.Fatalf("seat %d playing %v: %v", seat, cards, err)
	}
}

func pass(t *testing.T, g *GameState, seat int) {
	t.Helper()
	if err := g.Apply(Action{Seat: seat, Pass: true}); err != nil {
		t.Fatalf("seat %d passing: %v", seat, err)
	}
}

func TestApplyRejectsIllegalActions(t *testing.T) {
	g := newTestGame([4][]Card{
		{{SuitJade, 5}},
		{{SuitJade, 2}},
		{{SuitSword, 2}},
		{{SuitPagoda, 2}},
	})

	tests := []struct {
		name   string
		action Action
	}{
		{"card not in hand", Action{Seat: 0, Combo: MustClassify([]Card{{SuitStar, RankAce}})}},
		{"pass at lead", Action{Seat: 0, Pass: true}},
		{"out of turn play", Action{Seat: 1, Combo: MustClassify([]Card{{SuitJade, 2}})}},
		{"wish without mahjong", Action{Seat: 0, Combo: MustClassify([]Card{{SuitJade, 5}}), Wish: 8}},
		{"bad seat", Action{Seat: 7, Pass: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.Apply(tt.action); !errors.Is(err, ErrIllegalAction) {
				t.Errorf("err = %v, want ErrIllegalAction", err)
			}
		})
	}
	if g.Round.Phase != PhaseAwaitingFirstPlay {
		t.Error("rejected action mutated the state")
	}
}

// TestApplyFullRound scripts a complete four-seat round and checks every
// intermediate transfer plus the final score split.
func TestApplyFullRound(t *testing.T) {
	g := newTestGame([4][]Card{
		{{SuitJade, 5}, {SuitJade, RankAce}},
		{Dragon, {SuitSword, 3}},
		{{SuitPagoda, RankKing}, {SuitStar, RankKing}},
		{{SuitSword, 2}, {SuitSword, 7}},
	})

	play(t, g, 0, Card{SuitJade, 5})
	play(t, g, 1, Dragon)
	pass(t, g, 2)
	pass(t, g, 3)
	pass(t, g, 0)

	// The Dragon won its own trick; the pile goes to the opponent holding
	// fewer cards, which is seat 0.
	if got := CountPoints(g.Round.Piles[0]); got != 30 {
		t.Fatalf("seat 0 pile after dragon trick = %d points, want 30", got)
	}
	if g.Round.Trick.NextSeat != 1 {
		t.Fatalf("lead after dragon trick = seat %d, want 1", g.Round.Trick.NextSeat)
	}

	play(t, g, 1, Card{SuitSword, 3}) // seat 1 finishes first
	play(t, g, 2, Card{SuitStar, RankKing})
	pass(t, g, 3)
	pass(t, g, 0)

	if got := CountPoints(g.Round.Piles[2]); got != 10 {
		t.Fatalf("seat 2 pile = %d points, want 10", got)
	}

	play(t, g, 2, Card{SuitPagoda, RankKing}) // seat 2 finishes second
	pass(t, g, 3)
	pass(t, g, 0)

	// The retired leader still collects once everyone left has passed.
	if got := CountPoints(g.Round.Piles[2]); got != 20 {
		t.Fatalf("seat 2 pile = %d points, want 20", got)
	}
	if g.Round.Trick.NextSeat != 3 {
		t.Fatalf("lead = seat %d, want 3", g.Round.Trick.NextSeat)
	}

	play(t, g, 3, Card{SuitSword, 7})
	play(t, g, 0, Card{SuitJade, RankAce}) // third finisher closes the round

	if g.Round.Phase != PhaseRoundOver {
		t.Fatal("round not over after the third finisher")
	}
	wantOrder := []int{1, 2, 0, 3}
	for i, seat := range wantOrder {
		if g.Round.FinishOrder[i] != seat {
			t.Fatalf("finish order = %v, want %v", g.Round.FinishOrder, wantOrder)
		}
	}

	// Seats 0 and 2 captured every counting card; seat 3's leftover hand
	// holds none.
	if g.Round.Points != [2]int{50, 0} {
		t.Errorf("round points = %v, want [50 0]", g.Round.Points)
	}
	if g.Scores != [2]int{50, 0} {
		t.Errorf("scores = %v, want [50 0]", g.Scores)
	}
}

func TestApplyDoubleWin(t *testing.T) {
	g := newTestGame([4][]Card{
		{{SuitJade, 3}},
		{{SuitJade, RankKing}, {SuitSword, RankKing}},
		{{SuitSword, 5}},
		{{SuitStar, 2}},
	})
	g.Round.Tichu[0] = 100 // seat 0 called tichu
	g.Round.Tichu[1] = 100 // seat 1 called and will fail

	play(t, g, 0, Card{SuitJade, 3})
	pass(t, g, 1)
	play(t, g, 2, Card{SuitSword, 5})

	if g.Round.Phase != PhaseRoundOver {
		t.Fatal("doublewin did not end the round")
	}
	// 200 for the doublewin, +100 for seat 0's tichu, -100 for seat 1's.
	if g.Round.Points != [2]int{300, -100} {
		t.Errorf("round points = %v, want [300 -100]", g.Round.Points)
	}
}

func TestApplyDogTransfersLead(t *testing.T) {
	g := newTestGame([4][]Card{
		{Dog, {SuitJade, 2}},
		{{SuitJade, 5}},
		{{SuitSword, 5}, {SuitSword, 9}},
		{{SuitPagoda, 5}},
	})
	g.Round.Phase = PhaseTrickClosed

	play(t, g, 0, Dog)

	if g.Round.Trick.NextSeat != 2 {
		t.Errorf("lead after dog = seat %d, want partner seat 2", g.Round.Trick.NextSeat)
	}
	if g.Round.Trick.Active != nil {
		t.Error("dog left an active combination on the table")
	}
}

func TestApplyDogSkipsRetiredPartner(t *testing.T) {
	g := newTestGame([4][]Card{
		{Dog, {SuitJade, 2}},
		{{SuitJade, 5}},
		{},
		{{SuitPagoda, 5}},
	})
	g.Round.Phase = PhaseTrickClosed

	play(t, g, 0, Dog)

	// The lead passes on clockwise from the retired partner's seat.
	if g.Round.Trick.NextSeat != 3 {
		t.Errorf("lead after dog = seat %d, want seat 3 after the retired partner", g.Round.Trick.NextSeat)
	}
}

// TestApplyAcceptsSuitVariants plays combinations the enumerator would not
// have emitted as representatives; rule validation must accept them anyway.
func TestApplyAcceptsSuitVariants(t *testing.T) {
	t.Run("pair from three of a kind", func(t *testing.T) {
		g := newTestGame([4][]Card{
			{{SuitJade, RankKing}, {SuitSword, RankKing}, {SuitPagoda, RankKing}, {SuitJade, 2}},
			{{SuitJade, 5}},
			{{SuitSword, 5}},
			{{SuitPagoda, 5}},
		})
		active := MustClassify([]Card{{SuitJade, RankQueen}, {SuitStar, RankQueen}})
		g.Round.Phase = PhaseTrickOpen
		g.Round.Trick.Active = &active
		g.Round.Trick.NextSeat = 0
		g.Round.Trick.LeaderSeat = 3

		// The enumerator's representative is the Jade/Sword pair; the
		// Sword/Pagoda variant is just as legal.
		play(t, g, 0, Card{SuitSword, RankKing}, Card{SuitPagoda, RankKing})

		if got := g.Round.Trick.Active; got.Type != ComboPair || got.Height != heightOf(RankKing) {
			t.Errorf("active = %s %d, want the king pair", got.Type, got.Height)
		}
		if !ContainsCard(g.Round.Hands[0], Card{SuitJade, RankKing}) {
			t.Error("wrong king removed from hand")
		}
	})

	t.Run("mixed straight keeps the bomb in hand", func(t *testing.T) {
		g := newTestGame([4][]Card{
			{{SuitJade, 2}, {SuitJade, 3}, {SuitJade, 4}, {SuitJade, 5}, {SuitJade, 6}, {SuitSword, 6}},
			{{SuitJade, 7}},
			{{SuitSword, 7}},
			{{SuitPagoda, 7}},
		})

		// The all-Jade window classifies as a straight bomb, so the plain
		// straight with the off-suit six never appears in the enumeration.
		play(t, g, 0,
			Card{SuitJade, 2}, Card{SuitJade, 3}, Card{SuitJade, 4},
			Card{SuitJade, 5}, Card{SuitSword, 6})

		if got := g.Round.Trick.Active; got.Type != ComboStraight {
			t.Errorf("active = %s, want a plain straight", got.Type)
		}
		if !ContainsCard(g.Round.Hands[0], Card{SuitJade, 6}) {
			t.Error("the jade six left the hand")
		}
	})
}

func TestApplyWishObligationEnforced(t *testing.T) {
	setup := func() *GameState {
		g := newTestGame([4][]Card{
			{{SuitJade, 9}, {SuitJade, RankJack}},
			{{SuitJade, 2}},
			{{SuitSword, 2}},
			{{SuitPagoda, 2}},
		})
		active := MustClassify([]Card{{SuitStar, 6}})
		g.Round.Phase = PhaseTrickOpen
		g.Round.Trick.Active = &active
		g.Round.Trick.NextSeat = 0
		g.Round.Trick.LeaderSeat = 3
		g.Round.Trick.Wish = 9
		return g
	}

	g := setup()
	if err := g.Apply(Action{Seat: 0, Pass: true}); !errors.Is(err, ErrIllegalAction) {
		t.Errorf("pass with a playable wished nine: err = %v, want ErrIllegalAction", err)
	}
	jack := Action{Seat: 0, Combo: MustClassify([]Card{{SuitJade, RankJack}})}
	if err := g.Apply(jack); !errors.Is(err, ErrIllegalAction) {
		t.Errorf("omitting a playable wished nine: err = %v, want ErrIllegalAction", err)
	}
	play(t, g, 0, Card{SuitJade, 9})
	if g.Round.Trick.Wish != 0 {
		t.Errorf("wish = %d after fulfillment, want 0", g.Round.Trick.Wish)
	}

	// With no nine in hand the jack goes through.
	g = setup()
	g.Round.Hands[0] = []Card{{SuitJade, RankJack}}
	play(t, g, 0, Card{SuitJade, RankJack})
}

// TestApplyDragonOnClosingPlay retires the third player with the Dragon; the
// final trick pile must still route through the Dragon policy.
func TestApplyDragonOnClosingPlay(t *testing.T) {
	g := newTestGame([4][]Card{
		{{SuitJade, 5}, Dragon},
		{{SuitSword, 3}},
		{{SuitPagoda, 4}},
		{{SuitSword, 2}, {SuitSword, 7}, {SuitSword, 9}, {SuitSword, 10}},
	})

	play(t, g, 0, Card{SuitJade, 5})
	pass(t, g, 1)
	pass(t, g, 2)
	play(t, g, 3, Card{SuitSword, 7})
	pass(t, g, 0)
	pass(t, g, 1)
	pass(t, g, 2) // seat 3 collects the five and seven

	play(t, g, 3, Card{SuitSword, 2})
	pass(t, g, 0)
	play(t, g, 1, Card{SuitSword, 3})  // first finisher
	play(t, g, 2, Card{SuitPagoda, 4}) // second finisher
	pass(t, g, 3)
	pass(t, g, 0) // retired leader's trick closes

	play(t, g, 3, Card{SuitSword, 9})
	play(t, g, 0, Dragon) // third finisher closes the round

	if g.Round.Phase != PhaseRoundOver {
		t.Fatal("round not over after the third finisher")
	}
	// The Dragon-won pile goes to an opponent of seat 0, never to seat 0.
	if ContainsCard(g.Round.Piles[0], Dragon) {
		t.Error("closing Dragon trick kept by the winner")
	}
	if !ContainsCard(g.Round.Piles[1], Dragon) && !ContainsCard(g.Round.Piles[3], Dragon) {
		t.Error("closing Dragon trick not handed to an opponent")
	}
}

func TestApplyWishLifecycle(t *testing.T) {
	g := newTestGame([4][]Card{
		{MahJong, {SuitJade, 2}},
		{{SuitJade, 8}, {SuitJade, 4}},
		{{SuitSword, 3}},
		{{SuitPagoda, 3}},
	})

	if err := g.Apply(Action{Seat: 0, Combo: MustClassify([]Card{MahJong}), Wish: 8}); err != nil {
		t.Fatalf("mahjong with wish: %v", err)
	}
	if g.Round.Trick.Wish != 8 {
		t.Fatalf("wish = %d, want 8", g.Round.Trick.Wish)
	}

	// Seat 1 holds an eight, so the obligation forces it out.
	actions := LegalActions(g, 1)
	if len(actions) != 1 || !ContainsRank(actions[0].Combo.Cards, 8) {
		t.Fatalf("obliged actions = %v, want only the eight", actions)
	}
	if err := g.Apply(actions[0]); err != nil {
		t.Fatal(err)
	}
	if g.Round.Trick.Wish != 0 {
		t.Errorf("wish = %d after fulfillment, want 0", g.Round.Trick.Wish)
	}
}

func TestApplyLonePhoenixHeight(t *testing.T) {
	g := newTestGame([4][]Card{
		{{SuitJade, 10}},
		{Phoenix, {SuitJade, 2}},
		{{SuitSword, RankJack}, {SuitSword, 2}},
		{{SuitPagoda, 3}},
	})

	play(t, g, 0, Card{SuitJade, 10})
	play(t, g, 1, Phoenix)

	if got := g.Round.Trick.Active.Height; got != heightOf(10)+1 {
		t.Fatalf("phoenix height = %d, want %d", got, heightOf(10)+1)
	}

	// The jack tops the phoenix-on-ten; the ten itself would not.
	actions := LegalActions(g, 2)
	found := false
	for _, a := range actions {
		if !a.Pass && ContainsRank(a.Combo.Cards, RankJack) {
			found = true
		}
	}
	if !found {
		t.Error("jack not offered over the phoenix played on a ten")
	}
}
