package domain

import "fmt"

// Apply validates the action by rule and advances the state machine. Plays
// are checked against what the seat actually holds, classified, and compared
// to the active combination, so any rule-legal suit variant is accepted even
// when the enumerator emitted a different representative. It returns
// ErrIllegalAction (wrapped with context) on an illegal action; the state is
// untouched in that case.
func (g *GameState) Apply(a Action) error {
	r := g.Round
	if r == nil || r.Phase == PhaseRoundOver {
		return fmt.Errorf("%w: round is over", ErrIllegalAction)
	}
	if a.Seat < 0 || a.Seat > 3 {
		return fmt.Errorf("%w: bad seat %d", ErrIllegalAction, a.Seat)
	}

	if a.Pass {
		if err := g.checkPass(a); err != nil {
			return err
		}
		g.applyPass(a.Seat)
		return nil
	}

	combo, err := g.checkPlay(a)
	if err != nil {
		return err
	}
	g.applyPlay(a.Seat, combo, a.Wish)
	return nil
}

func (g *GameState) checkPass(a Action) error {
	r := g.Round
	if a.Wish != 0 {
		return fmt.Errorf("%w: seat %d: wish on a pass", ErrIllegalAction, a.Seat)
	}
	if a.Seat != r.Trick.NextSeat {
		return fmt.Errorf("%w: seat %d: pass out of turn", ErrIllegalAction, a.Seat)
	}
	if r.Trick.Active == nil {
		return fmt.Errorf("%w: seat %d: pass on lead", ErrIllegalAction, a.Seat)
	}
	if r.Trick.Wish != 0 && g.canFulfillWish(a.Seat) {
		return fmt.Errorf("%w: seat %d: pass while the wished %d is playable", ErrIllegalAction, a.Seat, r.Trick.Wish)
	}
	return nil
}

// checkPlay validates ownership, shape and precedence, returning the
// classified combination the state machine should install.
func (g *GameState) checkPlay(a Action) (Combination, error) {
	r := g.Round
	if !handHolds(r.Hands[a.Seat], a.Combo.Cards) {
		return Combination{}, fmt.Errorf("%w: seat %d: cards not held: %s", ErrIllegalAction, a.Seat, a.Key())
	}
	combo, err := Classify(a.Combo.Cards)
	if err != nil {
		return Combination{}, fmt.Errorf("%w: seat %d: %s", ErrIllegalAction, a.Seat, a.Key())
	}
	if a.Wish != 0 && (a.Wish < 2 || a.Wish > RankAce || !ContainsCard(combo.Cards, MahJong)) {
		return Combination{}, fmt.Errorf("%w: seat %d: bad wish %d", ErrIllegalAction, a.Seat, a.Wish)
	}

	active := r.Trick.Active
	if a.Seat != r.Trick.NextSeat {
		// Out of turn only a beating bomb interjects, and only over an open
		// trick; the wish binds turns, not interjections.
		if active == nil || !combo.IsBomb() || Compare(combo, *active) != Higher {
			return Combination{}, fmt.Errorf("%w: seat %d: out of turn: %s", ErrIllegalAction, a.Seat, a.Key())
		}
		return combo, nil
	}

	if active == nil {
		if combo.Type == ComboDog && r.Phase == PhaseAwaitingFirstPlay {
			return Combination{}, fmt.Errorf("%w: seat %d: dog on the first play", ErrIllegalAction, a.Seat)
		}
	} else if Compare(combo, *active) != Higher {
		return Combination{}, fmt.Errorf("%w: seat %d: does not beat the table: %s", ErrIllegalAction, a.Seat, a.Key())
	}

	if r.Trick.Wish != 0 && !ContainsRank(combo.Cards, r.Trick.Wish) && g.canFulfillWish(a.Seat) {
		return Combination{}, fmt.Errorf("%w: seat %d: the wished %d is playable", ErrIllegalAction, a.Seat, r.Trick.Wish)
	}
	return combo, nil
}

// canFulfillWish reports whether the seat has any legal play containing the
// wished rank. The representative enumeration suffices here: whether a play
// containing a rank exists is a property of the rank multiset, which the
// representatives cover.
func (g *GameState) canFulfillWish(seat int) bool {
	r := g.Round
	hand := r.Hands[seat]
	var candidates []Action
	if r.Trick.Active == nil {
		candidates = leadActions(hand, seat, r.Phase == PhaseAwaitingFirstPlay)
	} else {
		candidates = followActions(hand, seat, *r.Trick.Active)
	}
	return len(fulfillingWish(candidates, r.Trick.Wish)) > 0
}

// handHolds reports whether every listed card can be taken from the hand,
// consuming one copy per occurrence.
func handHolds(hand []Card, cards []Card) bool {
	if len(cards) == 0 {
		return false
	}
	remaining := append([]Card{}, hand...)
	for _, c := range cards {
		found := false
		for i, x := range remaining {
			if x == c {
				remaining = append(remaining[:i], remaining[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (g *GameState) applyPass(seat int) {
	r := g.Round
	r.Trick.Passes++
	r.Trick.NextSeat = r.NextActive(seat)

	// The trick closes once every player still holding cards, other than the
	// leader, has passed since the leader's play. A leader who retired on
	// their winning play collects once all remaining players pass.
	needed := r.ActiveCount()
	if len(r.Hands[r.Trick.LeaderSeat]) > 0 {
		needed--
	}
	if r.Trick.Passes >= needed {
		g.closeTrick()
	}
}

func (g *GameState) applyPlay(seat int, combo Combination, wish Rank) {
	r := g.Round

	// The lone Phoenix counts half a step above the single it is played on.
	if combo.IsLonePhoenix() && r.Trick.Active != nil {
		combo.Height = r.Trick.Active.Height + 1
	}

	r.Hands[seat] = RemoveCards(r.Hands[seat], combo.Cards)
	r.Trick.Pile = append(r.Trick.Pile, combo.Cards...)
	r.Trick.Active = &combo
	r.Trick.LeaderSeat = seat
	r.Trick.Passes = 0
	r.Phase = PhaseTrickOpen

	if wish != 0 {
		r.Trick.Wish = wish
	} else if r.Trick.Wish != 0 && ContainsRank(combo.Cards, r.Trick.Wish) {
		r.Trick.Wish = 0 // fulfilled
	}

	if len(r.Hands[seat]) == 0 {
		r.FinishOrder = append(r.FinishOrder, seat)
	}

	if r.DoubleWin() {
		g.finishRound()
		return
	}
	if len(r.FinishOrder) == 3 {
		// The third finisher's closing play wins the open trick through the
		// normal resolution, Dragon pile policy included.
		g.closeTrick()
		g.finishRound()
		return
	}

	if combo.Type == ComboDog {
		g.closeDogTrick(seat)
		return
	}
	r.Trick.NextSeat = r.NextActive(seat)
}

// closeDogTrick hands the lead to the player's partner without a pile worth
// anything; the Dog cannot be contested. A retired partner passes the lead
// on clockwise from their own seat.
func (g *GameState) closeDogTrick(seat int) {
	r := g.Round
	lead := PartnerOf(seat)
	if len(r.Hands[lead]) == 0 {
		lead = r.NextActive(lead)
	}
	r.Piles[lead] = append(r.Piles[lead], r.Trick.Pile...)
	r.Trick = TrickState{Wish: r.Trick.Wish, NextSeat: lead, LeaderSeat: lead}
	r.Phase = PhaseTrickClosed
}

func (g *GameState) closeTrick() {
	r := g.Round
	winner := r.Trick.LeaderSeat

	recipient := winner
	if r.Trick.Active != nil && r.Trick.Active.Type == ComboSingle && r.Trick.Active.Cards[0] == Dragon {
		policy := g.Dragon
		if policy == nil {
			policy = DefaultDragonPolicy
		}
		recipient = policy(r, winner)
	}
	r.Piles[recipient] = append(r.Piles[recipient], r.Trick.Pile...)

	lead := winner
	if len(r.Hands[lead]) == 0 {
		lead = r.NextActive(winner)
	}
	r.Trick = TrickState{Wish: r.Trick.Wish, NextSeat: lead, LeaderSeat: lead}
	r.Phase = PhaseTrickClosed
}

// finishRound settles the score. A doublewin overrides card counting with a
// flat 200/0 split; otherwise the last player surrenders their hand points
// to the opposing team and their piles to the first finisher. Tichu
// declaration bonuses apply in both cases.
func (g *GameState) finishRound() {
	r := g.Round
	r.Phase = PhaseRoundOver

	var points [2]int
	first := r.FinishOrder[0]

	if r.DoubleWin() {
		points[TeamOf(first)] += 200
	} else {
		last := 0
		for seat := 0; seat < 4; seat++ {
			if !r.Retired(seat) {
				last = seat
			}
		}
		r.FinishOrder = append(r.FinishOrder, last)

		// Hand points to the opposing team, trick piles to the winner.
		points[1-TeamOf(last)] += CountPoints(r.Hands[last])
		r.Piles[first] = append(r.Piles[first], r.Piles[last]...)
		r.Piles[last] = nil
		r.Hands[last] = nil

		for seat := 0; seat < 4; seat++ {
			points[TeamOf(seat)] += CountPoints(r.Piles[seat])
		}
	}

	for seat, bonus := range r.Tichu {
		if bonus == 0 {
			continue
		}
		if seat == first {
			points[TeamOf(seat)] += bonus
		} else {
			points[TeamOf(seat)] -= bonus
		}
	}

	r.Points = points
	g.Scores[0] += points[0]
	g.Scores[1] += points[1]
}
