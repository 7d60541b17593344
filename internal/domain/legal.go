package domain

import "sort"

// LegalActions returns the legal action set for a seat at the current state,
// one representative combination per rank and window; same-rank suit variants
// are height-equal, so enumerating them would only widen the search tree.
// Apply validates plays by rule, so variants outside this set are still
// accepted. In-turn players receive lead or follow plays plus pass;
// out-of-turn players receive only bombs that beat the active combination.
// The MahJong wish obligation filters the in-turn set: when any legal play
// contains the wished rank, every action omitting it (including pass) is
// removed.
//
// Enumeration is deterministic: actions are emitted grouped by type, lowest
// height first, bombs last, pass at the very end. Callers rely on this order
// for move ordering and tie-breaking.
func LegalActions(g *GameState, seat int) []Action {
	r := g.Round
	if r == nil || r.Phase == PhaseRoundOver || len(r.Hands[seat]) == 0 {
		return nil
	}
	hand := r.Hands[seat]
	active := r.Trick.Active

	if seat != r.Trick.NextSeat {
		// Bomb interjection only, and only over an open trick.
		if active == nil {
			return nil
		}
		return beatingBombActions(hand, seat, *active)
	}

	var actions []Action
	if active == nil {
		actions = leadActions(hand, seat, r.Phase == PhaseAwaitingFirstPlay)
	} else {
		actions = followActions(hand, seat, *active)
		actions = append(actions, Action{Seat: seat, Pass: true})
	}

	if r.Trick.Wish != 0 {
		if wished := fulfillingWish(actions, r.Trick.Wish); len(wished) > 0 {
			return wished
		}
	}
	return actions
}

func fulfillingWish(actions []Action, wish Rank) []Action {
	var out []Action
	for _, a := range actions {
		if !a.Pass && ContainsRank(a.Combo.Cards, wish) {
			out = append(out, a)
		}
	}
	return out
}

// leadActions enumerates every playable combination from the hand. The Dog
// is excluded from the round's genuine first play.
func leadActions(hand []Card, seat int, firstPlay bool) []Action {
	var combos []Combination
	combos = append(combos, findSingles(hand)...)
	combos = append(combos, findPairs(hand)...)
	combos = append(combos, findTriples(hand)...)
	combos = append(combos, findFullHouses(hand)...)
	combos = append(combos, findStraights(hand)...)
	combos = append(combos, findPairSteps(hand)...)
	combos = append(combos, findBombs(hand)...)

	var actions []Action
	for _, c := range combos {
		if firstPlay && c.Type == ComboDog {
			continue
		}
		actions = append(actions, Action{Seat: seat, Combo: c})
	}
	return actions
}

// followActions enumerates same-type, same-length, higher combinations plus
// every beating bomb.
func followActions(hand []Card, seat int, active Combination) []Action {
	var candidates []Combination
	switch active.Type {
	case ComboSingle:
		candidates = findSingles(hand)
	case ComboPair:
		candidates = findPairs(hand)
	case ComboTriple:
		candidates = findTriples(hand)
	case ComboFullHouse:
		candidates = findFullHouses(hand)
	case ComboStraight:
		candidates = findStraights(hand)
	case ComboPairStep:
		candidates = findPairSteps(hand)
	}

	var actions []Action
	for _, c := range candidates {
		if c.Type == ComboDog {
			continue
		}
		if len(c.Cards) == len(active.Cards) && Compare(c, active) == Higher {
			actions = append(actions, Action{Seat: seat, Combo: c})
		}
	}
	return append(actions, beatingBombActions(hand, seat, active)...)
}

func beatingBombActions(hand []Card, seat int, active Combination) []Action {
	var actions []Action
	for _, b := range findBombs(hand) {
		if Compare(b, active) == Higher {
			actions = append(actions, Action{Seat: seat, Combo: b})
		}
	}
	return actions
}

// rankGroups buckets the normal (suited) cards of a hand by rank, sorted.
func rankGroups(hand []Card) (map[Rank][]Card, []Rank) {
	groups := map[Rank][]Card{}
	var ranks []Rank
	for _, c := range hand {
		if c.IsSpecial() {
			continue
		}
		if _, ok := groups[c.Rank]; !ok {
			ranks = append(ranks, c.Rank)
		}
		groups[c.Rank] = append(groups[c.Rank], c)
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })
	return groups, ranks
}

func findSingles(hand []Card) []Combination {
	var combos []Combination
	for _, c := range hand {
		combos = append(combos, MustClassify([]Card{c}))
	}
	sort.SliceStable(combos, func(i, j int) bool { return combos[i].Height < combos[j].Height })
	return combos
}

// findPairs emits one representative pair per rank; same-rank pairs of
// different suits are interchangeable in height, so enumerating them all
// only widens the tree.
func findPairs(hand []Card) []Combination {
	groups, ranks := rankGroups(hand)
	phoenix := ContainsCard(hand, Phoenix)
	var combos []Combination
	for _, r := range ranks {
		cards := groups[r]
		if len(cards) >= 2 {
			combos = append(combos, MustClassify(cards[:2]))
		} else if phoenix {
			combos = append(combos, MustClassify([]Card{cards[0], Phoenix}))
		}
	}
	return combos
}

func findTriples(hand []Card) []Combination {
	groups, ranks := rankGroups(hand)
	phoenix := ContainsCard(hand, Phoenix)
	var combos []Combination
	for _, r := range ranks {
		cards := groups[r]
		if len(cards) >= 3 {
			combos = append(combos, MustClassify(cards[:3]))
		} else if len(cards) == 2 && phoenix {
			combos = append(combos, MustClassify([]Card{cards[0], cards[1], Phoenix}))
		}
	}
	return combos
}

func findFullHouses(hand []Card) []Combination {
	groups, ranks := rankGroups(hand)
	phoenix := ContainsCard(hand, Phoenix)
	var combos []Combination

	for _, tr := range ranks {
		if len(groups[tr]) < 3 {
			continue
		}
		triple := groups[tr][:3]
		for _, pr := range ranks {
			if pr == tr {
				continue
			}
			switch {
			case len(groups[pr]) >= 2:
				combos = append(combos, MustClassify(append(append([]Card{}, triple...), groups[pr][:2]...)))
			case phoenix:
				combos = append(combos, MustClassify(append(append([]Card{}, triple...), groups[pr][0], Phoenix)))
			}
		}
	}

	// Phoenix completing the triple out of two pairs.
	if phoenix {
		for _, tr := range ranks {
			if len(groups[tr]) < 2 || len(groups[tr]) >= 3 {
				continue
			}
			for _, pr := range ranks {
				if pr == tr || len(groups[pr]) < 2 {
					continue
				}
				cards := append(append([]Card{}, groups[tr][:2]...), groups[pr][:2]...)
				combos = append(combos, MustClassify(append(cards, Phoenix)))
			}
		}
	}

	sort.SliceStable(combos, func(i, j int) bool { return combos[i].Height < combos[j].Height })
	return combos
}

// findStraights slides every window of five or more consecutive ranks over
// the hand, using one representative card per rank, with MahJong anchoring
// rank 1 and the Phoenix filling at most one absent rank (never rank 1).
func findStraights(hand []Card) []Combination {
	groups, _ := rankGroups(hand)
	phoenix := ContainsCard(hand, Phoenix)
	hasRank := func(r Rank) bool {
		if r == RankMahJong {
			return ContainsCard(hand, MahJong)
		}
		_, ok := groups[r]
		return ok
	}
	cardAt := func(r Rank) Card {
		if r == RankMahJong {
			return MahJong
		}
		return groups[r][0]
	}

	var combos []Combination
	for lo := RankMahJong; lo+4 <= RankAce; lo++ {
		for hi := lo + 4; hi <= RankAce; hi++ {
			missing := Rank(0)
			count := 0
			for r := lo; r <= hi; r++ {
				if !hasRank(r) {
					missing = r
					count++
				}
			}
			switch {
			case count == 0:
				cards := make([]Card, 0, hi-lo+1)
				for r := lo; r <= hi; r++ {
					cards = append(cards, cardAt(r))
				}
				combos = append(combos, MustClassify(cards))
			case count == 1 && phoenix && missing != RankMahJong:
				cards := make([]Card, 0, hi-lo+1)
				for r := lo; r <= hi; r++ {
					if r == missing {
						continue
					}
					cards = append(cards, cardAt(r))
				}
				combos = append(combos, MustClassify(append(cards, Phoenix)))
			}
		}
	}
	return combos
}

func findPairSteps(hand []Card) []Combination {
	groups, ranks := rankGroups(hand)
	phoenix := ContainsCard(hand, Phoenix)
	if len(ranks) < 2 {
		return nil
	}

	var combos []Combination
	for lo := Rank(2); lo+1 <= RankAce; lo++ {
		for hi := lo + 1; hi <= RankAce; hi++ {
			short := Rank(0) // rank contributing only one card
			ok := true
			for r := lo; r <= hi && ok; r++ {
				switch len(groups[r]) {
				case 0:
					ok = false
				case 1:
					if !phoenix || short != 0 {
						ok = false
					} else {
						short = r
					}
				}
			}
			if !ok {
				continue
			}
			cards := make([]Card, 0, int(hi-lo+1)*2)
			for r := lo; r <= hi; r++ {
				if r == short {
					cards = append(cards, groups[r][0], Phoenix)
					continue
				}
				cards = append(cards, groups[r][:2]...)
			}
			combos = append(combos, MustClassify(cards))
		}
	}
	return combos
}

// findBombs enumerates square bombs and every same-suit run of five or more.
func findBombs(hand []Card) []Combination {
	groups, ranks := rankGroups(hand)
	var combos []Combination
	for _, r := range ranks {
		if len(groups[r]) == 4 {
			combos = append(combos, MustClassify(groups[r]))
		}
	}

	for suit := SuitJade; suit <= SuitStar; suit++ {
		bySuit := map[Rank]Card{}
		for _, c := range hand {
			if c.Suit == suit {
				bySuit[c.Rank] = c
			}
		}
		for lo := Rank(2); lo+4 <= RankAce; lo++ {
			for hi := lo + 4; hi <= RankAce; hi++ {
				run := make([]Card, 0, hi-lo+1)
				for r := lo; r <= hi; r++ {
					c, ok := bySuit[r]
					if !ok {
						run = nil
						break
					}
					run = append(run, c)
				}
				if run != nil {
					combos = append(combos, MustClassify(run))
				}
			}
		}
	}
	return combos
}
