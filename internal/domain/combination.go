package domain

// ComboType tags a classified card combination.
type ComboType int

const (
	ComboInvalid ComboType = iota
	ComboDog
	ComboSingle
	ComboPair
	ComboTriple
	ComboFullHouse
	ComboStraight
	ComboPairStep
	ComboSquareBomb
	ComboStraightBomb
)

var comboNames = map[ComboType]string{
	ComboInvalid:      "Invalid",
	ComboDog:          "Dog",
	ComboSingle:       "Single",
	ComboPair:         "Pair",
	ComboTriple:       "Triple",
	ComboFullHouse:    "FullHouse",
	ComboStraight:     "Straight",
	ComboPairStep:     "PairStep",
	ComboSquareBomb:   "SquareBomb",
	ComboStraightBomb: "StraightBomb",
}

func (t ComboType) String() string { return comboNames[t] }

// Combination is a classified, comparable set of cards.
//
// Height is kept on a half-step scale (rank*2) so the lone Phoenix, which
// counts half a rank above the single it is played on, stays representable
// as an integer. PhoenixAs records the rank the Phoenix substitutes for;
// it is zero when the Phoenix is absent or played alone.
type Combination struct {
	Type      ComboType
	Cards     []Card // sorted ascending
	Height    int
	PhoenixAs Rank
}

// IsBomb reports whether the combination beats out of type.
func (c Combination) IsBomb() bool {
	return c.Type == ComboSquareBomb || c.Type == ComboStraightBomb
}

// IsLonePhoenix reports whether the combination is the Phoenix played alone.
func (c Combination) IsLonePhoenix() bool {
	return c.Type == ComboSingle && len(c.Cards) == 1 && c.Cards[0] == Phoenix
}

func heightOf(r Rank) int { return int(r) * 2 }

// Classify derives the unique Combination for a card set, resolving Phoenix
// substitution toward the best completion of the matched shape. It returns
// ErrInvalidCombination when the cards match no legal shape.
func Classify(cards []Card) (Combination, error) {
	if len(cards) == 0 {
		return Combination{}, ErrInvalidCombination
	}

	sorted := append([]Card{}, cards...)
	SortCards(sorted)

	if len(sorted) == 1 {
		return classifySingle(sorted), nil
	}

	// Dog and Dragon play alone, always.
	if ContainsCard(sorted, Dog) || ContainsCard(sorted, Dragon) {
		return Combination{}, ErrInvalidCombination
	}

	hasPhoenix := ContainsCard(sorted, Phoenix)
	plain := sorted
	if hasPhoenix {
		plain = sorted[:len(sorted)-1] // Phoenix sorts last
	}

	// MahJong joins straights only.
	if ContainsCard(plain, MahJong) && len(sorted) < 5 {
		return Combination{}, ErrInvalidCombination
	}

	n := len(sorted)

	if n <= 4 && allSameRank(plain) && plain[0].Rank >= 2 {
		switch {
		case n == 2:
			return Combination{Type: ComboPair, Cards: sorted, Height: heightOf(plain[0].Rank), PhoenixAs: phoenixAs(hasPhoenix, plain[0].Rank)}, nil
		case n == 3:
			return Combination{Type: ComboTriple, Cards: sorted, Height: heightOf(plain[0].Rank), PhoenixAs: phoenixAs(hasPhoenix, plain[0].Rank)}, nil
		case n == 4 && !hasPhoenix:
			return Combination{Type: ComboSquareBomb, Cards: sorted, Height: heightOf(plain[0].Rank)}, nil
		}
		// Phoenix cannot complete a square bomb.
		return Combination{}, ErrInvalidCombination
	}

	if n == 5 {
		if combo, ok := classifyFullHouse(sorted, plain, hasPhoenix); ok {
			return combo, nil
		}
	}
	if n >= 5 {
		if combo, ok := classifyStraight(sorted, plain, hasPhoenix); ok {
			return combo, nil
		}
	}
	if n >= 4 && n%2 == 0 {
		if combo, ok := classifyPairStep(sorted, plain, hasPhoenix); ok {
			return combo, nil
		}
	}

	return Combination{}, ErrInvalidCombination
}

// MustClassify is Classify for card sets already known to be well formed,
// such as generator output. A failure is a caller bug.
func MustClassify(cards []Card) Combination {
	combo, err := Classify(cards)
	if err != nil {
		panic("domain: malformed combination passed to MustClassify: " + err.Error())
	}
	return combo
}

func classifySingle(cards []Card) Combination {
	c := cards[0]
	switch c {
	case Dog:
		return Combination{Type: ComboDog, Cards: cards}
	case Phoenix:
		// Half a step above MahJong when led; the state machine lifts the
		// height when the Phoenix is played onto another single.
		return Combination{Type: ComboSingle, Cards: cards, Height: heightOf(RankMahJong) + 1}
	}
	return Combination{Type: ComboSingle, Cards: cards, Height: heightOf(c.Rank)}
}

func phoenixAs(hasPhoenix bool, r Rank) Rank {
	if hasPhoenix {
		return r
	}
	return 0
}

func allSameRank(cards []Card) bool {
	if len(cards) == 0 {
		return false
	}
	r := cards[0].Rank
	for _, c := range cards {
		if c.Rank != r {
			return false
		}
	}
	return true
}

func classifyFullHouse(sorted, plain []Card, hasPhoenix bool) (Combination, bool) {
	counts := map[Rank]int{}
	for _, c := range plain {
		if c.IsSpecial() {
			return Combination{}, false
		}
		counts[c.Rank]++
	}

	if !hasPhoenix {
		if len(counts) != 2 {
			return Combination{}, false
		}
		var tripleRank Rank
		for r, n := range counts {
			switch n {
			case 3:
				tripleRank = r
			case 2:
			default:
				return Combination{}, false
			}
		}
		if tripleRank == 0 {
			return Combination{}, false
		}
		return Combination{Type: ComboFullHouse, Cards: sorted, Height: heightOf(tripleRank)}, true
	}

	// Four plain cards plus the Phoenix. Either a triple and a lone card
	// (Phoenix pairs the lone card) or two pairs (Phoenix completes the
	// higher pair to a triple, the best legal completion).
	if len(counts) != 2 {
		return Combination{}, false
	}
	ranks := make([]Rank, 0, 2)
	for r := range counts {
		ranks = append(ranks, r)
	}
	if ranks[0] > ranks[1] {
		ranks[0], ranks[1] = ranks[1], ranks[0]
	}
	lo, hi := ranks[0], ranks[1]
	switch {
	case counts[lo] == 3 && counts[hi] == 1:
		return Combination{Type: ComboFullHouse, Cards: sorted, Height: heightOf(lo), PhoenixAs: hi}, true
	case counts[hi] == 3 && counts[lo] == 1:
		return Combination{Type: ComboFullHouse, Cards: sorted, Height: heightOf(hi), PhoenixAs: lo}, true
	case counts[lo] == 2 && counts[hi] == 2:
		return Combination{Type: ComboFullHouse, Cards: sorted, Height: heightOf(hi), PhoenixAs: hi}, true
	}
	return Combination{}, false
}

func classifyStraight(sorted, plain []Card, hasPhoenix bool) (Combination, bool) {
	// Distinct consecutive ranks; MahJong anchors rank 1. The Phoenix fills
	// one interior gap, or extends the run at the top (below the Ace cap),
	// or at the bottom.
	ranks := make([]Rank, 0, len(plain))
	seen := map[Rank]bool{}
	for _, c := range plain {
		if c == Dragon || c == Dog {
			return Combination{}, false
		}
		if seen[c.Rank] {
			return Combination{}, false
		}
		seen[c.Rank] = true
		ranks = append(ranks, c.Rank)
	}

	gaps := 0
	gapRank := Rank(0)
	for i := 1; i < len(ranks); i++ {
		switch ranks[i] - ranks[i-1] {
		case 1:
		case 2:
			gaps++
			gapRank = ranks[i] - 1
		default:
			return Combination{}, false
		}
	}

	top := ranks[len(ranks)-1]
	phoenixRank := Rank(0)
	switch {
	case !hasPhoenix:
		if gaps != 0 {
			return Combination{}, false
		}
	case gaps == 1:
		phoenixRank = gapRank
	case gaps == 0:
		// Prefer extending upward; rank 1 belongs to MahJong alone.
		if top < RankAce {
			phoenixRank = top + 1
			top = phoenixRank
		} else if ranks[0] > 2 {
			phoenixRank = ranks[0] - 1
		} else {
			return Combination{}, false
		}
	default:
		return Combination{}, false
	}

	combo := Combination{Type: ComboStraight, Cards: sorted, Height: heightOf(top), PhoenixAs: phoenixRank}
	if !hasPhoenix && sameStraightSuit(plain) {
		combo.Type = ComboStraightBomb
	}
	return combo, true
}

func sameStraightSuit(cards []Card) bool {
	suit := cards[0].Suit
	if suit == SuitNone { // MahJong breaks a bomb
		return false
	}
	for _, c := range cards {
		if c.Suit != suit {
			return false
		}
	}
	return true
}

func classifyPairStep(sorted, plain []Card, hasPhoenix bool) (Combination, bool) {
	counts := map[Rank]int{}
	minRank, maxRank := RankDragon, Rank(0)
	for _, c := range plain {
		if c.IsSpecial() {
			return Combination{}, false
		}
		counts[c.Rank]++
		if c.Rank < minRank {
			minRank = c.Rank
		}
		if c.Rank > maxRank {
			maxRank = c.Rank
		}
	}

	steps := len(sorted) / 2
	if int(maxRank-minRank)+1 != steps || len(counts) != steps {
		return Combination{}, false
	}

	phoenixRank := Rank(0)
	for r := minRank; r <= maxRank; r++ {
		switch counts[r] {
		case 2:
		case 1:
			if !hasPhoenix || phoenixRank != 0 {
				return Combination{}, false
			}
			phoenixRank = r
		default:
			return Combination{}, false
		}
	}
	if hasPhoenix && phoenixRank == 0 {
		return Combination{}, false
	}

	return Combination{Type: ComboPairStep, Cards: sorted, Height: heightOf(maxRank), PhoenixAs: phoenixRank}, true
}

// Ordering is the result of comparing two combinations.
type Ordering int

const (
	Incomparable Ordering = iota
	Lower
	Higher
)

func (o Ordering) String() string {
	switch o {
	case Lower:
		return "Lower"
	case Higher:
		return "Higher"
	}
	return "Incomparable"
}

// Compare reports whether a beats b on the table. Bombs beat every non-bomb;
// among bombs the straight kind wins, then straight-bomb length, then height.
// Non-bombs compare only within the same type and card count.
func Compare(a, b Combination) Ordering {
	if a.Type == ComboDog || b.Type == ComboDog || a.Type == ComboInvalid || b.Type == ComboInvalid {
		return Incomparable
	}

	if a.IsBomb() || b.IsBomb() {
		return compareBombs(a, b)
	}

	if a.Type != b.Type || len(a.Cards) != len(b.Cards) {
		return Incomparable
	}

	// The lone Phoenix beats every single except the Dragon; a plain single
	// beats a lone Phoenix when it tops the half-step height the Phoenix
	// acquired in play.
	if a.IsLonePhoenix() {
		if b.Cards[0] == Dragon {
			return Lower
		}
		return Higher
	}

	switch {
	case a.Height > b.Height:
		return Higher
	case a.Height < b.Height:
		return Lower
	}
	return Incomparable
}

func compareBombs(a, b Combination) Ordering {
	switch {
	case a.IsBomb() && !b.IsBomb():
		return Higher
	case !a.IsBomb() && b.IsBomb():
		return Lower
	case a.Type == ComboStraightBomb && b.Type == ComboSquareBomb:
		return Higher
	case a.Type == ComboSquareBomb && b.Type == ComboStraightBomb:
		return Lower
	}
	// Same bomb kind. Longer straight bombs outrank shorter ones.
	if a.Type == ComboStraightBomb && len(a.Cards) != len(b.Cards) {
		if len(a.Cards) > len(b.Cards) {
			return Higher
		}
		return Lower
	}
	switch {
	case a.Height > b.Height:
		return Higher
	case a.Height < b.Height:
		return Lower
	}
	return Incomparable
}
