package domain

// Phase is the lifecycle stage of the round state machine.
type Phase string

const (
	// PhaseAwaitingFirstPlay waits for the MahJong holder's opening play.
	PhaseAwaitingFirstPlay Phase = "awaiting_first_play"
	// PhaseTrickOpen has an active combination being cycled on.
	PhaseTrickOpen Phase = "trick_open"
	// PhaseTrickClosed is the moment after a trick resolves; the winner leads next.
	PhaseTrickClosed Phase = "trick_closed"
	// PhaseRoundOver is reached when three players have retired or a doublewin occurs.
	PhaseRoundOver Phase = "round_over"
)

// TrickState tracks the combination on the table and the pass cycle around it.
type TrickState struct {
	Active     *Combination // nil when the next play leads a fresh trick
	Pile       []Card       // cards accumulated since the trick opened
	Passes     int          // consecutive passes since the leader's play
	Wish       Rank         // outstanding MahJong wish, 0 when none
	NextSeat   int
	LeaderSeat int // seat of the last non-pass play
}

// RoundState is the per-round aggregate: hands, piles, retirement order and
// the active trick. Tichu declaration flags are consumed as externally
// supplied values and only affect scoring.
type RoundState struct {
	Phase       Phase
	Hands       [4][]Card
	Piles       [4][]Card
	FinishOrder []int
	Trick       TrickState
	Tichu       [4]int // 0, 100 or 200 per seat
	Points      [2]int // team card points, filled at PhaseRoundOver
}

// Action is either a combination played from the acting player's hand or a
// pass. Wish may only be set alongside a combination containing the MahJong.
type Action struct {
	Seat  int
	Pass  bool
	Combo Combination
	Wish  Rank
}

// Key returns a deterministic identity string used for ordering and for
// aggregating the same action across determinized worlds.
func (a Action) Key() string {
	if a.Pass {
		return "pass"
	}
	key := ""
	for _, c := range a.Combo.Cards {
		key += c.String() + " "
	}
	return key
}

// DragonPolicy chooses which opposing player receives a Dragon-won trick
// pile. It is a tactical decision, supplied by the caller.
type DragonPolicy func(r *RoundState, winner int) int

// GameState is the match aggregate: the current round plus cumulative team
// scores. Team 0 is seats 0 and 2, team 1 is seats 1 and 3.
type GameState struct {
	Round       *RoundState
	Scores      [2]int
	TargetScore int
	Dragon      DragonPolicy
}

// TeamOf returns the team index of a seat.
func TeamOf(seat int) int { return seat % 2 }

// PartnerOf returns the seat across the table.
func PartnerOf(seat int) int { return (seat + 2) % 4 }

// DefaultDragonPolicy hands the pile to the opposing player holding the
// fewest cards, breaking ties toward the next opponent clockwise.
func DefaultDragonPolicy(r *RoundState, winner int) int {
	first := (winner + 1) % 4
	second := (winner + 3) % 4
	if len(r.Hands[second]) < len(r.Hands[first]) {
		return second
	}
	return first
}

// NewRound builds the post-deal round state. The MahJong holder leads.
func NewRound(hands [4][]Card) *RoundState {
	r := &RoundState{Phase: PhaseAwaitingFirstPlay}
	leader := 0
	for seat, hand := range hands {
		r.Hands[seat] = append([]Card{}, hand...)
		SortCards(r.Hands[seat])
		if ContainsCard(hand, MahJong) {
			leader = seat
		}
	}
	r.Trick.NextSeat = leader
	r.Trick.LeaderSeat = leader
	return r
}

// NewGame builds a fresh match aggregate playing to the target score.
func NewGame(target int) *GameState {
	return &GameState{TargetScore: target, Dragon: DefaultDragonPolicy}
}

// Retired reports whether a seat has already emptied its hand.
func (r *RoundState) Retired(seat int) bool {
	for _, s := range r.FinishOrder {
		if s == seat {
			return true
		}
	}
	return false
}

// ActiveCount returns the number of players still holding cards.
func (r *RoundState) ActiveCount() int {
	n := 0
	for seat := 0; seat < 4; seat++ {
		if len(r.Hands[seat]) > 0 {
			n++
		}
	}
	return n
}

// NextActive returns the first seat clockwise after from that still holds
// cards. Turn order is index arithmetic over the fixed seat array; retired
// seats are skipped, never removed.
func (r *RoundState) NextActive(from int) int {
	for i := 1; i <= 4; i++ {
		seat := (from + i) % 4
		if len(r.Hands[seat]) > 0 {
			return seat
		}
	}
	return from
}

// DoubleWin reports whether the first two finishers are partners.
func (r *RoundState) DoubleWin() bool {
	return len(r.FinishOrder) >= 2 && r.FinishOrder[1] == PartnerOf(r.FinishOrder[0])
}

// Clone returns an independent deep copy for search simulation. No state is
// shared with the receiver.
func (r *RoundState) Clone() *RoundState {
	out := &RoundState{
		Phase:       r.Phase,
		FinishOrder: append([]int{}, r.FinishOrder...),
		Trick:       r.Trick,
		Tichu:       r.Tichu,
		Points:      r.Points,
	}
	for seat := 0; seat < 4; seat++ {
		out.Hands[seat] = append([]Card{}, r.Hands[seat]...)
		out.Piles[seat] = append([]Card{}, r.Piles[seat]...)
	}
	out.Trick.Pile = append([]Card{}, r.Trick.Pile...)
	if r.Trick.Active != nil {
		active := *r.Trick.Active
		active.Cards = append([]Card{}, r.Trick.Active.Cards...)
		out.Trick.Active = &active
	}
	return out
}

// Clone deep-copies the whole game aggregate.
func (g *GameState) Clone() *GameState {
	out := &GameState{
		Scores:      g.Scores,
		TargetScore: g.TargetScore,
		Dragon:      g.Dragon,
	}
	if g.Round != nil {
		out.Round = g.Round.Clone()
	}
	return out
}

// StartRound installs a freshly dealt round.
func (g *GameState) StartRound(hands [4][]Card) {
	g.Round = NewRound(hands)
}

// Over reports whether a team has reached the target score.
func (g *GameState) Over() bool {
	if g.TargetScore <= 0 {
		return false
	}
	return g.Scores[0] >= g.TargetScore || g.Scores[1] >= g.TargetScore
}
