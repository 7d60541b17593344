package brain

import (
	"tichu/internal/domain"
)

// CardStatus is what the agent knows about one of the 56 cards.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // could be in any opponent hand
	StatusMine                      // in the agent's own hand
	StatusPlayed                    // on the table or in a pile
	StatusKnown                     // placed with a specific seat (card trading)
)

// Observation is the agent's private view of a game state: the public
// skeleton with opponents' hands blanked, plus per-card knowledge.
type Observation struct {
	Seat      int
	Public    *domain.GameState
	HandSizes [4]int

	status    map[domain.Card]CardStatus
	knownSeat map[domain.Card]int
}

// Observe derives the observation for a seat from the authoritative state.
// Opponent hands are recorded only by size; their cards are never read.
func Observe(g *domain.GameState, seat int) *Observation {
	obs := &Observation{
		Seat:      seat,
		Public:    g.Clone(),
		status:    make(map[domain.Card]CardStatus, 56),
		knownSeat: make(map[domain.Card]int),
	}
	r := obs.Public.Round
	for s := 0; s < 4; s++ {
		obs.HandSizes[s] = len(r.Hands[s])
		if s != seat {
			r.Hands[s] = nil
		}
	}
	for _, c := range r.Hands[seat] {
		obs.status[c] = StatusMine
	}
	for s := 0; s < 4; s++ {
		for _, c := range r.Piles[s] {
			obs.status[c] = StatusPlayed
		}
	}
	for _, c := range r.Trick.Pile {
		obs.status[c] = StatusPlayed
	}
	return obs
}

// MarkKnown pins a card to an opponent's hand, e.g. from the trading phase.
func (o *Observation) MarkKnown(c domain.Card, seat int) {
	if o.status[c] == StatusUnknown {
		o.status[c] = StatusKnown
		o.knownSeat[c] = seat
	}
}

// Status returns what is known about a card.
func (o *Observation) Status(c domain.Card) CardStatus {
	return o.status[c]
}

// Unknown lists the cards that could sit in any opponent hand, in canonical
// deck order so sampling stays reproducible for a fixed seed.
func (o *Observation) Unknown() []domain.Card {
	var out []domain.Card
	for _, c := range domain.NewDeck() {
		if o.status[c] == StatusUnknown {
			out = append(out, c)
		}
	}
	return out
}

// Known lists (card, seat) placements fixed by trading knowledge.
func (o *Observation) Known() map[domain.Card]int {
	out := make(map[domain.Card]int, len(o.knownSeat))
	for c, s := range o.knownSeat {
		out[c] = s
	}
	return out
}
