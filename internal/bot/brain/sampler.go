package brain

import (
	"fmt"
	"math/rand"

	"tichu/internal/domain"
)

// Weighter is the optional inference collaborator: it returns, per unknown
// card, a relative likelihood of sitting in each seat's hand. Zero-valued
// rows fall back to uniform.
type Weighter interface {
	Weights(obs *Observation) map[domain.Card][4]float64
}

// Sampler converts an observation into fully observed worlds by dealing the
// unknown cards across the opponents' blanked hand slots. With no Weighter
// the deal is uniform.
type Sampler struct {
	Weighter Weighter
}

// Sample returns one world consistent with the observation. A mismatch
// between unknown cards and open slots means the caller's bookkeeping broke
// an invariant, and panics.
func (s *Sampler) Sample(obs *Observation, rng *rand.Rand) *domain.GameState {
	world := obs.Public.Clone()
	r := world.Round

	slots := [4]int{}
	total := 0
	for seat := 0; seat < 4; seat++ {
		if seat == obs.Seat {
			continue
		}
		slots[seat] = obs.HandSizes[seat]
		total += slots[seat]
	}

	for c, seat := range obs.Known() {
		if slots[seat] == 0 {
			panic(fmt.Sprintf("brain: known card %s assigned to full hand %d", c, seat))
		}
		r.Hands[seat] = append(r.Hands[seat], c)
		slots[seat]--
		total--
	}

	unknown := obs.Unknown()
	if len(unknown) != total {
		panic(fmt.Sprintf("brain: determinization mismatch: %d unknown cards for %d slots", len(unknown), total))
	}

	var weights map[domain.Card][4]float64
	if s.Weighter != nil {
		weights = s.Weighter.Weights(obs)
	}

	shuffled := append([]domain.Card{}, unknown...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for _, c := range shuffled {
		seat := drawSeat(c, slots, weights, rng)
		r.Hands[seat] = append(r.Hands[seat], c)
		slots[seat]--
	}

	for seat := 0; seat < 4; seat++ {
		domain.SortCards(r.Hands[seat])
	}
	return world
}

// Worlds draws n independent samples for use as separate search roots.
func (s *Sampler) Worlds(obs *Observation, n int, rng *rand.Rand) []*domain.GameState {
	worlds := make([]*domain.GameState, n)
	for i := range worlds {
		worlds[i] = s.Sample(obs, rng)
	}
	return worlds
}

// drawSeat picks a destination seat with remaining capacity, proportionally
// to the supplied weights when present, uniformly over open slots otherwise.
func drawSeat(c domain.Card, slots [4]int, weights map[domain.Card][4]float64, rng *rand.Rand) int {
	if weights != nil {
		if row, ok := weights[c]; ok {
			sum := 0.0
			for seat := 0; seat < 4; seat++ {
				if slots[seat] > 0 && row[seat] > 0 {
					sum += row[seat]
				}
			}
			if sum > 0 {
				pick := rng.Float64() * sum
				for seat := 0; seat < 4; seat++ {
					if slots[seat] > 0 && row[seat] > 0 {
						pick -= row[seat]
						if pick <= 0 {
							return seat
						}
					}
				}
			}
		}
	}

	// Uniform over open slots, weighted by remaining capacity so the deal
	// matches a straight shuffle-and-split.
	open := 0
	for seat := 0; seat < 4; seat++ {
		open += slots[seat]
	}
	pick := rng.Intn(open)
	for seat := 0; seat < 4; seat++ {
		if pick < slots[seat] {
			return seat
		}
		pick -= slots[seat]
	}
	panic("brain: no open slot")
}
