package domain

import "math/rand"

// ShuffleDeck returns a shuffled copy of the deck using the provided source.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal splits a shuffled 56-card deck into four hands of fourteen.
func Deal(rng *rand.Rand) [4][]Card {
	deck := ShuffleDeck(NewDeck(), rng)
	var hands [4][]Card
	for seat := 0; seat < 4; seat++ {
		hand := append([]Card{}, deck[seat*14:(seat+1)*14]...)
		SortCards(hand)
		hands[seat] = hand
	}
	return hands
}
