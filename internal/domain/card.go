package domain

import (
	"fmt"
	"sort"
)

// Suit identifies one of the four Tichu suits. Special cards carry SuitNone.
type Suit int8

const (
	SuitNone Suit = iota
	SuitJade
	SuitSword
	SuitPagoda
	SuitStar
)

var suitNames = map[Suit]string{
	SuitNone:   "*",
	SuitJade:   "J",
	SuitSword:  "S",
	SuitPagoda: "P",
	SuitStar:   "T",
}

// Rank is the ordinal value of a card. Normal cards run 2..14 (Ace).
// Dog and Phoenix ordinals are placeholders; neither participates in
// rank arithmetic directly.
type Rank int8

const (
	RankDog     Rank = 0
	RankMahJong Rank = 1
	RankJack    Rank = 11
	RankQueen   Rank = 12
	RankKing    Rank = 13
	RankAce     Rank = 14
	RankDragon  Rank = 15
	RankPhoenix Rank = 16
)

// Card is a single Tichu card, an immutable value.
type Card struct {
	Suit Suit
	Rank Rank
}

// The four special cards.
var (
	Dog     = Card{SuitNone, RankDog}
	MahJong = Card{SuitNone, RankMahJong}
	Dragon  = Card{SuitNone, RankDragon}
	Phoenix = Card{SuitNone, RankPhoenix}
)

// IsSpecial reports whether c is one of the four suitless cards.
func (c Card) IsSpecial() bool {
	return c.Suit == SuitNone
}

// Points returns the card-point value counted at round end.
func (c Card) Points() int {
	switch {
	case c == Dragon:
		return 25
	case c == Phoenix:
		return -25
	case c.Rank == 5:
		return 5
	case c.Rank == 10 || c.Rank == RankKing:
		return 10
	}
	return 0
}

func (c Card) String() string {
	switch c {
	case Dog:
		return "Dog"
	case MahJong:
		return "MahJong"
	case Dragon:
		return "Dragon"
	case Phoenix:
		return "Phoenix"
	}
	var r string
	switch c.Rank {
	case RankJack:
		r = "J"
	case RankQueen:
		r = "Q"
	case RankKing:
		r = "K"
	case RankAce:
		r = "A"
	default:
		r = fmt.Sprintf("%d", c.Rank)
	}
	return r + suitNames[c.Suit]
}

// NewDeck returns the full 56-card Tichu deck in canonical order.
func NewDeck() []Card {
	deck := make([]Card, 0, 56)
	for s := SuitJade; s <= SuitStar; s++ {
		for r := Rank(2); r <= RankAce; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	deck = append(deck, Dog, MahJong, Dragon, Phoenix)
	return deck
}

// SortCards orders cards ascending by rank, then suit. Phoenix sorts last
// among specials so straight scanning can skip it easily.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Rank != cards[j].Rank {
			return cards[i].Rank < cards[j].Rank
		}
		return cards[i].Suit < cards[j].Suit
	})
}

// RemoveCards returns hand minus the played cards. Each played card removes
// at most one matching copy.
func RemoveCards(hand []Card, played []Card) []Card {
	out := append([]Card{}, hand...)
	for _, pc := range played {
		for i := 0; i < len(out); i++ {
			if out[i] == pc {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}
	return out
}

// ContainsCard reports whether the card appears in the set.
func ContainsCard(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}

// ContainsRank reports whether any card of the given rank appears in the set.
func ContainsRank(cards []Card, r Rank) bool {
	for _, x := range cards {
		if x.Rank == r {
			return true
		}
	}
	return false
}

// CountPoints sums the card points of a pile.
func CountPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}
