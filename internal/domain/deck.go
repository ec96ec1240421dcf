package domain

import "math/rand"

// NewDeck returns the full 106-card population in construction order: two
// 52-card decks followed by the two jokers. CardIDs are assigned 0..105 here
// and never change afterwards.
func NewDeck() []Card {
	ranks := []Rank{
		RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
		RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
	}
	deck := make([]Card, 0, DeckSize)
	id := CardID(0)
	for copies := 0; copies < 2; copies++ {
		for _, s := range suitCycle {
			for _, r := range ranks {
				deck = append(deck, Card{ID: id, Suit: s, Rank: r})
				id++
			}
		}
	}
	for j := 0; j < 2; j++ {
		deck = append(deck, Card{ID: id, Suit: SuitJoker, Rank: RankJoker})
		id++
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
