package domain

import "fmt"

// Suit identifies one of the four French suits, or the joker pseudo-suit.
type Suit string

const (
	SuitClubs    Suit = "CLUBS"
	SuitDiamonds Suit = "DIAMONDS"
	SuitHearts   Suit = "HEARTS"
	SuitSpades   Suit = "SPADES"
	SuitJoker    Suit = "JOKER"
)

// Rank identifies a card rank. Jokers carry the joker pseudo-rank.
type Rank string

const (
	RankTwo   Rank = "TWO"
	RankThree Rank = "THREE"
	RankFour  Rank = "FOUR"
	RankFive  Rank = "FIVE"
	RankSix   Rank = "SIX"
	RankSeven Rank = "SEVEN"
	RankEight Rank = "EIGHT"
	RankNine  Rank = "NINE"
	RankTen   Rank = "TEN"
	RankJack  Rank = "JACK"
	RankQueen Rank = "QUEEN"
	RankKing  Rank = "KING"
	RankAce   Rank = "ACE"
	RankJoker Rank = "JOKER"
)

// AceMode selects how an ace is indexed inside a run: LOW enables A-2-3,
// HIGH enables Q-K-A.
type AceMode string

const (
	AceLow  AceMode = "LOW"
	AceHigh AceMode = "HIGH"
)

// CardID is the stable identity of one physical card in the 106-card
// population. Two decks mean four copies of every suit/rank pair, so cards
// are always tracked by ID, never by face. IDs are assigned once at deck
// construction and ascending-ID is the tie-break wherever the rules need a
// deterministic order.
type CardID int

// NoCard marks the absence of a card reference.
const NoCard CardID = -1

// Card is an immutable card value.
type Card struct {
	ID   CardID
	Suit Suit
	Rank Rank
}

// IsJoker reports whether the card is one of the two jokers.
func (c Card) IsJoker() bool {
	return c.Rank == RankJoker
}

var rankValues = map[Rank]int{
	RankTwo:   2,
	RankThree: 3,
	RankFour:  4,
	RankFive:  5,
	RankSix:   6,
	RankSeven: 7,
	RankEight: 8,
	RankNine:  9,
	RankTen:   10,
	RankJack:  10,
	RankQueen: 10,
	RankKing:  10,
	RankAce:   10,
}

// Value returns the card's point value: 10 for face cards, tens and aces,
// the pip count for numeric ranks, 0 for jokers.
func (c Card) Value() int {
	return rankValues[c.Rank]
}

func (c Card) String() string {
	if c.IsJoker() {
		return "JOKER"
	}
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// suitCycle is the fixed suit order used for canonical set layout and joker
// suit assignment.
var suitCycle = [4]Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}

func suitOrder(s Suit) int {
	for i, cs := range suitCycle {
		if cs == s {
			return i
		}
	}
	return len(suitCycle)
}

var baseRankIndex = map[Rank]int{
	RankTwo:   2,
	RankThree: 3,
	RankFour:  4,
	RankFive:  5,
	RankSix:   6,
	RankSeven: 7,
	RankEight: 8,
	RankNine:  9,
	RankTen:   10,
	RankJack:  11,
	RankQueen: 12,
	RankKing:  13,
}

// RankIndex maps a rank onto the run number line: 2..13 for TWO..KING, with
// the ace at 1 (LOW) or 14 (HIGH). Jokers have no index of their own and
// return 0.
func RankIndex(r Rank, mode AceMode) int {
	if r == RankAce {
		if mode == AceHigh {
			return 14
		}
		return 1
	}
	return baseRankIndex[r]
}

// rankAtIndex is the inverse of RankIndex for indices a run window can
// contain; it is what a joker inside a run stands in for.
func rankAtIndex(idx int, mode AceMode) Rank {
	if idx == 1 || idx == 14 {
		return RankAce
	}
	for r, i := range baseRankIndex {
		if i == idx {
			return r
		}
	}
	return RankJoker
}
