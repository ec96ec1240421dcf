package domain

import "github.com/google/uuid"

// Action is one player request against the game ledger. The set is closed;
// every variant carries the acting player's index.
type Action interface {
	Player() int
}

// DrawDeck takes the top card of the draw pile.
type DrawDeck struct {
	Actor int
}

// DrawDiscard takes the top of the discard pile. For players who have not
// opened, or when the pile is empty, it silently degrades to a deck draw.
type DrawDiscard struct {
	Actor int
}

// OpenGroup proposes a single meld as the player's opening.
type OpenGroup struct {
	Actor   int
	CardIDs []CardID
}

// OpenMulti proposes several melds simultaneously as the player's opening.
type OpenMulti struct {
	Actor  int
	Groups [][]CardID
}

// LayMeld lays one additional meld after the player has opened.
type LayMeld struct {
	Actor   int
	CardIDs []CardID
}

// AddToMeld appends hand cards to an existing table meld.
type AddToMeld struct {
	Actor   int
	MeldID  uuid.UUID
	CardIDs []CardID
}

// SwapJoker reclaims a joker from a meld by substituting the exact card it
// represents.
type SwapJoker struct {
	Actor         int
	MeldID        uuid.UUID
	JokerID       CardID
	ReplaceWithID CardID
}

// Discard ends the turn by discarding exactly one card.
type Discard struct {
	Actor  int
	CardID CardID
}

// PassAction skips straight from the action phase to the discard phase.
type PassAction struct {
	Actor int
}

func (a DrawDeck) Player() int    { return a.Actor }
func (a DrawDiscard) Player() int { return a.Actor }
func (a OpenGroup) Player() int   { return a.Actor }
func (a OpenMulti) Player() int   { return a.Actor }
func (a LayMeld) Player() int     { return a.Actor }
func (a AddToMeld) Player() int   { return a.Actor }
func (a SwapJoker) Player() int   { return a.Actor }
func (a Discard) Player() int     { return a.Actor }
func (a PassAction) Player() int  { return a.Actor }
