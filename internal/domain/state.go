package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Phase is the stage of the current player's turn.
type Phase string

const (
	// PhaseDraw: the current player must take a card from the deck or the
	// discard pile.
	PhaseDraw Phase = "DRAW"
	// PhaseAction: the current player may open, lay melds, extend melds,
	// swap jokers, or pass.
	PhaseAction Phase = "ACTION"
	// PhaseDiscard: the current player must discard exactly one card.
	PhaseDiscard Phase = "DISCARD"
	// PhaseGameOver is terminal; no further actions are accepted.
	PhaseGameOver Phase = "GAME_OVER"
)

// DrawSource records where the current player's draw came from.
type DrawSource string

const (
	DrawSourceNone    DrawSource = ""
	DrawSourceDeck    DrawSource = "DECK"
	DrawSourceDiscard DrawSource = "DISCARD"
)

// Player holds one seat's private hand and public opening status.
type Player struct {
	Hand   []CardID
	Opened bool
}

// Game is the authoritative ledger for a single hand of Card 51. Every card
// of the fixed population lives in exactly one of: a hand, the draw pile,
// the discard pile, or a table meld. The reducer owns all mutation; callers
// never touch the piles directly.
type Game struct {
	Phase       Phase
	CurrentTurn int
	Players     []*Player
	DrawPile    []CardID // top is the last element
	DiscardPile []CardID // top is the last element
	Melds       []*Meld

	// Cards is the immutable ID -> face registry built at deal time.
	Cards map[CardID]Card

	// LastDrawnCard and LastDrawSource describe the current turn's draw and
	// are cleared when the turn passes.
	LastDrawnCard  CardID
	LastDrawSource DrawSource

	// Winner is the index of the player who emptied their hand, or -1.
	Winner int
}

// NewGame deals a fresh hand from an already-shuffled deck. The deck must be
// the full population from NewDeck; the top of the draw pile is the end of
// the slice, so dealing pops from the back.
func NewGame(deck []Card, numPlayers, handSize int) (*Game, error) {
	if numPlayers < MinPlayers || numPlayers > MaxPlayers {
		return nil, fmt.Errorf("player count %d out of range %d-%d", numPlayers, MinPlayers, MaxPlayers)
	}
	if len(deck) != DeckSize {
		return nil, fmt.Errorf("deck has %d cards, want %d", len(deck), DeckSize)
	}
	if numPlayers*handSize >= len(deck) {
		return nil, fmt.Errorf("cannot deal %d cards to %d players from %d", handSize, numPlayers, len(deck))
	}

	cards := make(map[CardID]Card, len(deck))
	pile := make([]CardID, 0, len(deck))
	for _, c := range deck {
		if _, dup := cards[c.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %d in deck", c.ID)
		}
		cards[c.ID] = c
		pile = append(pile, c.ID)
	}

	g := &Game{
		Phase:         PhaseDraw,
		Players:       make([]*Player, numPlayers),
		DrawPile:      pile,
		Cards:         cards,
		LastDrawnCard: NoCard,
		Winner:        -1,
	}
	for i := range g.Players {
		g.Players[i] = &Player{Hand: make([]CardID, 0, handSize+1)}
	}
	for j := 0; j < handSize; j++ {
		for i := range g.Players {
			top := g.DrawPile[len(g.DrawPile)-1]
			g.DrawPile = g.DrawPile[:len(g.DrawPile)-1]
			g.Players[i].Hand = append(g.Players[i].Hand, top)
		}
	}
	return g, nil
}

// Card resolves an ID against the fixed registry.
func (g *Game) Card(id CardID) Card {
	return g.Cards[id]
}

// CardsOf resolves a list of IDs to card values in the same order.
func (g *Game) CardsOf(ids []CardID) []Card {
	out := make([]Card, len(ids))
	for i, id := range ids {
		out[i] = g.Cards[id]
	}
	return out
}

// MeldByID finds a table meld, or nil.
func (g *Game) MeldByID(id uuid.UUID) *Meld {
	for _, m := range g.Melds {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// DiscardTop returns the top of the discard pile.
func (g *Game) DiscardTop() (CardID, bool) {
	if len(g.DiscardPile) == 0 {
		return NoCard, false
	}
	return g.DiscardPile[len(g.DiscardPile)-1], true
}

// handContains reports whether the player's hand holds every given ID.
func handContains(pl *Player, ids []CardID) bool {
	for _, id := range ids {
		if !containsID(pl.Hand, id) {
			return false
		}
	}
	return true
}

// removeFromHand removes the given IDs, preserving the order of the rest.
// IDs are unique, so a plain filter suffices.
func removeFromHand(pl *Player, ids []CardID) {
	remove := make(map[CardID]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}
	kept := pl.Hand[:0]
	for _, id := range pl.Hand {
		if !remove[id] {
			kept = append(kept, id)
		}
	}
	pl.Hand = kept
}

// Audit verifies the conservation invariant: the multiset of IDs across all
// hands, both piles and all melds is exactly the dealt population, with no
// ID appearing twice.
func (g *Game) Audit() error {
	seen := make(map[CardID]bool, len(g.Cards))
	track := func(where string, ids []CardID) error {
		for _, id := range ids {
			if _, known := g.Cards[id]; !known {
				return fmt.Errorf("%s holds unknown card %d", where, id)
			}
			if seen[id] {
				return fmt.Errorf("card %d appears twice (last seen in %s)", id, where)
			}
			seen[id] = true
		}
		return nil
	}

	for i, pl := range g.Players {
		if err := track(fmt.Sprintf("hand %d", i), pl.Hand); err != nil {
			return err
		}
	}
	if err := track("draw pile", g.DrawPile); err != nil {
		return err
	}
	if err := track("discard pile", g.DiscardPile); err != nil {
		return err
	}
	for _, m := range g.Melds {
		if err := track("meld "+m.ID.String(), m.CardIDs); err != nil {
			return err
		}
	}

	if len(seen) != len(g.Cards) {
		return errors.New("cards missing from the ledger")
	}
	return nil
}
