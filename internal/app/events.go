package app

import "github.com/eliejerjees/card51/internal/domain"

// EventKind identifies emitted engine events for transport dispatch.
type EventKind string

const (
	EventGameStarted  EventKind = "game_started"
	EventHandDealt    EventKind = "hand_dealt"
	EventCardDrawn    EventKind = "card_drawn"
	EventDrawResolved EventKind = "draw_resolved"
	EventMeldLaid     EventKind = "meld_laid"
	EventMeldExtended EventKind = "meld_extended"
	EventJokerSwapped EventKind = "joker_swapped"
	EventTurnPassed   EventKind = "turn_passed"
	EventCardDiscard  EventKind = "card_discarded"
	EventTurnAdvanced EventKind = "turn_advanced"
	EventGameEnded    EventKind = "game_ended"
)

// Event is an engine event with optional targeted recipients (player
// indices; empty means broadcast).
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []int
}

type GameStartedPayload struct {
	Players   int
	FirstTurn int
}

type HandDealtPayload struct {
	Player int
	Hand   []domain.Card
}

// CardDrawnPayload is private to the drawing player: it names the card.
type CardDrawnPayload struct {
	Player int
	Card   domain.Card
	Source domain.DrawSource
}

// DrawResolvedPayload is the public counterpart: only where the draw came
// from, never which card (unless it was the public discard top).
type DrawResolvedPayload struct {
	Player    int
	Source    domain.DrawSource
	DrawCount int
}

type MeldLaidPayload struct {
	Player  int
	Melds   []*domain.Meld
	Opening bool
}

type MeldExtendedPayload struct {
	Player int
	Meld   *domain.Meld
}

type JokerSwappedPayload struct {
	Player int
	Meld   *domain.Meld
	Joker  domain.CardID
}

type TurnPassedPayload struct {
	Player int
}

type CardDiscardedPayload struct {
	Player int
	Card   domain.Card
}

type TurnAdvancedPayload struct {
	NextTurn int
	Phase    domain.Phase
}

type GameEndedPayload struct {
	Winner int
}
