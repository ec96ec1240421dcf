package app

import (
	"math/rand"
	"time"

	"github.com/eliejerjees/card51/internal/domain"
)

// Service contains the Card 51 use-cases operating on domain state: dealing
// a hand, applying actions and deriving the events a transport layer
// broadcasts. The service itself is stateless apart from its rng; callers
// own the Game and must serialize access to it.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// StartGame builds and shuffles the 106-card population, deals handSize
// cards to each player and opens the hand in the draw phase of player 0.
func (s *Service) StartGame(numPlayers, handSize int) (*domain.Game, []Event, error) {
	deck := domain.ShuffleDeck(domain.NewDeck(), s.rng)
	game, err := domain.NewGame(deck, numPlayers, handSize)
	if err != nil {
		return nil, nil, err
	}

	events := make([]Event, 0, numPlayers+1)
	for i, pl := range game.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Player: i, Hand: game.CardsOf(pl.Hand)},
			Recipients: []int{i},
		})
	}
	events = append(events, Event{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{Players: numPlayers, FirstTurn: game.CurrentTurn},
	})
	return game, events, nil
}

// Act applies one action to the game and, on success, derives the events
// describing what happened. On failure the game is untouched and the error
// carries the player-facing rejection message.
func (s *Service) Act(game *domain.Game, action domain.Action) ([]Event, error) {
	actor := action.Player()
	meldsBefore := len(game.Melds)

	if err := domain.Apply(game, action); err != nil {
		return nil, err
	}

	var events []Event
	switch a := action.(type) {
	case domain.DrawDeck, domain.DrawDiscard:
		events = append(events,
			Event{
				Kind:       EventCardDrawn,
				Payload:    CardDrawnPayload{Player: actor, Card: game.Card(game.LastDrawnCard), Source: game.LastDrawSource},
				Recipients: []int{actor},
			},
			Event{
				Kind:    EventDrawResolved,
				Payload: DrawResolvedPayload{Player: actor, Source: game.LastDrawSource, DrawCount: len(game.DrawPile)},
			},
		)
	case domain.OpenGroup, domain.OpenMulti:
		events = append(events, Event{
			Kind:    EventMeldLaid,
			Payload: MeldLaidPayload{Player: actor, Melds: game.Melds[meldsBefore:], Opening: true},
		})
	case domain.LayMeld:
		events = append(events, Event{
			Kind:    EventMeldLaid,
			Payload: MeldLaidPayload{Player: actor, Melds: game.Melds[meldsBefore:]},
		})
	case domain.AddToMeld:
		events = append(events, Event{
			Kind:    EventMeldExtended,
			Payload: MeldExtendedPayload{Player: actor, Meld: game.MeldByID(a.MeldID)},
		})
	case domain.SwapJoker:
		events = append(events, Event{
			Kind:    EventJokerSwapped,
			Payload: JokerSwappedPayload{Player: actor, Meld: game.MeldByID(a.MeldID), Joker: a.JokerID},
		})
	case domain.PassAction:
		events = append(events, Event{
			Kind:    EventTurnPassed,
			Payload: TurnPassedPayload{Player: actor},
		})
	case domain.Discard:
		events = append(events, Event{
			Kind:    EventCardDiscard,
			Payload: CardDiscardedPayload{Player: actor, Card: game.Card(a.CardID)},
		})
	}

	if game.Phase == domain.PhaseGameOver {
		events = append(events, Event{
			Kind:    EventGameEnded,
			Payload: GameEndedPayload{Winner: game.Winner},
		})
	} else if _, isDiscard := action.(domain.Discard); isDiscard {
		events = append(events, Event{
			Kind:    EventTurnAdvanced,
			Payload: TurnAdvancedPayload{NextTurn: game.CurrentTurn, Phase: game.Phase},
		})
	}

	return events, nil
}
