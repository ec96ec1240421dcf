package app

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliejerjees/card51/internal/domain"
)

func newTestService() *Service {
	return NewService(rand.New(rand.NewSource(42)))
}

func TestStartGameDealsAndAnnounces(t *testing.T) {
	svc := newTestService()
	game, events, err := svc.StartGame(3, domain.DefaultHandSize)
	require.NoError(t, err)
	require.Len(t, game.Players, 3)
	for i, pl := range game.Players {
		assert.Len(t, pl.Hand, domain.DefaultHandSize, "player %d", i)
	}
	assert.NoError(t, game.Audit())

	require.Len(t, events, 4)
	for i := 0; i < 3; i++ {
		assert.Equal(t, EventHandDealt, events[i].Kind)
		assert.Equal(t, []int{i}, events[i].Recipients, "hand events are private")
		payload := events[i].Payload.(HandDealtPayload)
		assert.Equal(t, i, payload.Player)
		assert.Len(t, payload.Hand, domain.DefaultHandSize)
	}
	assert.Equal(t, EventGameStarted, events[3].Kind)
	assert.Empty(t, events[3].Recipients)
}

func TestStartGameRejectsBadCounts(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.StartGame(5, domain.DefaultHandSize)
	assert.Error(t, err)
	_, _, err = svc.StartGame(4, 30)
	assert.Error(t, err)
}

func TestActEmitsPrivateAndPublicDrawEvents(t *testing.T) {
	svc := newTestService()
	game, _, err := svc.StartGame(2, domain.DefaultHandSize)
	require.NoError(t, err)

	events, err := svc.Act(game, domain.DrawDeck{Actor: 0})
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, EventCardDrawn, events[0].Kind)
	assert.Equal(t, []int{0}, events[0].Recipients, "the drawn card is private")
	private := events[0].Payload.(CardDrawnPayload)
	assert.Equal(t, game.LastDrawnCard, private.Card.ID)

	assert.Equal(t, EventDrawResolved, events[1].Kind)
	assert.Empty(t, events[1].Recipients)
	public := events[1].Payload.(DrawResolvedPayload)
	assert.Equal(t, domain.DrawSourceDeck, public.Source)
	assert.Equal(t, len(game.DrawPile), public.DrawCount)
}

func TestActRejectionLeavesGameUntouched(t *testing.T) {
	svc := newTestService()
	game, _, err := svc.StartGame(2, domain.DefaultHandSize)
	require.NoError(t, err)

	handBefore := append([]domain.CardID(nil), game.Players[1].Hand...)
	events, err := svc.Act(game, domain.DrawDeck{Actor: 1})
	assert.EqualError(t, err, "It is not your turn.")
	assert.Empty(t, events)
	assert.Equal(t, handBefore, game.Players[1].Hand)
	assert.Equal(t, domain.PhaseDraw, game.Phase)
}

func TestActEmitsTurnAdvance(t *testing.T) {
	svc := newTestService()
	game, _, err := svc.StartGame(2, domain.DefaultHandSize)
	require.NoError(t, err)

	_, err = svc.Act(game, domain.DrawDeck{Actor: 0})
	require.NoError(t, err)
	_, err = svc.Act(game, domain.PassAction{Actor: 0})
	require.NoError(t, err)

	events, err := svc.Act(game, domain.Discard{Actor: 0, CardID: game.Players[0].Hand[0]})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventCardDiscard, events[0].Kind)
	assert.Equal(t, EventTurnAdvanced, events[1].Kind)
	advance := events[1].Payload.(TurnAdvancedPayload)
	assert.Equal(t, 1, advance.NextTurn)
	assert.Equal(t, domain.PhaseDraw, advance.Phase)
}

func TestPlayerViewRedaction(t *testing.T) {
	svc := newTestService()
	game, _, err := svc.StartGame(2, domain.DefaultHandSize)
	require.NoError(t, err)

	v := svc.PlayerView(game, 1)
	assert.Equal(t, 1, v.Viewer)
	assert.Len(t, v.Hand, domain.DefaultHandSize, "viewer sees their own hand")
	for i, p := range v.Players {
		assert.Equal(t, domain.DefaultHandSize, p.HandCount, "player %d", i)
	}
	assert.Equal(t, domain.NoCard, v.LastDrawnCard, "draw info belongs to the turn holder")

	// The turn holder sees their in-progress draw; nobody else does.
	_, err = svc.Act(game, domain.DrawDeck{Actor: 0})
	require.NoError(t, err)
	assert.Equal(t, game.LastDrawnCard, svc.PlayerView(game, 0).LastDrawnCard)
	assert.Equal(t, domain.NoCard, svc.PlayerView(game, 1).LastDrawnCard)

	spec := svc.SpectatorView(game)
	assert.Empty(t, spec.Hand, "spectators see no hand at all")
	assert.Equal(t, -1, spec.Viewer)
}

func TestViewsAreCopies(t *testing.T) {
	svc := newTestService()
	game, _, err := svc.StartGame(2, domain.DefaultHandSize)
	require.NoError(t, err)

	v := svc.PlayerView(game, 0)
	v.Hand[0] = domain.Card{}
	assert.NotEqual(t, domain.Card{}, game.Card(game.Players[0].Hand[0]), "mutating a view must not reach the game")
}
