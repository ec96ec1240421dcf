package app

import (
	"github.com/google/uuid"

	"github.com/eliejerjees/card51/internal/domain"
)

// PublicPlayer is what everyone may know about a seat.
type PublicPlayer struct {
	Opened    bool
	HandCount int
}

// MeldView is a table meld with its cards resolved to faces. Melds are
// public, joker identities included.
type MeldView struct {
	ID       uuid.UUID
	Owner    int
	Kind     domain.MeldKind
	AceMode  domain.AceMode
	Cards    []domain.Card
	JokerMap map[domain.CardID]domain.CardFace
}

// View is a redacted projection of the game for one viewer: their own hand
// in full, everyone else reduced to public counts. The reducer keeps
// operating on the full authoritative state; only this projection crosses
// to presentation and bot code.
type View struct {
	Viewer      int
	Phase       domain.Phase
	CurrentTurn int
	Winner      int

	Hand    []domain.Card
	Players []PublicPlayer
	Melds   []MeldView

	DrawCount  int
	DiscardTop *domain.Card

	// LastDrawnCard/LastDrawSource are filled only for the viewer's own
	// in-progress turn.
	LastDrawnCard  domain.CardID
	LastDrawSource domain.DrawSource
}

// PlayerView projects the game for the given seat.
func (s *Service) PlayerView(game *domain.Game, viewer int) *View {
	v := &View{
		Viewer:        viewer,
		Phase:         game.Phase,
		CurrentTurn:   game.CurrentTurn,
		Winner:        game.Winner,
		DrawCount:     len(game.DrawPile),
		LastDrawnCard: domain.NoCard,
	}

	for i, pl := range game.Players {
		v.Players = append(v.Players, PublicPlayer{Opened: pl.Opened, HandCount: len(pl.Hand)})
		if i == viewer {
			v.Hand = game.CardsOf(pl.Hand)
		}
	}

	for _, m := range game.Melds {
		jokers := make(map[domain.CardID]domain.CardFace, len(m.JokerMap))
		for id, face := range m.JokerMap {
			jokers[id] = face
		}
		v.Melds = append(v.Melds, MeldView{
			ID:       m.ID,
			Owner:    m.Owner,
			Kind:     m.Kind,
			AceMode:  m.AceMode,
			Cards:    game.CardsOf(m.CardIDs),
			JokerMap: jokers,
		})
	}

	if top, ok := game.DiscardTop(); ok {
		c := game.Card(top)
		v.DiscardTop = &c
	}

	if viewer == game.CurrentTurn {
		v.LastDrawnCard = game.LastDrawnCard
		v.LastDrawSource = game.LastDrawSource
	}
	return v
}

// SpectatorView projects the game with no private hand at all.
func (s *Service) SpectatorView(game *domain.Game) *View {
	return s.PlayerView(game, -1)
}
