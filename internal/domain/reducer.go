package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Rejection errors carry the player-facing message directly; the engine
// surfaces them verbatim to whoever submitted the action.
var (
	ErrGameOver         = errors.New("Game is over.")
	ErrNotYourTurn      = errors.New("It is not your turn.")
	ErrUnknownPlayer    = errors.New("No such player.")
	ErrMustDrawFirst    = errors.New("You must draw a card first.")
	ErrNotActionPhase   = errors.New("You can only do that after drawing.")
	ErrMustDiscard      = errors.New("You must discard a card to end your turn.")
	ErrDeckEmpty        = errors.New("The deck is empty.")
	ErrAlreadyOpened    = errors.New("You have already opened.")
	ErrNotOpened        = errors.New("You must open before laying melds.")
	ErrCardNotInHand    = errors.New("Card is not in your hand.")
	ErrDuplicateCard    = errors.New("The same card appears in more than one group.")
	ErrMustKeepOne      = errors.New("You must keep at least one card to discard.")
	ErrNeedOpenPoints   = errors.New("Need 51+ points to open.")
	ErrMustIncludeDrawn = errors.New("Opening must include the discard-drawn card.")
	ErrMeldNotFound     = errors.New("No such meld on the table.")
	ErrJokerNotInMeld   = errors.New("That joker is not part of the meld.")
	ErrJokerMismatch    = errors.New("Replacement card does not match the joker's value.")
)

// Apply validates and executes one action against the game, mutating it in
// place on success. On error the game is unchanged: every precondition is
// checked before any mutation, and the two multi-step actions (AddToMeld,
// SwapJoker) roll back fully when their revalidation fails.
func Apply(g *Game, action Action) error {
	if g.Phase == PhaseGameOver {
		return ErrGameOver
	}
	actor := action.Player()
	if actor < 0 || actor >= len(g.Players) {
		return ErrUnknownPlayer
	}
	if actor != g.CurrentTurn {
		return ErrNotYourTurn
	}

	switch a := action.(type) {
	case DrawDeck:
		return applyDrawDeck(g, a.Actor)
	case DrawDiscard:
		return applyDrawDiscard(g, a.Actor)
	case OpenGroup:
		return applyOpen(g, a.Actor, [][]CardID{a.CardIDs})
	case OpenMulti:
		return applyOpen(g, a.Actor, a.Groups)
	case LayMeld:
		return applyLayMeld(g, a.Actor, a.CardIDs)
	case AddToMeld:
		return applyAddToMeld(g, a.Actor, a.MeldID, a.CardIDs)
	case SwapJoker:
		return applySwapJoker(g, a)
	case Discard:
		return applyDiscard(g, a.Actor, a.CardID)
	case PassAction:
		if g.Phase != PhaseAction {
			return phaseError(g)
		}
		g.Phase = PhaseDiscard
		return nil
	default:
		return fmt.Errorf("unknown action %T", action)
	}
}

// phaseError names the action the current phase demands.
func phaseError(g *Game) error {
	switch g.Phase {
	case PhaseDraw:
		return ErrMustDrawFirst
	case PhaseDiscard:
		return ErrMustDiscard
	default:
		return ErrNotActionPhase
	}
}

func applyDrawDeck(g *Game, actor int) error {
	if g.Phase != PhaseDraw {
		return phaseError(g)
	}
	return drawFromDeck(g, actor)
}

func drawFromDeck(g *Game, actor int) error {
	if len(g.DrawPile) == 0 {
		// No reshuffle-from-discard policy at this layer.
		return ErrDeckEmpty
	}
	top := g.DrawPile[len(g.DrawPile)-1]
	g.DrawPile = g.DrawPile[:len(g.DrawPile)-1]
	g.Players[actor].Hand = append(g.Players[actor].Hand, top)
	g.LastDrawnCard = top
	g.LastDrawSource = DrawSourceDeck
	g.Phase = PhaseAction
	return nil
}

func applyDrawDiscard(g *Game, actor int) error {
	if g.Phase != PhaseDraw {
		return phaseError(g)
	}
	// House rule: only opened players may take the discard. Unopened
	// players, and anyone facing an empty pile, draw from the deck instead.
	if !g.Players[actor].Opened || len(g.DiscardPile) == 0 {
		return drawFromDeck(g, actor)
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	g.DiscardPile = g.DiscardPile[:len(g.DiscardPile)-1]
	g.Players[actor].Hand = append(g.Players[actor].Hand, top)
	g.LastDrawnCard = top
	g.LastDrawSource = DrawSourceDiscard
	g.Phase = PhaseAction
	return nil
}

// applyOpen handles both OpenGroup and OpenMulti: every group must validate
// on its own and the combined value must reach the opening threshold.
func applyOpen(g *Game, actor int, groups [][]CardID) error {
	if g.Phase != PhaseAction {
		return phaseError(g)
	}
	pl := g.Players[actor]
	if pl.Opened {
		return ErrAlreadyOpened
	}
	if len(groups) == 0 {
		return ErrInvalidMeld
	}

	var all []CardID
	seen := make(map[CardID]bool)
	for _, group := range groups {
		for _, id := range group {
			if seen[id] {
				return ErrDuplicateCard
			}
			seen[id] = true
			all = append(all, id)
		}
	}
	if !handContains(pl, all) {
		return ErrCardNotInHand
	}
	// A discard-pile draw must be played in the opening. A deck draw
	// carries no such requirement.
	if g.LastDrawSource == DrawSourceDiscard && !seen[g.LastDrawnCard] {
		return ErrMustIncludeDrawn
	}
	if len(pl.Hand)-len(all) < 1 {
		return ErrMustKeepOne
	}

	total := 0
	for _, group := range groups {
		total += MeldPoints(g.CardsOf(group))
	}
	if total < OpenThreshold {
		return ErrNeedOpenPoints
	}

	layouts := make([]*MeldLayout, len(groups))
	for i, group := range groups {
		layout, err := ValidateMeld(g.CardsOf(group))
		if err != nil {
			return err
		}
		layouts[i] = layout
	}

	removeFromHand(pl, all)
	for _, layout := range layouts {
		meld := &Meld{ID: uuid.New(), Owner: actor}
		meld.setLayout(layout)
		g.Melds = append(g.Melds, meld)
	}
	pl.Opened = true
	g.Phase = PhaseDiscard
	return nil
}

func applyLayMeld(g *Game, actor int, ids []CardID) error {
	if g.Phase != PhaseAction {
		return phaseError(g)
	}
	pl := g.Players[actor]
	if !pl.Opened {
		return ErrNotOpened
	}
	seen := make(map[CardID]bool)
	for _, id := range ids {
		if seen[id] {
			return ErrDuplicateCard
		}
		seen[id] = true
	}
	if !handContains(pl, ids) {
		return ErrCardNotInHand
	}
	if len(pl.Hand)-len(ids) < 1 {
		return ErrMustKeepOne
	}
	layout, err := ValidateMeld(g.CardsOf(ids))
	if err != nil {
		return err
	}

	removeFromHand(pl, ids)
	meld := &Meld{ID: uuid.New(), Owner: actor}
	meld.setLayout(layout)
	g.Melds = append(g.Melds, meld)
	g.Phase = PhaseDiscard
	return nil
}

func applyAddToMeld(g *Game, actor int, meldID uuid.UUID, ids []CardID) error {
	if g.Phase != PhaseAction {
		return phaseError(g)
	}
	pl := g.Players[actor]
	if !pl.Opened {
		return ErrNotOpened
	}
	meld := g.MeldByID(meldID)
	if meld == nil {
		return ErrMeldNotFound
	}
	seen := make(map[CardID]bool)
	for _, id := range ids {
		if seen[id] {
			return ErrDuplicateCard
		}
		seen[id] = true
	}
	if len(ids) == 0 || !handContains(pl, ids) {
		return ErrCardNotInHand
	}
	// Same rule as opening and laying: the discard phase needs a card, and
	// wins are only detected on the discard itself.
	if len(pl.Hand)-len(ids) < 1 {
		return ErrMustKeepOne
	}

	// Provisionally pull the cards out, revalidate the grown meld as a
	// whole, and roll back if the combination no longer stands.
	handBefore := append([]CardID(nil), pl.Hand...)
	removeFromHand(pl, ids)

	combined := append(append([]CardID(nil), meld.CardIDs...), ids...)
	layout, err := ValidateMeld(g.CardsOf(combined))
	if err != nil {
		pl.Hand = handBefore
		return err
	}

	meld.setLayout(layout)
	g.Phase = PhaseDiscard
	return nil
}

func applySwapJoker(g *Game, a SwapJoker) error {
	if g.Phase != PhaseAction {
		return phaseError(g)
	}
	pl := g.Players[a.Actor]
	if !pl.Opened {
		return ErrNotOpened
	}
	meld := g.MeldByID(a.MeldID)
	if meld == nil {
		return ErrMeldNotFound
	}
	if !meld.contains(a.JokerID) {
		return ErrJokerNotInMeld
	}
	face, ok := meld.JokerMap[a.JokerID]
	if !ok {
		return ErrJokerNotInMeld
	}
	if !containsID(pl.Hand, a.ReplaceWithID) {
		return ErrCardNotInHand
	}
	// The replacement must be exactly what the joker was committed to
	// represent; it is not enough that some other revalidation would work.
	replacement := g.Card(a.ReplaceWithID)
	if replacement.Suit != face.Suit || replacement.Rank != face.Rank {
		return ErrJokerMismatch
	}

	handBefore := append([]CardID(nil), pl.Hand...)
	idsBefore := append([]CardID(nil), meld.CardIDs...)
	mapBefore := make(map[CardID]CardFace, len(meld.JokerMap))
	for id, f := range meld.JokerMap {
		mapBefore[id] = f
	}
	kindBefore, modeBefore := meld.Kind, meld.AceMode

	removeFromHand(pl, []CardID{a.ReplaceWithID})
	for i, id := range meld.CardIDs {
		if id == a.JokerID {
			meld.CardIDs[i] = a.ReplaceWithID
			break
		}
	}
	pl.Hand = append(pl.Hand, a.JokerID)

	layout, err := ValidateMeld(g.CardsOf(meld.CardIDs))
	if err != nil {
		pl.Hand = handBefore
		meld.CardIDs = idsBefore
		meld.JokerMap = mapBefore
		meld.Kind, meld.AceMode = kindBefore, modeBefore
		return err
	}

	meld.setLayout(layout)
	// A joker swap does not consume the turn's discard step.
	return nil
}

func applyDiscard(g *Game, actor int, id CardID) error {
	if g.Phase != PhaseDiscard {
		return phaseError(g)
	}
	pl := g.Players[actor]
	if !containsID(pl.Hand, id) {
		return ErrCardNotInHand
	}

	removeFromHand(pl, []CardID{id})
	g.DiscardPile = append(g.DiscardPile, id)

	if len(pl.Hand) == 0 {
		g.Winner = actor
		g.Phase = PhaseGameOver
		return nil
	}

	g.CurrentTurn = (g.CurrentTurn + 1) % len(g.Players)
	g.Phase = PhaseDraw
	g.LastDrawnCard = NoCard
	g.LastDrawSource = DrawSourceNone
	return nil
}
