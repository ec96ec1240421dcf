package bot

import (
	"fmt"
	"sort"

	"github.com/eliejerjees/card51/internal/app"
	"github.com/eliejerjees/card51/internal/domain"
)

// Greedy is the default strategy: take the discard when it completes a
// meld, open as soon as 51 points of disjoint melds exist, lay and extend
// whatever it can once opened, reclaim jokers it can substitute for, and
// discard the most expensive card no candidate meld wants.
type Greedy struct{}

func (b *Greedy) PlanAction(v *app.View) (domain.Action, error) {
	seat := v.Viewer
	switch v.Phase {
	case domain.PhaseDraw:
		return b.planDraw(v, seat), nil
	case domain.PhaseAction:
		return b.planMelds(v, seat), nil
	case domain.PhaseDiscard:
		return b.planDiscard(v, seat), nil
	default:
		return nil, fmt.Errorf("no action available in phase %s", v.Phase)
	}
}

func (b *Greedy) planDraw(v *app.View, seat int) domain.Action {
	if v.Players[seat].Opened && v.DiscardTop != nil {
		// Worth taking only if it completes a meld with what we hold.
		trial := append(append([]domain.Card(nil), v.Hand...), *v.DiscardTop)
		for _, cand := range domain.FindMelds(trial) {
			for _, id := range cand.CardIDs {
				if id == v.DiscardTop.ID {
					return domain.DrawDiscard{Actor: seat}
				}
			}
		}
	}
	return domain.DrawDeck{Actor: seat}
}

func (b *Greedy) planMelds(v *app.View, seat int) domain.Action {
	if !v.Players[seat].Opened {
		mustInclude := domain.NoCard
		if v.LastDrawSource == domain.DrawSourceDiscard {
			mustInclude = v.LastDrawnCard
		}
		if picked, ok := domain.FindOpening(v.Hand, mustInclude, domain.OpenThreshold); ok {
			groups := make([][]domain.CardID, len(picked))
			for i, cand := range picked {
				groups[i] = cand.CardIDs
			}
			if len(groups) == 1 {
				return domain.OpenGroup{Actor: seat, CardIDs: groups[0]}
			}
			return domain.OpenMulti{Actor: seat, Groups: groups}
		}
		return domain.PassAction{Actor: seat}
	}

	// Lay the most valuable meld that keeps a discard in hand.
	candidates := domain.FindMelds(v.Hand)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Points > candidates[j].Points })
	for _, cand := range candidates {
		if len(cand.CardIDs) < len(v.Hand) {
			return domain.LayMeld{Actor: seat, CardIDs: cand.CardIDs}
		}
	}

	// Extend an existing meld with a single card, keeping one to discard.
	if len(v.Hand) >= 2 {
		for _, meld := range v.Melds {
			for _, c := range v.Hand {
				grown := append(append([]domain.Card(nil), meld.Cards...), c)
				if _, err := domain.ValidateMeld(grown); err == nil {
					return domain.AddToMeld{Actor: seat, MeldID: meld.ID, CardIDs: []domain.CardID{c.ID}}
				}
			}
		}
	}

	// Reclaim a joker when we hold exactly the card it stands for.
	for _, meld := range v.Melds {
		for jokerID, face := range meld.JokerMap {
			for _, c := range v.Hand {
				if c.Suit == face.Suit && c.Rank == face.Rank {
					return domain.SwapJoker{Actor: seat, MeldID: meld.ID, JokerID: jokerID, ReplaceWithID: c.ID}
				}
			}
		}
	}

	return domain.PassAction{Actor: seat}
}

func (b *Greedy) planDiscard(v *app.View, seat int) domain.Action {
	wanted := make(map[domain.CardID]bool)
	for _, cand := range domain.FindMelds(v.Hand) {
		for _, id := range cand.CardIDs {
			wanted[id] = true
		}
	}

	pick := domain.NoCard
	pickValue := -1
	for _, c := range v.Hand {
		if wanted[c.ID] {
			continue
		}
		if c.Value() > pickValue {
			pick, pickValue = c.ID, c.Value()
		}
	}
	if pick == domain.NoCard {
		// Everything is part of some candidate; shed the cheapest card.
		for _, c := range v.Hand {
			if pick == domain.NoCard || c.Value() < pickValue {
				pick, pickValue = c.ID, c.Value()
			}
		}
	}
	return domain.Discard{Actor: seat, CardID: pick}
}
