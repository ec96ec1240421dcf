package nakama

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/eliejerjees/card51/internal/domain"
)

// actionEnvelope is the inbound JSON shape for OpCodeAction. The acting
// player is never taken from the payload; the seat is derived from the
// sender's presence.
type actionEnvelope struct {
	Type          string  `json:"type"`
	CardIDs       []int   `json:"card_ids,omitempty"`
	Groups        [][]int `json:"groups,omitempty"`
	MeldID        string  `json:"meld_id,omitempty"`
	JokerID       *int    `json:"joker_id,omitempty"`
	ReplaceWithID *int    `json:"replace_with_id,omitempty"`
	CardID        *int    `json:"card_id,omitempty"`
}

func toCardIDs(ids []int) []domain.CardID {
	out := make([]domain.CardID, len(ids))
	for i, id := range ids {
		out[i] = domain.CardID(id)
	}
	return out
}

// decodeAction parses an action envelope for the given acting player.
func decodeAction(data []byte, actor int) (domain.Action, error) {
	var env actionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid action payload: %w", err)
	}

	switch env.Type {
	case "draw_deck":
		return domain.DrawDeck{Actor: actor}, nil
	case "draw_discard":
		return domain.DrawDiscard{Actor: actor}, nil
	case "open_group":
		return domain.OpenGroup{Actor: actor, CardIDs: toCardIDs(env.CardIDs)}, nil
	case "open_multi":
		groups := make([][]domain.CardID, len(env.Groups))
		for i, g := range env.Groups {
			groups[i] = toCardIDs(g)
		}
		return domain.OpenMulti{Actor: actor, Groups: groups}, nil
	case "lay_meld":
		return domain.LayMeld{Actor: actor, CardIDs: toCardIDs(env.CardIDs)}, nil
	case "add_to_meld":
		meldID, err := uuid.Parse(env.MeldID)
		if err != nil {
			return nil, fmt.Errorf("invalid meld id %q: %w", env.MeldID, err)
		}
		return domain.AddToMeld{Actor: actor, MeldID: meldID, CardIDs: toCardIDs(env.CardIDs)}, nil
	case "swap_joker":
		meldID, err := uuid.Parse(env.MeldID)
		if err != nil {
			return nil, fmt.Errorf("invalid meld id %q: %w", env.MeldID, err)
		}
		if env.JokerID == nil || env.ReplaceWithID == nil {
			return nil, fmt.Errorf("swap_joker requires joker_id and replace_with_id")
		}
		return domain.SwapJoker{
			Actor:         actor,
			MeldID:        meldID,
			JokerID:       domain.CardID(*env.JokerID),
			ReplaceWithID: domain.CardID(*env.ReplaceWithID),
		}, nil
	case "discard":
		if env.CardID == nil {
			return nil, fmt.Errorf("discard requires card_id")
		}
		return domain.Discard{Actor: actor, CardID: domain.CardID(*env.CardID)}, nil
	case "pass":
		return domain.PassAction{Actor: actor}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", env.Type)
	}
}
