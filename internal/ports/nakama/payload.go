package nakama

import (
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/eliejerjees/card51/internal/app"
	"github.com/eliejerjees/card51/internal/domain"
)

// marshalPayload encodes an outbound payload as a protobuf Struct rendered
// with protojson, keeping the wire format readable for web clients.
func marshalPayload(m map[string]any) ([]byte, error) {
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(st)
}

func cardMap(c domain.Card) map[string]any {
	return map[string]any{"id": int(c.ID), "suit": string(c.Suit), "rank": string(c.Rank), "value": c.Value()}
}

func cardList(cards []domain.Card) []any {
	out := make([]any, len(cards))
	for i, c := range cards {
		out[i] = cardMap(c)
	}
	return out
}

func meldMap(m *domain.Meld, game *domain.Game) map[string]any {
	jokers := map[string]any{}
	for id, face := range m.JokerMap {
		jokers[strconv.Itoa(int(id))] = map[string]any{"suit": string(face.Suit), "rank": string(face.Rank)}
	}
	return map[string]any{
		"id":        m.ID.String(),
		"owner":     m.Owner,
		"kind":      string(m.Kind),
		"ace_mode":  string(m.AceMode),
		"cards":     cardList(game.CardsOf(m.CardIDs)),
		"joker_map": jokers,
	}
}

func meldViewMap(mv app.MeldView) map[string]any {
	jokers := map[string]any{}
	for id, face := range mv.JokerMap {
		jokers[strconv.Itoa(int(id))] = map[string]any{"suit": string(face.Suit), "rank": string(face.Rank)}
	}
	return map[string]any{
		"id":        mv.ID.String(),
		"owner":     mv.Owner,
		"kind":      string(mv.Kind),
		"ace_mode":  string(mv.AceMode),
		"cards":     cardList(mv.Cards),
		"joker_map": jokers,
	}
}

// viewMap flattens a redacted player view for the wire.
func viewMap(v *app.View) map[string]any {
	players := make([]any, len(v.Players))
	for i, p := range v.Players {
		players[i] = map[string]any{"opened": p.Opened, "hand_count": p.HandCount}
	}
	melds := make([]any, len(v.Melds))
	for i, mv := range v.Melds {
		melds[i] = meldViewMap(mv)
	}
	m := map[string]any{
		"viewer":       v.Viewer,
		"phase":        string(v.Phase),
		"current_turn": v.CurrentTurn,
		"winner":       v.Winner,
		"hand":         cardList(v.Hand),
		"players":      players,
		"melds":        melds,
		"draw_count":   v.DrawCount,
	}
	if v.DiscardTop != nil {
		m["discard_top"] = cardMap(*v.DiscardTop)
	}
	if v.LastDrawnCard != domain.NoCard {
		m["last_drawn_card"] = int(v.LastDrawnCard)
		m["last_draw_source"] = string(v.LastDrawSource)
	}
	return m
}

// eventMap flattens an engine event. The second return is false for event
// kinds that never go on the wire.
func eventMap(ev app.Event, game *domain.Game) (map[string]any, bool) {
	base := map[string]any{"kind": string(ev.Kind)}
	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		base["players"] = p.Players
		base["first_turn"] = p.FirstTurn
	case app.HandDealtPayload:
		base["player"] = p.Player
		base["hand"] = cardList(p.Hand)
	case app.CardDrawnPayload:
		base["player"] = p.Player
		base["card"] = cardMap(p.Card)
		base["source"] = string(p.Source)
	case app.DrawResolvedPayload:
		base["player"] = p.Player
		base["source"] = string(p.Source)
		base["draw_count"] = p.DrawCount
	case app.MeldLaidPayload:
		base["player"] = p.Player
		base["opening"] = p.Opening
		melds := make([]any, len(p.Melds))
		for i, m := range p.Melds {
			melds[i] = meldMap(m, game)
		}
		base["melds"] = melds
	case app.MeldExtendedPayload:
		base["player"] = p.Player
		base["meld"] = meldMap(p.Meld, game)
	case app.JokerSwappedPayload:
		base["player"] = p.Player
		base["joker"] = int(p.Joker)
		base["meld"] = meldMap(p.Meld, game)
	case app.TurnPassedPayload:
		base["player"] = p.Player
	case app.CardDiscardedPayload:
		base["player"] = p.Player
		base["card"] = cardMap(p.Card)
	case app.TurnAdvancedPayload:
		base["next_turn"] = p.NextTurn
		base["phase"] = string(p.Phase)
	case app.GameEndedPayload:
		base["winner"] = p.Winner
	default:
		return nil, false
	}
	return base, true
}
