package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pterm/pterm"

	"github.com/eliejerjees/card51/internal/app"
	"github.com/eliejerjees/card51/internal/bot"
	"github.com/eliejerjees/card51/internal/domain"
)

func main() {
	players := flag.Int("players", 2, "number of players (2-4)")
	handSize := flag.Int("hand", domain.DefaultHandSize, "cards dealt to each player")
	seed := flag.Int64("seed", 0, "deterministic shuffle seed (0 = random)")
	watch := flag.Bool("watch", false, "bots play every seat")
	flag.Parse()

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	}
	svc := app.NewService(rng)

	game, _, err := svc.StartGame(*players, *handSize)
	if err != nil {
		pterm.Error.Printfln("cannot start game: %v", err)
		os.Exit(1)
	}

	brains := make([]bot.Brain, *players)
	for i := range brains {
		brain, err := bot.NewBrain(bot.LevelGreedy)
		if err != nil {
			pterm.Error.Printfln("cannot build bot: %v", err)
			os.Exit(1)
		}
		brains[i] = brain
	}

	pterm.DefaultHeader.Println("Card 51")
	pterm.Info.Printfln("%d players, %d cards each. You are seat 0.", *players, *handSize)
	if !*watch {
		printHelp()
	}

	reader := bufio.NewScanner(os.Stdin)
	for game.Phase != domain.PhaseGameOver {
		seat := game.CurrentTurn
		if *watch || seat != 0 {
			events, err := bot.Step(svc, game, seat, brains[seat])
			if errors.Is(err, domain.ErrDeckEmpty) {
				pterm.Warning.Println("The deck ran out. Nobody wins this hand.")
				return
			}
			if err != nil {
				pterm.Error.Printfln("%s cannot act: %v", seatName(seat), err)
				os.Exit(1)
			}
			narrate(game, events)
			continue
		}

		renderTable(svc, game)
		action, quit := promptAction(reader, svc, game)
		if quit {
			pterm.Info.Println("Bye.")
			return
		}
		if action == nil {
			continue
		}
		events, err := svc.Act(game, action)
		if errors.Is(err, domain.ErrDeckEmpty) {
			pterm.Warning.Println("The deck ran out. Nobody wins this hand.")
			return
		}
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		narrate(game, events)
	}

	pterm.DefaultSection.Println("Game over")
	pterm.Success.Printfln("%s wins!", seatName(game.Winner))
}

func seatName(seat int) string {
	if seat == 0 {
		return "You"
	}
	return bot.IdentityFor(seat).Name
}

func printHelp() {
	pterm.DefaultBox.Println(strings.Join([]string{
		"draw              draw from the deck",
		"take              draw the discard top (opened players only)",
		"open 3,4,5;9,10   open with one or more card-id groups",
		"lay 3,4,5         lay a meld (opened players only)",
		"add <meld#> 7     add cards to a table meld",
		"swap <meld#> <jokerId> <cardId>",
		"discard <id>      discard and end the turn",
		"pass              skip the action phase",
		"quit",
	}, "\n"))
}

func renderTable(svc *app.Service, game *domain.Game) {
	v := svc.PlayerView(game, 0)

	rows := pterm.TableData{{"Seat", "Player", "Cards", "Opened"}}
	for i, p := range v.Players {
		marker := ""
		if i == v.CurrentTurn {
			marker = " *"
		}
		rows = append(rows, []string{
			strconv.Itoa(i), seatName(i) + marker, strconv.Itoa(p.HandCount), strconv.FormatBool(p.Opened),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()

	if len(v.Melds) > 0 {
		meldRows := pterm.TableData{{"#", "Owner", "Kind", "Cards"}}
		for i, m := range v.Melds {
			meldRows = append(meldRows, []string{
				strconv.Itoa(i), seatName(m.Owner), string(m.Kind), meldLine(m),
			})
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(meldRows).Render()
	}

	if v.DiscardTop != nil {
		pterm.Info.Printfln("Discard top: %s   Deck: %d cards", cardLine(*v.DiscardTop), v.DrawCount)
	} else {
		pterm.Info.Printfln("Discard pile empty.   Deck: %d cards", v.DrawCount)
	}

	hand := make([]string, len(v.Hand))
	for i, c := range v.Hand {
		hand[i] = cardLine(c)
	}
	pterm.DefaultSection.Printfln("Your hand (%s phase)", v.Phase)
	pterm.Println(strings.Join(hand, "   "))
}

func cardLine(c domain.Card) string {
	return fmt.Sprintf("[%d] %s", c.ID, c)
}

func meldLine(m app.MeldView) string {
	parts := make([]string, len(m.Cards))
	for i, c := range m.Cards {
		label := cardLine(c)
		if face, ok := m.JokerMap[c.ID]; ok {
			label = fmt.Sprintf("[%d] JOKER as %s of %s", c.ID, face.Rank, face.Suit)
		}
		parts[i] = label
	}
	return strings.Join(parts, ", ")
}

func promptAction(reader *bufio.Scanner, svc *app.Service, game *domain.Game) (domain.Action, bool) {
	pterm.Print(pterm.LightCyan("> "))
	if !reader.Scan() {
		return nil, true
	}
	fields := strings.Fields(strings.TrimSpace(reader.Text()))
	if len(fields) == 0 {
		return nil, false
	}

	switch fields[0] {
	case "quit", "exit":
		return nil, true
	case "help":
		printHelp()
		return nil, false
	case "draw":
		return domain.DrawDeck{Actor: 0}, false
	case "take":
		return domain.DrawDiscard{Actor: 0}, false
	case "pass":
		return domain.PassAction{Actor: 0}, false
	case "discard":
		if len(fields) != 2 {
			pterm.Warning.Println("usage: discard <id>")
			return nil, false
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			pterm.Warning.Println("card ids are numbers")
			return nil, false
		}
		return domain.Discard{Actor: 0, CardID: domain.CardID(id)}, false
	case "open":
		groups, err := parseGroups(strings.Join(fields[1:], ""))
		if err != nil {
			pterm.Warning.Println(err.Error())
			return nil, false
		}
		if len(groups) == 1 {
			return domain.OpenGroup{Actor: 0, CardIDs: groups[0]}, false
		}
		return domain.OpenMulti{Actor: 0, Groups: groups}, false
	case "lay":
		ids, err := parseIDs(strings.Join(fields[1:], ""))
		if err != nil {
			pterm.Warning.Println(err.Error())
			return nil, false
		}
		return domain.LayMeld{Actor: 0, CardIDs: ids}, false
	case "add":
		if len(fields) < 3 {
			pterm.Warning.Println("usage: add <meld#> <ids>")
			return nil, false
		}
		meldID, ok := meldAt(svc, game, fields[1])
		if !ok {
			return nil, false
		}
		ids, err := parseIDs(strings.Join(fields[2:], ""))
		if err != nil {
			pterm.Warning.Println(err.Error())
			return nil, false
		}
		return domain.AddToMeld{Actor: 0, MeldID: meldID, CardIDs: ids}, false
	case "swap":
		if len(fields) != 4 {
			pterm.Warning.Println("usage: swap <meld#> <jokerId> <cardId>")
			return nil, false
		}
		meldID, ok := meldAt(svc, game, fields[1])
		if !ok {
			return nil, false
		}
		jokerID, err1 := strconv.Atoi(fields[2])
		cardID, err2 := strconv.Atoi(fields[3])
		if err1 != nil || err2 != nil {
			pterm.Warning.Println("card ids are numbers")
			return nil, false
		}
		return domain.SwapJoker{
			Actor:         0,
			MeldID:        meldID,
			JokerID:       domain.CardID(jokerID),
			ReplaceWithID: domain.CardID(cardID),
		}, false
	default:
		pterm.Warning.Printfln("unknown command %q (try help)", fields[0])
		return nil, false
	}
}

func meldAt(svc *app.Service, game *domain.Game, arg string) (uuid.UUID, bool) {
	idx, err := strconv.Atoi(arg)
	v := svc.PlayerView(game, 0)
	if err != nil || idx < 0 || idx >= len(v.Melds) {
		pterm.Warning.Printfln("no meld #%s on the table", arg)
		return uuid.UUID{}, false
	}
	return v.Melds[idx].ID, true
}

func parseIDs(s string) ([]domain.CardID, error) {
	if s == "" {
		return nil, fmt.Errorf("expected a comma-separated card id list")
	}
	parts := strings.Split(s, ",")
	ids := make([]domain.CardID, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad card id %q", p)
		}
		ids = append(ids, domain.CardID(id))
	}
	return ids, nil
}

func parseGroups(s string) ([][]domain.CardID, error) {
	if s == "" {
		return nil, fmt.Errorf("expected card id groups like 3,4,5;9,10,11")
	}
	var groups [][]domain.CardID
	for _, g := range strings.Split(s, ";") {
		ids, err := parseIDs(g)
		if err != nil {
			return nil, err
		}
		groups = append(groups, ids)
	}
	return groups, nil
}

// narrate prints the public storyline of what just happened.
func narrate(game *domain.Game, events []app.Event) {
	for _, ev := range events {
		if len(ev.Recipients) > 0 {
			continue
		}
		switch p := ev.Payload.(type) {
		case app.DrawResolvedPayload:
			source := "the deck"
			if p.Source == domain.DrawSourceDiscard {
				source = "the discard pile"
			}
			pterm.Println(pterm.Gray(fmt.Sprintf("%s drew from %s.", seatName(p.Player), source)))
		case app.MeldLaidPayload:
			verb := "laid a meld"
			if p.Opening {
				verb = "opened"
			}
			for _, m := range p.Melds {
				pterm.Println(pterm.Gray(fmt.Sprintf("%s %s: %s %v", seatName(p.Player), verb, m.Kind, cardNames(game, m.CardIDs))))
			}
		case app.MeldExtendedPayload:
			pterm.Println(pterm.Gray(fmt.Sprintf("%s extended a meld.", seatName(p.Player))))
		case app.JokerSwappedPayload:
			pterm.Println(pterm.Gray(fmt.Sprintf("%s reclaimed a joker.", seatName(p.Player))))
		case app.TurnPassedPayload:
			pterm.Println(pterm.Gray(fmt.Sprintf("%s passed.", seatName(p.Player))))
		case app.CardDiscardedPayload:
			pterm.Println(pterm.Gray(fmt.Sprintf("%s discarded %s.", seatName(p.Player), p.Card)))
		case app.GameEndedPayload:
			// Rendered by the main loop.
		}
	}
}

func cardNames(game *domain.Game, ids []domain.CardID) []string {
	names := make([]string, len(ids))
	for i, c := range game.CardsOf(ids) {
		names[i] = c.String()
	}
	return names
}
