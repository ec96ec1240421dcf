package nakama

import (
	"context"
	"database/sql"
	"math/rand"
	"strconv"

	"github.com/heroiclabs/nakama-common/runtime"

	"github.com/eliejerjees/card51/internal/app"
	"github.com/eliejerjees/card51/internal/bot"
	"github.com/eliejerjees/card51/internal/config"
	"github.com/eliejerjees/card51/internal/domain"
)

// MatchState holds the authoritative runtime state for a Card 51 match.
type MatchState struct {
	Seats         [domain.MaxPlayers]string   // user IDs, "" means empty
	OwnerSeat     int                         // seat index of the match owner
	Tick          int64                       // current match tick
	Presences     map[string]runtime.Presence // userId -> presence
	Svc           *app.Service
	Game          *domain.Game
	PlayerSeats   []int // player index -> seat index, fixed at game start
	HandSize      int
	BotsEnabled   bool
	BotMinDelay   int
	BotMaxDelay   int
	BotFillDelay  int
	BotWaitUntil  int64                 // tick when the current bot turn fires
	SoloSinceTick int64                 // tick when a lone human started waiting
	Bots          map[string]*bot.Agent // userId -> agent
}

func (ms *MatchState) openSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) humanCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !bot.IsBot(seat) {
			count++
		}
	}
	return count
}

// seatOfUser returns the seat index occupied by the user, or -1.
func (ms *MatchState) seatOfUser(userID string) int {
	for i, seat := range ms.Seats {
		if seat == userID {
			return i
		}
	}
	return -1
}

// playerOfUser returns the player index for a user in the running game,
// or -1.
func (ms *MatchState) playerOfUser(userID string) int {
	seat := ms.seatOfUser(userID)
	if seat < 0 {
		return -1
	}
	for player, s := range ms.PlayerSeats {
		if s == seat {
			return player
		}
	}
	return -1
}

// userOfPlayer returns the user ID seated at a player index.
func (ms *MatchState) userOfPlayer(player int) string {
	if player < 0 || player >= len(ms.PlayerSeats) {
		return ""
	}
	return ms.Seats[ms.PlayerSeats[player]]
}

func findFirstHumanSeat(seats []string) int {
	for i, userID := range seats {
		if userID != "" && !bot.IsBot(userID) {
			return i
		}
	}
	return -1
}

type matchHandler struct{}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: initializing Card 51 match handler.")

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: could not load game config: %v", err)
	}
	cfg := config.GetGameConfig()

	state := &MatchState{
		OwnerSeat:    -1,
		Presences:    make(map[string]runtime.Presence),
		Svc:          app.NewService(nil),
		HandSize:     cfg.HandSize,
		BotMinDelay:  cfg.BotMinDelaySeconds,
		BotMaxDelay:  cfg.BotMaxDelaySeconds,
		BotFillDelay: cfg.BotAutoFillDelaySeconds,
		Bots:         make(map[string]*bot.Agent),
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["card51_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["card51_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["card51_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["card51_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotFillDelay = i
		}
	}
	if state.BotMinDelay <= 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}
	if state.BotFillDelay <= 0 {
		state.BotFillDelay = 5
	}

	label, err := mh.labelJSON(state)
	if err != nil {
		logger.Error("MatchInit: failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if matchState.Game != nil {
		return state, false, "Hand already in progress"
	}
	if matchState.openSeatCount() <= 0 {
		// A bot seat can still be reclaimed before the hand starts.
		hasBot := false
		for _, seat := range matchState.Seats {
			if bot.IsBot(seat) {
				hasBot = true
				break
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}
		if !assigned {
			for i, seatUserID := range matchState.Seats {
				if bot.IsBot(seatUserID) {
					logger.Info("MatchJoin: replacing bot %s with human %s in seat %d", seatUserID, p.GetUserId(), i)
					delete(matchState.Bots, seatUserID)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: user %s joined but no seat was available.", p.GetUserId())
		}
	}

	if matchState.OwnerSeat < 0 || bot.IsBot(matchState.Seats[matchState.OwnerSeat]) || matchState.Seats[matchState.OwnerSeat] == "" {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		for i, seatUserID := range matchState.Seats {
			if seatUserID == p.GetUserId() {
				// Seats stay assigned during a hand so the ledger keeps its
				// player; an absent player simply stops acting.
				if matchState.Game == nil {
					matchState.Seats[i] = ""
				}
				logger.Debug("MatchLeave: user %s left seat %d.", p.GetUserId(), i)
				break
			}
		}
	}

	matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
	if matchState.humanCount() == 0 {
		logger.Info("MatchLeave: terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpCodeStartGame:
			mh.handleStartGame(matchState, dispatcher, logger, msg)
		case OpCodeAction:
			mh.handleAction(matchState, dispatcher, logger, msg)
		case OpCodeViewRequest:
			mh.sendPlayerView(matchState, dispatcher, logger, msg.GetUserId())
		default:
			logger.Warn("MatchLoop: unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderSeat := state.seatOfUser(msg.GetUserId())
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: user %s is not the owner.", msg.GetUserId())
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "Only the match owner can start the hand.")
		return
	}
	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "A hand is already in progress.")
		return
	}

	var playerSeats []int
	for i, seatUserID := range state.Seats {
		if seatUserID != "" {
			playerSeats = append(playerSeats, i)
		}
	}
	if len(playerSeats) < domain.MinPlayers {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "Not enough players to start.")
		return
	}

	game, events, err := state.Svc.StartGame(len(playerSeats), state.HandSize)
	if err != nil {
		logger.Error("StartGame: %v", err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err.Error())
		return
	}
	state.Game = game
	state.PlayerSeats = playerSeats

	// Point bot agents at their player indices for this hand.
	for player, seat := range playerSeats {
		if agent, ok := state.Bots[state.Seats[seat]]; ok {
			agent.Seat = player
		}
	}

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(state, dispatcher, logger, events)
	logger.Info("StartGame: hand started with %d players.", len(playerSeats))
}

func (mh *matchHandler) handleAction(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "No hand in progress.")
		return
	}
	player := state.playerOfUser(msg.GetUserId())
	if player < 0 {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), "You are not seated in this hand.")
		return
	}

	action, err := decodeAction(msg.GetData(), player)
	if err != nil {
		logger.Warn("handleAction: user %s sent a bad payload: %v", msg.GetUserId(), err)
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err.Error())
		return
	}

	events, err := state.Svc.Act(state.Game, action)
	if err != nil {
		mh.sendError(state, dispatcher, logger, msg.GetUserId(), err.Error())
		return
	}
	mh.broadcastEvents(state, dispatcher, logger, events)
}

// processBots fills a lonely lobby with bots and drives bot turns with a
// randomized think delay.
func (mh *matchHandler) processBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil {
		if state.humanCount() == 1 {
			if state.SoloSinceTick == 0 {
				state.SoloSinceTick = state.Tick
			}
			if state.Tick-state.SoloSinceTick >= int64(state.BotFillDelay) {
				added := false
				for i, seat := range state.Seats {
					if seat != "" {
						continue
					}
					agent, err := bot.NewAgent(i)
					if err != nil {
						logger.Error("processBots: failed to create bot agent: %v", err)
						continue
					}
					state.Seats[i] = agent.ID
					state.Bots[agent.ID] = agent
					logger.Info("processBots: added bot %s to seat %d", agent.Name, i)
					added = true
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastMatchState(state, dispatcher, logger)
				}
				state.SoloSinceTick = 0
			}
		} else {
			state.SoloSinceTick = 0
		}
		return
	}

	if state.Game.Phase == domain.PhaseGameOver {
		return
	}

	currentUserID := state.userOfPlayer(state.Game.CurrentTurn)
	if !bot.IsBot(currentUserID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[currentUserID]
	if !exists {
		logger.Error("processBots: no agent for bot %s", currentUserID)
		return
	}
	events, err := agent.Act(state.Svc, state.Game)
	if err != nil {
		logger.Error("processBots: bot %s failed to act: %v", currentUserID, err)
		return
	}
	mh.broadcastEvents(state, dispatcher, logger, events)
}

// broadcastEvents pushes each event to its recipients and refreshes every
// connected player's redacted view. Private hands never go out broadcast.
func (mh *matchHandler) broadcastEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	gameEnded := false
	for _, ev := range events {
		payload, ok := eventMap(ev, state.Game)
		if !ok {
			logger.Warn("broadcastEvents: unmapped event kind %s", ev.Kind)
			continue
		}
		data, err := marshalPayload(payload)
		if err != nil {
			logger.Error("broadcastEvents: failed to marshal %s: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, player := range ev.Recipients {
				if p, ok := state.Presences[state.userOfPlayer(player)]; ok {
					recipients = append(recipients, p)
				}
			}
			// Targeted events with no connected recipient (bots) must not
			// fall back to a broadcast.
			if len(recipients) == 0 {
				continue
			}
		}
		dispatcher.BroadcastMessage(OpCodeGameEvent, data, recipients, nil, true)

		if ev.Kind == app.EventGameEnded {
			gameEnded = true
		}
	}

	for player := range state.PlayerSeats {
		userID := state.userOfPlayer(player)
		if bot.IsBot(userID) {
			continue
		}
		mh.sendPlayerView(state, dispatcher, logger, userID)
	}

	if gameEnded {
		state.Game = nil
		state.PlayerSeats = nil
		mh.updateLabel(state, dispatcher, logger)
	}
}

// sendPlayerView sends the caller their redacted projection of the game.
func (mh *matchHandler) sendPlayerView(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	presence, ok := state.Presences[userID]
	if !ok || state.Game == nil {
		return
	}
	player := state.playerOfUser(userID)
	view := state.Svc.PlayerView(state.Game, player)
	data, err := marshalPayload(viewMap(view))
	if err != nil {
		logger.Error("sendPlayerView: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpCodePlayerView, data, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	seats := make([]any, len(state.Seats))
	for i, userID := range state.Seats {
		display := userID
		if p, exists := state.Presences[userID]; exists {
			display = p.GetUsername()
		} else if name := bot.BotName(userID); name != "" {
			display = name
		}
		seats[i] = map[string]any{"user_id": userID, "display_name": display, "is_owner": i == state.OwnerSeat}
	}
	data, err := marshalPayload(map[string]any{"seats": seats, "tick": state.Tick})
	if err != nil {
		logger.Error("broadcastMatchState: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpCodeMatchState, data, nil, nil, true)
}

// sendError reports a rejected request to a single user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, message string) {
	data, err := marshalPayload(map[string]any{"message": message})
	if err != nil {
		logger.Error("sendError: failed to marshal: %v", err)
		return
	}
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("sendError: presence %s not found", userID)
		return
	}
	dispatcher.BroadcastMessage(OpCodeGameError, data, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) labelJSON(state *MatchState) (string, error) {
	phase := "lobby"
	if state.Game != nil {
		phase = "playing"
	}
	data, err := marshalPayload(map[string]any{
		"open":  state.openSeatCount(),
		"game":  MatchNameCard51,
		"state": phase,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := mh.labelJSON(state)
	if err != nil {
		logger.Error("updateLabel: failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("updateLabel: failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
