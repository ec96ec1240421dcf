package nakama

import (
	"context"
	"math/rand"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"

	"github.com/eliejerjees/card51/internal/app"
	"github.com/eliejerjees/card51/internal/bot"
	"github.com/eliejerjees/card51/internal/domain"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy
// the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcastCount int
	labelUpdates   int
	lastOpCode     int64
	lastData       []byte
	lastTargets    []runtime.Presence
	opCodeCounts   map[int64]int
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcastCount++
	md.lastOpCode = opCode
	md.lastData = append([]byte(nil), data...)
	md.lastTargets = presences
	if md.opCodeCounts == nil {
		md.opCodeCounts = make(map[int64]int)
	}
	md.opCodeCounts[opCode]++
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	return nil
}

// mockPresence is a minimal runtime.Presence for seat bookkeeping tests.
type mockPresence struct {
	userID   string
	username string
}

func (p mockPresence) GetUserId() string    { return p.userID }
func (p mockPresence) GetSessionId() string { return "session-" + p.userID }
func (p mockPresence) GetNodeId() string    { return "node-1" }
func (p mockPresence) GetHidden() bool      { return false }
func (p mockPresence) GetPersistence() bool { return false }
func (p mockPresence) GetUsername() string  { return p.username }
func (p mockPresence) GetStatus() string    { return "" }
func (p mockPresence) GetReason() runtime.PresenceReason {
	return runtime.PresenceReasonUnknown
}

// mockMatchData wraps a presence with an inbound opcode payload.
type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (m mockMatchData) GetOpCode() int64      { return m.opCode }
func (m mockMatchData) GetData() []byte       { return m.data }
func (m mockMatchData) GetReliable() bool     { return true }
func (m mockMatchData) GetReceiveTime() int64 { return 0 }

func newLobbyState() *MatchState {
	return &MatchState{
		OwnerSeat: -1,
		Presences: make(map[string]runtime.Presence),
		Svc:       app.NewService(rand.New(rand.NewSource(1))),
		HandSize:  domain.DefaultHandSize,
		Bots:      make(map[string]*bot.Agent),
	}
}

func TestFindFirstHumanSeat(t *testing.T) {
	bot1 := bot.IdentityFor(0).ID
	bot2 := bot.IdentityFor(1).ID

	tests := []struct {
		name  string
		seats []string
		want  int
	}{
		{
			name:  "FirstHumanAfterBot",
			seats: []string{bot1, "user-1", "", ""},
			want:  1,
		},
		{
			name:  "AllBots",
			seats: []string{bot1, bot2, "", ""},
			want:  -1,
		},
		{
			name:  "AllEmpty",
			seats: []string{"", "", "", ""},
			want:  -1,
		},
		{
			name:  "FirstHumanIsSeatZero",
			seats: []string{"user-1", bot1, "user-2", ""},
			want:  0,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := findFirstHumanSeat(test.seats); got != test.want {
				t.Fatalf("findFirstHumanSeat() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestMatchJoin_AssignsSeatsAndOwner(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newLobbyState()

	result := handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state,
		[]runtime.Presence{mockPresence{userID: "user-1", username: "Alice"}})
	state = result.(*MatchState)

	if state.Seats[0] != "user-1" {
		t.Fatalf("Seats[0] = %q, want user-1", state.Seats[0])
	}
	if state.OwnerSeat != 0 {
		t.Fatalf("OwnerSeat = %d, want 0", state.OwnerSeat)
	}
	if _, ok := state.Presences["user-1"]; !ok {
		t.Fatalf("Expected presence tracked for user-1")
	}
	if dispatcher.labelUpdates == 0 || dispatcher.opCodeCounts[OpCodeMatchState] == 0 {
		t.Fatalf("Expected label update and match state broadcast after join")
	}

	result = handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state,
		[]runtime.Presence{mockPresence{userID: "user-2", username: "Bob"}})
	state = result.(*MatchState)

	if state.Seats[1] != "user-2" {
		t.Fatalf("Seats[1] = %q, want user-2", state.Seats[1])
	}
	if state.OwnerSeat != 0 {
		t.Fatalf("OwnerSeat = %d after second join, want 0", state.OwnerSeat)
	}
}

func TestMatchJoin_HumanReclaimsBotSeat(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newLobbyState()

	state.Seats = [domain.MaxPlayers]string{"user-1"}
	state.OwnerSeat = 0
	state.Presences["user-1"] = mockPresence{userID: "user-1"}
	for i := 1; i < domain.MaxPlayers; i++ {
		agent, err := bot.NewAgent(i)
		if err != nil {
			t.Fatalf("NewAgent(%d): %v", i, err)
		}
		state.Seats[i] = agent.ID
		state.Bots[agent.ID] = agent
	}
	replaced := state.Seats[1]

	result := handler.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 5, state,
		[]runtime.Presence{mockPresence{userID: "user-2"}})
	state = result.(*MatchState)

	if state.Seats[1] != "user-2" {
		t.Fatalf("Seats[1] = %q, want user-2 to replace the first bot", state.Seats[1])
	}
	if _, stillThere := state.Bots[replaced]; stillThere {
		t.Fatalf("Expected replaced bot %s removed from the agent map", replaced)
	}
	if state.OwnerSeat != 0 {
		t.Fatalf("OwnerSeat = %d, want the original human to keep ownership", state.OwnerSeat)
	}
}

func TestMatchLeave_FreesSeatAndHandsOffOwnership(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newLobbyState()
	state.Seats = [domain.MaxPlayers]string{"user-1", "user-2"}
	state.OwnerSeat = 0
	state.Presences["user-1"] = mockPresence{userID: "user-1"}
	state.Presences["user-2"] = mockPresence{userID: "user-2"}

	result := handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state,
		[]runtime.Presence{mockPresence{userID: "user-1"}})
	state = result.(*MatchState)

	if state.Seats[0] != "" {
		t.Fatalf("Seats[0] = %q, want freed before a hand starts", state.Seats[0])
	}
	if state.OwnerSeat != 1 {
		t.Fatalf("OwnerSeat = %d, want handed to user-2", state.OwnerSeat)
	}
	if _, ok := state.Presences["user-1"]; ok {
		t.Fatalf("Expected presence removed for user-1")
	}

	result = handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 4, state,
		[]runtime.Presence{mockPresence{userID: "user-2"}})
	if result != nil {
		t.Fatalf("Expected match termination once no humans remain, got %T", result)
	}
}

func TestMatchLeave_KeepsSeatDuringHand(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newLobbyState()
	state.Seats = [domain.MaxPlayers]string{"user-1", "user-2"}
	state.OwnerSeat = 0
	state.Presences["user-1"] = mockPresence{userID: "user-1"}
	state.Presences["user-2"] = mockPresence{userID: "user-2"}

	game, _, err := state.Svc.StartGame(2, state.HandSize)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	state.Game = game
	state.PlayerSeats = []int{0, 1}

	result := handler.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 10, state,
		[]runtime.Presence{mockPresence{userID: "user-2"}})
	state = result.(*MatchState)

	if state.Seats[1] != "user-2" {
		t.Fatalf("Seats[1] = %q, want kept while the hand is running", state.Seats[1])
	}
	if _, ok := state.Presences["user-2"]; ok {
		t.Fatalf("Expected presence removed even though the seat is kept")
	}
}

func TestHandleStartGame(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newLobbyState()
	state.Seats = [domain.MaxPlayers]string{"user-1", "user-2"}
	state.OwnerSeat = 0
	state.Presences["user-1"] = mockPresence{userID: "user-1"}
	state.Presences["user-2"] = mockPresence{userID: "user-2"}

	// Only the owner may start.
	handler.handleStartGame(state, dispatcher, noopLogger{},
		mockMatchData{mockPresence: mockPresence{userID: "user-2"}, opCode: OpCodeStartGame})
	if state.Game != nil {
		t.Fatalf("Expected no game after a non-owner start request")
	}
	if dispatcher.opCodeCounts[OpCodeGameError] != 1 {
		t.Fatalf("Expected one error sent to the non-owner, got %d", dispatcher.opCodeCounts[OpCodeGameError])
	}
	if len(dispatcher.lastTargets) != 1 || dispatcher.lastTargets[0].GetUserId() != "user-2" {
		t.Fatalf("Expected the error targeted at user-2 only")
	}

	handler.handleStartGame(state, dispatcher, noopLogger{},
		mockMatchData{mockPresence: mockPresence{userID: "user-1"}, opCode: OpCodeStartGame})
	if state.Game == nil {
		t.Fatalf("Expected a game after the owner start request")
	}
	if len(state.PlayerSeats) != 2 {
		t.Fatalf("PlayerSeats = %v, want both occupied seats", state.PlayerSeats)
	}
	if dispatcher.opCodeCounts[OpCodeGameEvent] == 0 {
		t.Fatalf("Expected game events broadcast after start")
	}
	if dispatcher.opCodeCounts[OpCodePlayerView] != 2 {
		t.Fatalf("Expected a view push per human, got %d", dispatcher.opCodeCounts[OpCodePlayerView])
	}
}

// A targeted event whose recipient has no presence (a bot, or a disconnected
// player) must be dropped, never widened into a broadcast.
func TestBroadcastEvents_DropsOrphanedPrivateEvents(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newLobbyState()
	state.Seats = [domain.MaxPlayers]string{"user-1", bot.IdentityFor(1).ID}
	state.OwnerSeat = 0
	state.Presences["user-1"] = mockPresence{userID: "user-1"}

	game, _, err := state.Svc.StartGame(2, state.HandSize)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	state.Game = game
	state.PlayerSeats = []int{0, 1}

	events := []app.Event{
		{
			Kind:       app.EventHandDealt,
			Payload:    app.HandDealtPayload{Player: 1, Hand: game.CardsOf(game.Players[1].Hand)},
			Recipients: []int{1},
		},
	}
	handler.broadcastEvents(state, dispatcher, noopLogger{}, events)

	if dispatcher.opCodeCounts[OpCodeGameEvent] != 0 {
		t.Fatalf("Expected the orphaned private event dropped, got %d game event broadcasts", dispatcher.opCodeCounts[OpCodeGameEvent])
	}
	if dispatcher.opCodeCounts[OpCodePlayerView] != 1 {
		t.Fatalf("Expected one view push for the connected human, got %d", dispatcher.opCodeCounts[OpCodePlayerView])
	}
}

func TestBroadcastEvents_TargetsConnectedRecipient(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newLobbyState()
	state.Seats = [domain.MaxPlayers]string{"user-1", "user-2"}
	state.OwnerSeat = 0
	state.Presences["user-1"] = mockPresence{userID: "user-1"}
	state.Presences["user-2"] = mockPresence{userID: "user-2"}

	game, _, err := state.Svc.StartGame(2, state.HandSize)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	state.Game = game
	state.PlayerSeats = []int{0, 1}

	events := []app.Event{
		{
			Kind:       app.EventHandDealt,
			Payload:    app.HandDealtPayload{Player: 0, Hand: game.CardsOf(game.Players[0].Hand)},
			Recipients: []int{0},
		},
	}
	handler.broadcastEvents(state, dispatcher, noopLogger{}, events)

	if dispatcher.opCodeCounts[OpCodeGameEvent] != 1 {
		t.Fatalf("Expected one targeted game event, got %d", dispatcher.opCodeCounts[OpCodeGameEvent])
	}
	if dispatcher.opCodeCounts[OpCodePlayerView] != 2 {
		t.Fatalf("Expected a view push per connected human, got %d", dispatcher.opCodeCounts[OpCodePlayerView])
	}
}

func TestBroadcastEvents_ClearsFinishedGame(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newLobbyState()
	state.Seats = [domain.MaxPlayers]string{"user-1", "user-2"}
	state.OwnerSeat = 0
	state.Presences["user-1"] = mockPresence{userID: "user-1"}
	state.Presences["user-2"] = mockPresence{userID: "user-2"}

	game, _, err := state.Svc.StartGame(2, state.HandSize)
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	state.Game = game
	state.PlayerSeats = []int{0, 1}
	labelsBefore := dispatcher.labelUpdates

	events := []app.Event{
		{Kind: app.EventGameEnded, Payload: app.GameEndedPayload{Winner: 0}},
	}
	handler.broadcastEvents(state, dispatcher, noopLogger{}, events)

	if state.Game != nil || state.PlayerSeats != nil {
		t.Fatalf("Expected game state cleared after the game ended event")
	}
	if dispatcher.labelUpdates != labelsBefore+1 {
		t.Fatalf("Expected a label update back to lobby, got %d", dispatcher.labelUpdates-labelsBefore)
	}
	if dispatcher.opCodeCounts[OpCodeGameEvent] != 1 {
		t.Fatalf("Expected the game ended event broadcast, got %d", dispatcher.opCodeCounts[OpCodeGameEvent])
	}
}
