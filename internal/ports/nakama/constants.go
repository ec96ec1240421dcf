package nakama

// MatchNameCard51 is the registered authoritative match handler name.
const MatchNameCard51 = "card51"

// Client -> server opcodes.
const (
	OpCodeStartGame   int64 = 1
	OpCodeAction      int64 = 2
	OpCodeViewRequest int64 = 3
)

// Server -> client opcodes.
const (
	OpCodeMatchState int64 = 10
	OpCodeGameEvent  int64 = 11
	OpCodePlayerView int64 = 12
	OpCodeGameError  int64 = 13
)
