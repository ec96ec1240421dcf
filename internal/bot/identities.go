package bot

import (
	"fmt"
	"strings"
)

// Identity names a bot seat. Bots are match-local and never authenticated,
// so a static pool is enough.
type Identity struct {
	ID   string
	Name string
}

var pool = []Identity{
	{ID: "bot-rami", Name: "Rami"},
	{ID: "bot-jo", Name: "Jo"},
	{ID: "bot-sam", Name: "Sam"},
	{ID: "bot-nadia", Name: "Nadia"},
}

// IdentityFor returns an identity for a seat index.
func IdentityFor(seat int) Identity {
	if seat >= 0 && seat < len(pool) {
		return pool[seat]
	}
	return Identity{ID: fmt.Sprintf("bot-%d", seat), Name: fmt.Sprintf("AI Player %d", seat)}
}

// IsBot reports whether the given user ID belongs to a bot seat.
func IsBot(userID string) bool {
	return strings.HasPrefix(userID, "bot-")
}

// BotName returns the display name for a bot ID, or "".
func BotName(userID string) string {
	for _, id := range pool {
		if id.ID == userID {
			return id.Name
		}
	}
	if IsBot(userID) {
		return strings.TrimPrefix(userID, "bot-")
	}
	return ""
}
