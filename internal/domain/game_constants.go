package domain

const (
	// MinPlayers and MaxPlayers bound a single hand of Card 51.
	MinPlayers = 2
	MaxPlayers = 4

	// DeckSize is the fixed population: two 52-card decks plus two jokers.
	DeckSize = 106

	// DefaultHandSize is the number of cards dealt to each player.
	DefaultHandSize = 14

	// OpenThreshold is the combined point value a player's first meld(s)
	// must reach.
	OpenThreshold = 51

	// MinMeldSize applies to sets and runs alike; MaxSetSize caps a set at
	// one card per suit plus jokers.
	MinMeldSize = 3
	MaxSetSize  = 4
)
