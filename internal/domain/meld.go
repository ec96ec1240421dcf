package domain

import "github.com/google/uuid"

// MeldKind distinguishes same-rank sets from same-suit runs.
type MeldKind string

const (
	MeldSet MeldKind = "SET"
	MeldRun MeldKind = "RUN"
)

// CardFace is the suit/rank a joker currently represents inside a meld. The
// mapping is committed when the meld is validated, so later extensions and
// joker swaps know exactly what each joker "is" without re-deriving it.
type CardFace struct {
	Suit Suit
	Rank Rank
}

// Meld is a validated set or run lying face-up on the table. CardIDs are in
// canonical order and every joker among them has a JokerMap entry.
type Meld struct {
	ID       uuid.UUID
	Owner    int
	CardIDs  []CardID
	Kind     MeldKind
	AceMode  AceMode // meaningful only when Kind == MeldRun
	JokerMap map[CardID]CardFace
}

// setLayout replaces the meld's canonical fields after a revalidation.
func (m *Meld) setLayout(layout *MeldLayout) {
	m.CardIDs = layout.OrderedIDs
	m.Kind = layout.Kind
	m.AceMode = layout.AceMode
	m.JokerMap = layout.JokerMap
}

// contains reports whether the meld holds the given card.
func (m *Meld) contains(id CardID) bool {
	for _, cid := range m.CardIDs {
		if cid == id {
			return true
		}
	}
	return false
}
