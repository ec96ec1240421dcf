package domain

import (
	"errors"
	"sort"
)

// ErrInvalidMeld is returned when a card group satisfies neither the set
// rules nor the run rules under either ace mode.
var ErrInvalidMeld = errors.New("Cards do not form a valid set or run.")

// MeldLayout is the canonical interpretation of a card group: the kind it
// validated as, the canonical card order and the committed joker identities.
// Validating the same unordered group twice always yields the same layout.
type MeldLayout struct {
	Kind       MeldKind
	AceMode    AceMode
	OrderedIDs []CardID
	JokerMap   map[CardID]CardFace
}

// ValidateMeld decides whether cards form a legal meld. Interpretations are
// tried in a fixed order: set, then run with the ace low, then run with the
// ace high. The first interpretation that fits wins.
func ValidateMeld(cards []Card) (*MeldLayout, error) {
	if len(cards) == 0 {
		return nil, ErrInvalidMeld
	}
	if layout := validateSet(cards); layout != nil {
		return layout, nil
	}
	for _, mode := range []AceMode{AceLow, AceHigh} {
		if layout := validateRun(cards, mode); layout != nil {
			return layout, nil
		}
	}
	return nil, ErrInvalidMeld
}

// MeldPoints sums the point values of a card group. Jokers count zero.
func MeldPoints(cards []Card) int {
	sum := 0
	for _, c := range cards {
		sum += c.Value()
	}
	return sum
}

// splitJokers separates a group into natural cards and jokers. Jokers come
// back sorted by ascending CardID, which is the assignment order everywhere.
func splitJokers(cards []Card) (naturals, jokers []Card) {
	for _, c := range cards {
		if c.IsJoker() {
			jokers = append(jokers, c)
		} else {
			naturals = append(naturals, c)
		}
	}
	sort.Slice(jokers, func(i, j int) bool { return jokers[i].ID < jokers[j].ID })
	return naturals, jokers
}

// validateSet checks the same-rank interpretation: 3-4 cards, naturals all
// one rank with pairwise distinct suits, jokers standing in for the missing
// suits. Returns nil if the group is not a set.
func validateSet(cards []Card) *MeldLayout {
	if len(cards) < MinMeldSize || len(cards) > MaxSetSize {
		return nil
	}
	naturals, jokers := splitJokers(cards)
	if len(naturals) == 0 {
		return nil
	}

	rank := naturals[0].Rank
	present := make(map[Suit]bool, len(naturals))
	for _, c := range naturals {
		if c.Rank != rank {
			return nil
		}
		if present[c.Suit] {
			return nil
		}
		present[c.Suit] = true
	}
	// A joker may not duplicate a suit already present, and no two jokers
	// may take the same suit.
	if len(present)+len(jokers) != len(cards) {
		return nil
	}

	var missing []Suit
	for _, s := range suitCycle {
		if !present[s] {
			missing = append(missing, s)
		}
	}
	if len(jokers) > len(missing) {
		return nil
	}

	sort.Slice(naturals, func(i, j int) bool {
		return suitOrder(naturals[i].Suit) < suitOrder(naturals[j].Suit)
	})

	ordered := make([]CardID, 0, len(cards))
	for _, c := range naturals {
		ordered = append(ordered, c.ID)
	}
	jokerMap := make(map[CardID]CardFace, len(jokers))
	for i, j := range jokers {
		jokerMap[j.ID] = CardFace{Suit: missing[i], Rank: rank}
		ordered = append(ordered, j.ID)
	}

	return &MeldLayout{Kind: MeldSet, OrderedIDs: ordered, JokerMap: jokerMap}
}

// validateRun checks the same-suit interpretation under one ace mode: at
// least 3 cards of one suit occupying a contiguous rank window, jokers
// filling the window's holes. Returns nil if the group is not a run under
// this mode.
func validateRun(cards []Card, mode AceMode) *MeldLayout {
	size := len(cards)
	if size < MinMeldSize {
		return nil
	}
	naturals, jokers := splitJokers(cards)
	if len(naturals) == 0 {
		return nil
	}

	suit := naturals[0].Suit
	byIndex := make(map[int]Card, len(naturals))
	for _, c := range naturals {
		if c.Suit != suit {
			return nil
		}
		idx := RankIndex(c.Rank, mode)
		if _, dup := byIndex[idx]; dup {
			return nil
		}
		byIndex[idx] = c
	}

	lo, hi := 2, 14
	if mode == AceLow {
		lo, hi = 1, 13
	}

	// Smallest start whose window [start, start+size-1] contains every
	// natural index and leaves no more holes than there are jokers.
	start := -1
	for s := lo; s+size-1 <= hi; s++ {
		inside := 0
		for idx := range byIndex {
			if idx >= s && idx <= s+size-1 {
				inside++
			}
		}
		if inside == len(naturals) && size-inside <= len(jokers) {
			start = s
			break
		}
	}
	if start < 0 {
		return nil
	}

	ordered := make([]CardID, 0, size)
	jokerMap := make(map[CardID]CardFace, len(jokers))
	next := 0
	for idx := start; idx < start+size; idx++ {
		if c, ok := byIndex[idx]; ok {
			ordered = append(ordered, c.ID)
			continue
		}
		if next >= len(jokers) {
			return nil
		}
		j := jokers[next]
		next++
		jokerMap[j.ID] = CardFace{Suit: suit, Rank: rankAtIndex(idx, mode)}
		ordered = append(ordered, j.ID)
	}
	// Surplus jokers cannot extend the run past its window.
	if next != len(jokers) {
		return nil
	}

	return &MeldLayout{Kind: MeldRun, AceMode: mode, OrderedIDs: ordered, JokerMap: jokerMap}
}
