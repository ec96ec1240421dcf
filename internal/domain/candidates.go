package domain

import "sort"

// Candidate is a hand subset that validates as a meld, reported with its
// point value. Candidates are advisory: they surface legal choices to an
// actor and are never consulted when validating an already-chosen group.
type Candidate struct {
	CardIDs []CardID
	Kind    MeldKind
	AceMode AceMode
	Points  int
}

// FindMelds enumerates every subset of the hand, from size 3 up to the whole
// hand, that validates as a set or run. The search is the standard
// choose-without-replacement recursion in ascending index order, so no
// subset is produced twice. Worst-case exponential, acceptable because hands
// stay under ~20 cards.
func FindMelds(hand []Card) []Candidate {
	var out []Candidate
	cur := make([]Card, 0, len(hand))
	for size := MinMeldSize; size <= len(hand); size++ {
		combine(hand, size, 0, cur, &out)
	}
	return out
}

func combine(hand []Card, size, start int, cur []Card, out *[]Candidate) {
	if len(cur) == size {
		layout, err := ValidateMeld(cur)
		if err != nil {
			return
		}
		ids := make([]CardID, len(layout.OrderedIDs))
		copy(ids, layout.OrderedIDs)
		*out = append(*out, Candidate{
			CardIDs: ids,
			Kind:    layout.Kind,
			AceMode: layout.AceMode,
			Points:  MeldPoints(cur),
		})
		return
	}
	for i := start; i < len(hand); i++ {
		cur = append(cur, hand[i])
		combine(hand, size, i+1, cur, out)
		cur = cur[:len(cur)-1]
	}
}

// FindOpening looks for a disjoint combination of candidates worth at least
// threshold points. When mustInclude names a real card the combination must
// cover it. The search is greedy by descending points, which is good enough
// for an advisory opening suggestion; it does not prove no opening exists.
func FindOpening(hand []Card, mustInclude CardID, threshold int) ([]Candidate, bool) {
	candidates := FindMelds(hand)
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Points != candidates[j].Points {
			return candidates[i].Points > candidates[j].Points
		}
		return len(candidates[i].CardIDs) < len(candidates[j].CardIDs)
	})

	var picked []Candidate
	used := make(map[CardID]bool, len(hand))
	total := 0
	pick := func(cand Candidate) bool {
		// Opening may never empty the hand: a discard must remain.
		if len(used)+len(cand.CardIDs) >= len(hand) {
			return false
		}
		for _, id := range cand.CardIDs {
			if used[id] {
				return false
			}
		}
		picked = append(picked, cand)
		for _, id := range cand.CardIDs {
			used[id] = true
		}
		total += cand.Points
		return true
	}

	if mustInclude != NoCard {
		seeded := false
		for _, cand := range candidates {
			if containsID(cand.CardIDs, mustInclude) && pick(cand) {
				seeded = true
				break
			}
		}
		if !seeded {
			return nil, false
		}
	}
	for _, cand := range candidates {
		if total >= threshold {
			break
		}
		pick(cand)
	}

	if total < threshold {
		return nil, false
	}
	return picked, true
}

func containsID(ids []CardID, id CardID) bool {
	for _, cid := range ids {
		if cid == id {
			return true
		}
	}
	return false
}
