package pickup

import (
	"fmt"
	"maps"
	"sort"
	"strings"
)

type VoteCategory string

const (
	BestShooter   VoteCategory = "best_shooter"
	BestPasser    VoteCategory = "best_passer"
	BestAllAround VoteCategory = "best_all_around"
	BestScorer    VoteCategory = "best_scorer"
	BestDefender  VoteCategory = "best_defender"
)

// Categories lists every vote category in display order.
var Categories = []VoteCategory{BestShooter, BestPasser, BestAllAround, BestScorer, BestDefender}

func (c VoteCategory) Valid() bool {
	switch c {
	case BestShooter, BestPasser, BestAllAround, BestScorer, BestDefender:
		return true
	}
	return false
}

func ParseCategory(s string) (VoteCategory, error) {
	c := VoteCategory(strings.TrimSpace(s))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown vote category %q", ErrValidation, s)
	}
	return c, nil
}

// Tally maps a category to candidate id to vote count.
type Tally map[VoteCategory]map[string]int

// Ledger maps a voter id to the candidate they picked in each category.
type Ledger map[string]map[VoteCategory]string

// EmptyTally has an empty bucket for every category.
func EmptyTally() Tally {
	t := make(Tally, len(Categories))
	for _, c := range Categories {
		t[c] = map[string]int{}
	}
	return t
}

func (t Tally) Clone() Tally {
	if t == nil {
		return nil
	}
	c := make(Tally, len(t))
	for k, v := range t {
		c[k] = maps.Clone(v)
	}
	return c
}

// Total is the number of votes cast in category c.
func (t Tally) Total(c VoteCategory) int {
	n := 0
	for _, v := range t[c] {
		n += v
	}
	return n
}

func (l Ledger) Clone() Ledger {
	if l == nil {
		return nil
	}
	c := make(Ledger, len(l))
	for k, v := range l {
		c[k] = maps.Clone(v)
	}
	return c
}

// HasVoted reports whether voter already cast category c.
func (l Ledger) HasVoted(voterID string, c VoteCategory) bool {
	_, ok := l[voterID][c]
	return ok
}

// Recount derives the tally implied by the ledger.
func (l Ledger) Recount() Tally {
	t := EmptyTally()
	for _, picks := range l {
		for c, candidate := range picks {
			if t[c] == nil {
				t[c] = map[string]int{}
			}
			t[c][candidate]++
		}
	}
	return t
}

// CheckTally reports ErrDataIntegrity when g's tally disagrees with the
// ledger it was counted from. Zero counts are ignored.
func CheckTally(g Game) error {
	want := g.PostGameVoters.Recount()
	for _, c := range Categories {
		if !sameCounts(want[c], g.PostGameVotes[c]) {
			return integrity("game %s tally for %s does not match its voters", g.ID, c)
		}
	}
	for c := range g.PostGameVotes {
		if !c.Valid() {
			return integrity("game %s has unknown vote category %q", g.ID, c)
		}
	}
	return nil
}

func sameCounts(a, b map[string]int) bool {
	for id, n := range a {
		if b[id] != n {
			return false
		}
	}
	for id, n := range b {
		if a[id] != n {
			return false
		}
	}
	return true
}

type Vote struct {
	Category    VoteCategory `json:"category"`
	CandidateID string       `json:"candidateId"`
}

// ValidateVotes rejects unknown categories and blank candidates before any
// vote is applied.
func ValidateVotes(votes []Vote) error {
	for _, v := range votes {
		if !v.Category.Valid() {
			return fmt.Errorf("%w: unknown vote category %q", ErrValidation, v.Category)
		}
		if strings.TrimSpace(v.CandidateID) == "" {
			return fmt.Errorf("%w: candidate is required for %s", ErrValidation, v.Category)
		}
	}
	return nil
}

// SubmitVotes records voter's first vote in each category and returns the
// updated game with the votes that were accepted. Categories the voter has
// already cast are skipped, as are repeats within votes; if nothing is
// accepted the game comes back unchanged and accepted is empty.
func SubmitVotes(g Game, voterID string, votes []Vote) (Game, []Vote, error) {
	if voterID == "" {
		return g, nil, fmt.Errorf("%w: voter is required", ErrValidation)
	}
	if err := ValidateVotes(votes); err != nil {
		return g, nil, err
	}
	if g.Status != StatusFinished {
		return g, nil, fmt.Errorf("%w: voting opens once the game has finished", ErrValidation)
	}
	if !g.IsPlayer(voterID) {
		return g, nil, ErrNotAMember
	}

	var accepted []Vote
	seen := make(map[VoteCategory]bool, len(votes))
	for _, v := range votes {
		if seen[v.Category] || g.PostGameVoters.HasVoted(voterID, v.Category) {
			continue
		}
		seen[v.Category] = true
		accepted = append(accepted, v)
	}
	if len(accepted) == 0 {
		return g, nil, nil
	}

	next := g.Clone()
	if next.PostGameVotes == nil {
		next.PostGameVotes = EmptyTally()
	}
	if next.PostGameVoters == nil {
		next.PostGameVoters = Ledger{}
	}
	if next.PostGameVoters[voterID] == nil {
		next.PostGameVoters[voterID] = map[VoteCategory]string{}
	}
	for _, v := range accepted {
		if next.PostGameVotes[v.Category] == nil {
			next.PostGameVotes[v.Category] = map[string]int{}
		}
		next.PostGameVotes[v.Category][v.CandidateID]++
		next.PostGameVoters[voterID][v.Category] = v.CandidateID
	}
	return next, accepted, nil
}

type Leader struct {
	Category    VoteCategory `json:"category"`
	CandidateID string       `json:"candidateId"`
	Votes       int          `json:"votes"`
}

// Leaders picks the top candidate per category. Ties go to the lowest
// candidate id; categories without votes are omitted.
func Leaders(t Tally) []Leader {
	var out []Leader
	for _, c := range Categories {
		counts := t[c]
		if len(counts) == 0 {
			continue
		}
		ids := make([]string, 0, len(counts))
		for id := range counts {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		best := Leader{Category: c}
		for _, id := range ids {
			if counts[id] > best.Votes {
				best.CandidateID, best.Votes = id, counts[id]
			}
		}
		if best.Votes > 0 {
			out = append(out, best)
		}
	}
	return out
}
