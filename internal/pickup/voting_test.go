package pickup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedGame(t *testing.T, players ...string) Game {
	t.Helper()
	g := newTestGame(t, len(players)+1, false)
	for _, p := range players {
		var err error
		g, _, err = Join(g, p)
		require.NoError(t, err)
	}
	g, err := ChangeStatus(g, "host", StatusFinished, kickoff)
	require.NoError(t, err)
	return g
}

func TestVoteTallyFirstVoteWins(t *testing.T) {
	g := finishedGame(t, "v1", "v2", "p1", "p2")

	g, accepted, err := SubmitVotes(g, "v1", []Vote{{BestScorer, "p1"}})
	require.NoError(t, err)
	assert.Len(t, accepted, 1)

	g, _, err = SubmitVotes(g, "v2", []Vote{{BestScorer, "p1"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"p1": 2}, g.PostGameVotes[BestScorer])

	before := g.Clone()
	g, accepted, err = SubmitVotes(g, "v1", []Vote{{BestScorer, "p2"}})
	require.NoError(t, err)
	assert.Empty(t, accepted)
	assert.Equal(t, map[string]int{"p1": 2}, g.PostGameVotes[BestScorer])
	assert.Equal(t, before.PostGameVoters, g.PostGameVoters)
	assert.Equal(t, "p1", g.PostGameVoters["v1"][BestScorer])
}

func TestResubmitIsNoop(t *testing.T) {
	g := finishedGame(t, "v1", "p1")
	votes := []Vote{{BestShooter, "p1"}, {BestDefender, "host"}}

	g, _, err := SubmitVotes(g, "v1", votes)
	require.NoError(t, err)
	before := g.Clone()

	g, accepted, err := SubmitVotes(g, "v1", votes)
	require.NoError(t, err)
	assert.Empty(t, accepted)
	assert.Equal(t, before.PostGameVotes, g.PostGameVotes)
	assert.Equal(t, before.PostGameVoters, g.PostGameVoters)
}

func TestPartialResubmitAcceptsOnlyNewCategories(t *testing.T) {
	g := finishedGame(t, "v1", "p1", "p2")

	g, _, err := SubmitVotes(g, "v1", []Vote{{BestPasser, "p1"}})
	require.NoError(t, err)
	g, accepted, err := SubmitVotes(g, "v1", []Vote{{BestPasser, "p2"}, {BestAllAround, "p2"}})
	require.NoError(t, err)

	assert.Equal(t, []Vote{{BestAllAround, "p2"}}, accepted)
	assert.Equal(t, map[string]int{"p1": 1}, g.PostGameVotes[BestPasser])
	assert.Equal(t, map[string]int{"p2": 1}, g.PostGameVotes[BestAllAround])
}

func TestDuplicateCategoryInOneSubmission(t *testing.T) {
	g := finishedGame(t, "v1", "p1", "p2")

	g, accepted, err := SubmitVotes(g, "v1", []Vote{{BestScorer, "p1"}, {BestScorer, "p2"}})
	require.NoError(t, err)
	assert.Equal(t, []Vote{{BestScorer, "p1"}}, accepted)
	assert.Equal(t, 1, g.PostGameVotes.Total(BestScorer))
}

func TestSelfVoteAllowed(t *testing.T) {
	g := finishedGame(t, "v1")
	g, accepted, err := SubmitVotes(g, "v1", []Vote{{BestShooter, "v1"}})
	require.NoError(t, err)
	assert.Len(t, accepted, 1)
	assert.Equal(t, 1, g.PostGameVotes[BestShooter]["v1"])
}

func TestVoteRejections(t *testing.T) {
	g := finishedGame(t, "v1", "p1")

	_, _, err := SubmitVotes(g, "v1", []Vote{{VoteCategory("best_dunker"), "p1"}})
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = SubmitVotes(g, "v1", []Vote{{BestScorer, " "}})
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = SubmitVotes(g, "stranger", []Vote{{BestScorer, "p1"}})
	require.ErrorIs(t, err, ErrNotAMember)

	open := newTestGame(t, 4, false)
	_, _, err = SubmitVotes(open, "host", []Vote{{BestScorer, "host"}})
	require.ErrorIs(t, err, ErrValidation)
}

func TestTallyMatchesLedger(t *testing.T) {
	voters := []string{"a", "b", "c", "d", "e", "f"}
	g := finishedGame(t, voters...)

	for round := 0; round < 3; round++ {
		for i, v := range voters {
			var votes []Vote
			for j, c := range Categories {
				if (i+j+round)%2 == 0 {
					votes = append(votes, Vote{c, voters[(i+j+round)%len(voters)]})
				}
			}
			var err error
			g, _, err = SubmitVotes(g, v, votes)
			require.NoError(t, err)

			for _, c := range Categories {
				require.Equal(t, g.PostGameVoters.voters(c), g.PostGameVotes.Total(c), fmt.Sprintf("category %s", c))
			}
			require.Equal(t, g.PostGameVoters.Recount(), g.PostGameVotes)
			require.NoError(t, CheckTally(g))
		}
	}
}

func TestCheckTallyDetectsDrift(t *testing.T) {
	g := finishedGame(t, "a", "b")
	g, _, err := SubmitVotes(g, "a", []Vote{{BestScorer, "b"}})
	require.NoError(t, err)
	require.NoError(t, CheckTally(g))

	extra := g.Clone()
	extra.PostGameVotes[BestScorer]["b"]++
	require.ErrorIs(t, CheckTally(extra), ErrDataIntegrity)

	missing := g.Clone()
	delete(missing.PostGameVoters, "a")
	require.ErrorIs(t, CheckTally(missing), ErrDataIntegrity)

	zeroes := g.Clone()
	zeroes.PostGameVotes[BestPasser]["a"] = 0
	require.NoError(t, CheckTally(zeroes))
}

func TestLeaders(t *testing.T) {
	tally := EmptyTally()
	tally[BestScorer] = map[string]int{"p2": 3, "p1": 3, "p3": 1}
	tally[BestDefender] = map[string]int{"p3": 2}

	got := Leaders(tally)
	assert.Equal(t, []Leader{
		{Category: BestScorer, CandidateID: "p1", Votes: 3},
		{Category: BestDefender, CandidateID: "p3", Votes: 2},
	}, got)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" best_passer ")
	require.NoError(t, err)
	assert.Equal(t, BestPasser, c)

	_, err = ParseCategory("mvp")
	require.ErrorIs(t, err, ErrValidation)
}

// voters is the number of voters who cast category c.
func (l Ledger) voters(c VoteCategory) int {
	n := 0
	for _, picks := range l {
		if _, ok := picks[c]; ok {
			n++
		}
	}
	return n
}
