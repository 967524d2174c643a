package pickup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionMatrix(t *testing.T) {
	tests := []struct {
		from, to Status
		host     bool
		wantErr  error
	}{
		{StatusScheduled, StatusLive, true, nil},
		{StatusScheduled, StatusFinished, true, nil},
		{StatusLive, StatusFinished, true, nil},
		{StatusLive, StatusScheduled, true, ErrInvalidTransition},
		{StatusFinished, StatusLive, true, ErrInvalidTransition},
		{StatusFinished, StatusScheduled, true, ErrInvalidTransition},
		{StatusFinished, StatusFinished, true, ErrInvalidTransition},
		{StatusScheduled, StatusScheduled, true, ErrInvalidTransition},
		{StatusScheduled, StatusLive, false, ErrNotAuthorized},
		{StatusLive, StatusFinished, false, ErrNotAuthorized},
		{StatusScheduled, Status("paused"), true, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := Transition(tt.from, tt.to, tt.host)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got)
		})
	}
}

func TestFinishedNeverReverts(t *testing.T) {
	g := newTestGame(t, 4, false)
	g, err := ChangeStatus(g, "host", StatusLive, kickoff)
	require.NoError(t, err)
	g, err = ChangeStatus(g, "host", StatusFinished, kickoff)
	require.NoError(t, err)

	for _, s := range []Status{StatusScheduled, StatusLive, StatusFinished} {
		for _, actor := range []string{"host", "someone"} {
			next, err := ChangeStatus(g, actor, s, kickoff)
			require.Error(t, err)
			assert.Equal(t, StatusFinished, next.Status)
		}
	}
}

func TestEndingStopsRuns(t *testing.T) {
	g := newTestGame(t, 4, false)
	g, err := ChangeStatus(g, "host", StatusLive, kickoff)
	require.NoError(t, err)
	g, err = SetRunsStarted(g, "host", true)
	require.NoError(t, err)
	require.True(t, g.RunsStarted)

	now := kickoff.Add(95 * time.Minute)
	g, err = ChangeStatus(g, "host", StatusFinished, now)
	require.NoError(t, err)

	assert.Equal(t, StatusFinished, g.Status)
	assert.False(t, g.RunsStarted)
	require.NotNil(t, g.EndedAt)
	assert.True(t, g.EndedAt.Equal(now))
}

func TestRunsOnlyWhileLive(t *testing.T) {
	g := newTestGame(t, 4, false)

	_, err := SetRunsStarted(g, "host", true)
	require.ErrorIs(t, err, ErrInvalidTransition)

	g, err = ChangeStatus(g, "host", StatusLive, kickoff)
	require.NoError(t, err)
	_, err = SetRunsStarted(g, "guest", true)
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestCheckInBeforeLive(t *testing.T) {
	g := newTestGame(t, 4, false)
	g, _, _ = Join(g, "a")

	g, changed, err := ToggleCheckIn(g, "a", true)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"a"}, g.CheckedInIDs)

	g, changed, err = ToggleCheckIn(g, "a", true)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []string{"a"}, g.CheckedInIDs)

	g, changed, err = ToggleCheckIn(g, "a", false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, g.CheckedInIDs)
}

func TestCheckInRequiresMembership(t *testing.T) {
	g := newTestGame(t, 4, true)
	g, _, _ = Join(g, "pending")

	_, _, err := ToggleCheckIn(g, "pending", true)
	require.ErrorIs(t, err, ErrNotAMember)

	_, _, err = ToggleCheckIn(g, "host", true)
	require.NoError(t, err)
}

func TestCheckInsSurviveFinish(t *testing.T) {
	g := newTestGame(t, 4, false)
	g, _, _ = Join(g, "a")
	g, _, _ = ToggleCheckIn(g, "a", true)
	g, err := ChangeStatus(g, "host", StatusLive, kickoff)
	require.NoError(t, err)
	g, err = ChangeStatus(g, "host", StatusFinished, kickoff)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, g.CheckedInIDs)
}
