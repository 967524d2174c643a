package pickup

import (
	"fmt"
	"time"
)

// transitions is the full status matrix. scheduled -> finished is the
// explicit shortcut for a host closing a game that never went live.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusLive, StatusFinished},
	StatusLive:      {StatusFinished},
	StatusFinished:  {},
}

// Transition validates a requested status change. It is the only way a
// status is ever written.
func Transition(current, requested Status, isHost bool) (Status, error) {
	if !isHost {
		return current, fmt.Errorf("%w: only the host can change the game status", ErrNotAuthorized)
	}
	if !requested.Valid() {
		return current, fmt.Errorf("%w: unknown status %q", ErrValidation, requested)
	}
	for _, next := range transitions[current] {
		if next == requested {
			return requested, nil
		}
	}
	return current, fmt.Errorf("%w: cannot go from %s to %s", ErrInvalidTransition, current, requested)
}

// ChangeStatus applies a validated transition to g. Finishing stamps
// EndedAt with now and always stops runs.
func ChangeStatus(g Game, actorID string, requested Status, now time.Time) (Game, error) {
	status, err := Transition(g.Status, requested, g.IsHost(actorID))
	if err != nil {
		return g, err
	}
	next := g.Clone()
	next.Status = status
	if status == StatusFinished {
		ended := now.UTC()
		next.EndedAt = &ended
		next.RunsStarted = false
	}
	return next, nil
}

// SetRunsStarted flips the runs flag. Host only, and only while live.
func SetRunsStarted(g Game, actorID string, started bool) (Game, error) {
	if !g.IsHost(actorID) {
		return g, fmt.Errorf("%w: only the host can start or stop runs", ErrNotAuthorized)
	}
	if g.Status != StatusLive {
		return g, fmt.Errorf("%w: runs can only change while the game is live", ErrInvalidTransition)
	}
	next := g.Clone()
	next.RunsStarted = started
	return next, nil
}

// ToggleCheckIn sets or clears the actor's own check-in. It is not gated by
// status so players can check in before the host goes live. Repeating the
// same toggle is a no-op; changed reports whether anything moved.
func ToggleCheckIn(g Game, actorID string, checkedIn bool) (next Game, changed bool, err error) {
	if !g.IsPlayer(actorID) && !g.IsHost(actorID) {
		return g, false, ErrNotAMember
	}
	if g.IsCheckedIn(actorID) == checkedIn {
		return g, false, nil
	}
	next = g.Clone()
	if checkedIn {
		next.CheckedInIDs = with(next.CheckedInIDs, actorID)
	} else {
		next.CheckedInIDs = without(next.CheckedInIDs, actorID)
	}
	return next, true, nil
}
