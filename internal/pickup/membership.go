package pickup

import "fmt"

type JoinOutcome string

const (
	JoinNoop      JoinOutcome = "noop"
	JoinJoined    JoinOutcome = "joined"
	JoinRequested JoinOutcome = "requested"
)

// Join adds userID to a public game, or files a request on a private one.
// Both paths are idempotent. Capacity is only checked when a player is
// actually added; private requests are accepted on a full game and checked
// again on approval.
func Join(g Game, userID string) (Game, JoinOutcome, error) {
	if userID == "" {
		return g, JoinNoop, fmt.Errorf("%w: user is required", ErrValidation)
	}
	if g.IsPlayer(userID) || g.IsHost(userID) {
		return g, JoinNoop, nil
	}
	if g.Status == StatusFinished {
		return g, JoinNoop, fmt.Errorf("%w: this game has already finished", ErrInvalidTransition)
	}
	if g.IsPrivate {
		if g.IsPending(userID) {
			return g, JoinNoop, nil
		}
		next := g.Clone()
		next.PendingRequestIDs = with(next.PendingRequestIDs, userID)
		return next, JoinRequested, nil
	}
	if g.IsFull() {
		return g, JoinNoop, fmt.Errorf("%w: %d of %d spots taken", ErrGameFull, len(g.PlayerIDs), g.MaxPlayers)
	}
	next := g.Clone()
	next.PlayerIDs = with(next.PlayerIDs, userID)
	next.PendingRequestIDs = without(next.PendingRequestIDs, userID)
	return next, JoinJoined, nil
}

// Leave drops userID from the players, pending requests and check-ins.
// Leaving a game you are not part of is a no-op.
func Leave(g Game, userID string) (next Game, changed bool, err error) {
	if g.IsHost(userID) {
		return g, false, ErrHostCannotLeave
	}
	if !g.IsPlayer(userID) && !g.IsPending(userID) && !g.IsCheckedIn(userID) {
		return g, false, nil
	}
	next = g.Clone()
	next.PlayerIDs = without(next.PlayerIDs, userID)
	next.PendingRequestIDs = without(next.PendingRequestIDs, userID)
	next.CheckedInIDs = without(next.CheckedInIDs, userID)
	return next, true, nil
}

// Approve moves a pending request into the players, subject to capacity.
func Approve(g Game, actorID, userID string) (Game, bool, error) {
	if !g.IsHost(actorID) {
		return g, false, fmt.Errorf("%w: only the host can approve requests", ErrNotAuthorized)
	}
	if g.IsPlayer(userID) {
		return g, false, nil
	}
	if !g.IsPending(userID) {
		return g, false, fmt.Errorf("%w: no pending request from %s", ErrValidation, userID)
	}
	if g.IsFull() {
		return g, false, fmt.Errorf("%w: %d of %d spots taken", ErrGameFull, len(g.PlayerIDs), g.MaxPlayers)
	}
	next := g.Clone()
	next.PendingRequestIDs = without(next.PendingRequestIDs, userID)
	next.PlayerIDs = with(next.PlayerIDs, userID)
	return next, true, nil
}

// Deny drops a pending request. Denying a request that is not there is a no-op.
func Deny(g Game, actorID, userID string) (Game, bool, error) {
	if !g.IsHost(actorID) {
		return g, false, fmt.Errorf("%w: only the host can deny requests", ErrNotAuthorized)
	}
	if !g.IsPending(userID) {
		return g, false, nil
	}
	next := g.Clone()
	next.PendingRequestIDs = without(next.PendingRequestIDs, userID)
	return next, true, nil
}
