// Package xp awards experience points for game activity. Awarding is
// fire-and-forget from the caller's point of view: failures are logged and
// never reach the game operation that produced the event.
package xp

import (
	"context"
	"fmt"
)

type Event string

const (
	HostGame     Event = "host_game"
	JoinGame     Event = "join_game"
	CheckIn      Event = "check_in"
	FinishGame   Event = "finish_game"
	PostgameVote Event = "postgame_vote"
	ReceivedVote Event = "received_vote"
)

var points = map[Event]int64{
	HostGame:     50,
	JoinGame:     10,
	CheckIn:      20,
	FinishGame:   30,
	PostgameVote: 5,
	ReceivedVote: 15,
}

// Points is zero for unknown events.
func (e Event) Points() int64 { return points[e] }

func (e Event) Valid() bool {
	_, ok := points[e]
	return ok
}

type Award struct {
	UserID string
	Event  Event
	GameID string
}

func (a Award) validate() error {
	if a.UserID == "" {
		return fmt.Errorf("xp award %s has no user", a.Event)
	}
	if !a.Event.Valid() {
		return fmt.Errorf("unknown xp event %q", a.Event)
	}
	return nil
}

type Awarder interface {
	Award(ctx context.Context, a Award) error
}

// Noop drops every award. Used when no Redis is configured.
type Noop struct{}

func (Noop) Award(context.Context, Award) error { return nil }
