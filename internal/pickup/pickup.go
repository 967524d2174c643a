// Package pickup defines the game domain: entities, the persisted row
// shape and the pure rules for membership, lifecycle and post-game voting.
// It does no I/O; the store and the client core both apply these rules.
package pickup

import (
	"slices"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinished  Status = "finished"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusFinished:
		return true
	}
	return false
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AreaName  string  `json:"areaName"`
}

// User is the profile shape attached to a game for display.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

type Game struct {
	ID                string     `json:"id"`
	HostID            string     `json:"hostId"`
	Sport             string     `json:"sport"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	DateTime          time.Time  `json:"dateTime"`
	Duration          int        `json:"duration"`
	SkillRequirement  string     `json:"skillRequirement"`
	MaxPlayers        int        `json:"maxPlayers"`
	PlayerIDs         []string   `json:"playerIds"`
	PendingRequestIDs []string   `json:"pendingRequestIds"`
	IsPrivate         bool       `json:"isPrivate"`
	Status            Status     `json:"status"`
	CheckedInIDs      []string   `json:"checkedInIds"`
	RunsStarted       bool       `json:"runsStarted"`
	EndedAt           *time.Time `json:"endedAt,omitempty"`
	PostGameVotes     Tally      `json:"postGameVotes"`
	PostGameVoters    Ledger     `json:"postGameVoters"`
	Location          Location   `json:"location"`
	CreatedAt         time.Time  `json:"createdAt"`
	Version           int64      `json:"version"`

	// Denormalized for display. Never consulted by the rules in this package.
	Host    *User  `json:"host,omitempty"`
	Players []User `json:"players,omitempty"`
}

// EntityID lets Game live in a games.Collection.
func (g Game) EntityID() string { return g.ID }

// Clone returns a deep copy; mutating the copy never touches g.
func (g Game) Clone() Game {
	c := g
	c.PlayerIDs = slices.Clone(g.PlayerIDs)
	c.PendingRequestIDs = slices.Clone(g.PendingRequestIDs)
	c.CheckedInIDs = slices.Clone(g.CheckedInIDs)
	c.PostGameVotes = g.PostGameVotes.Clone()
	c.PostGameVoters = g.PostGameVoters.Clone()
	if g.EndedAt != nil {
		t := *g.EndedAt
		c.EndedAt = &t
	}
	if g.Host != nil {
		h := *g.Host
		c.Host = &h
	}
	c.Players = slices.Clone(g.Players)
	return c
}

func (g Game) IsHost(userID string) bool { return userID != "" && userID == g.HostID }

func (g Game) IsPlayer(userID string) bool { return slices.Contains(g.PlayerIDs, userID) }

func (g Game) IsPending(userID string) bool { return slices.Contains(g.PendingRequestIDs, userID) }

func (g Game) IsCheckedIn(userID string) bool { return slices.Contains(g.CheckedInIDs, userID) }

func (g Game) IsFull() bool { return len(g.PlayerIDs) >= g.MaxPlayers }

// dedupe keeps the first occurrence of each non-empty id.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func without(ids []string, id string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(s string) bool { return s == id })
}

func with(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return slices.Clone(ids)
	}
	return append(slices.Clone(ids), id)
}
