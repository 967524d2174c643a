package games

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/pickup/internal/pickup"
)

// ProfileLookup resolves user profiles for display. A missing profile is
// (nil, nil), not an error.
type ProfileLookup interface {
	FetchProfileByID(ctx context.Context, id string) (*pickup.User, error)
	FetchProfilesByIDs(ctx context.Context, ids []string) ([]pickup.User, error)
}

// Hydrator attaches Host and Players to games. It never fails: a lookup
// that errors leaves the matching field empty and is logged.
type Hydrator struct {
	profiles ProfileLookup
	logger   *slog.Logger
}

func NewHydrator(profiles ProfileLookup, logger *slog.Logger) *Hydrator {
	return &Hydrator{profiles: profiles, logger: logger}
}

func (h *Hydrator) Hydrate(ctx context.Context, g pickup.Game) pickup.Game {
	out := g.Clone()
	out.Host = nil
	out.Players = nil
	if h.profiles == nil {
		return out
	}

	var (
		host    *pickup.User
		players []pickup.User
		eg      errgroup.Group
	)
	eg.Go(func() error {
		u, err := h.profiles.FetchProfileByID(ctx, g.HostID)
		if err != nil {
			return fmt.Errorf("host lookup: %w", err)
		}
		host = u
		return nil
	})
	eg.Go(func() error {
		users, err := h.profiles.FetchProfilesByIDs(ctx, g.PlayerIDs)
		if err != nil {
			return fmt.Errorf("players lookup: %w", err)
		}
		players = inOrder(g.PlayerIDs, index(users))
		return nil
	})
	if err := eg.Wait(); err != nil {
		h.logger.Warn("hydration incomplete", "game_id", g.ID, "error", err)
	}

	out.Host = host
	out.Players = players
	return out
}

// HydrateAll resolves every host and player across games with one batch
// lookup.
func (h *Hydrator) HydrateAll(ctx context.Context, games []pickup.Game) []pickup.Game {
	out := make([]pickup.Game, len(games))
	for i, g := range games {
		out[i] = g.Clone()
		out[i].Host = nil
		out[i].Players = nil
	}
	if h.profiles == nil || len(games) == 0 {
		return out
	}

	seen := map[string]bool{}
	var ids []string
	for _, g := range games {
		for _, id := range append([]string{g.HostID}, g.PlayerIDs...) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := h.profiles.FetchProfilesByIDs(ctx, ids)
	if err != nil {
		h.logger.Warn("hydration skipped", "games", len(games), "error", err)
		return out
	}
	byID := index(users)
	for i := range out {
		if u, ok := byID[out[i].HostID]; ok {
			out[i].Host = &u
		}
		out[i].Players = inOrder(out[i].PlayerIDs, byID)
	}
	return out
}

func index(users []pickup.User) map[string]pickup.User {
	m := make(map[string]pickup.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}

// inOrder returns the known users in the order of ids.
func inOrder(ids []string, byID map[string]pickup.User) []pickup.User {
	out := make([]pickup.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out
}
