package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/playperu/pickup/internal/games"
	"github.com/playperu/pickup/internal/pickup"
	"github.com/playperu/pickup/internal/store"
)

// SeedDemo creates three demo profiles with sessions and one public game
// the other two have joined, if no profiles exist yet. The game is built
// through a Coordinator the way a client would, with notices going to the
// log. The session tokens are logged so the API can be tried straight away.
func SeedDemo(ctx context.Context, logger *slog.Logger, st *store.Store, ops games.Operations) error {
	n, err := st.CountProfiles(ctx)
	if err != nil {
		return fmt.Errorf("counting profiles: %w", err)
	}
	if n > 0 {
		return nil
	}

	demo := []struct{ username, name string }{
		{"marisol", "Marisol Quispe"},
		{"dante", "Dante Rojas"},
		{"kei", "Kei Tanaka"},
	}
	ids := make([]string, 0, len(demo))
	for _, d := range demo {
		u, err := st.CreateProfile(ctx, d.username, d.name, "")
		if err != nil {
			return err
		}
		token, err := st.CreateSession(ctx, u.ID)
		if err != nil {
			return err
		}
		ids = append(ids, u.ID)
		logger.Info("demo profile created", "username", u.Username, "user_id", u.ID, "token", token)
	}

	life := games.NewLifetime()
	defer life.End()
	coord := games.NewCoordinator(ops, games.LogNotifier{Logger: logger}, life)

	g, err := coord.Create(ctx, ids[0], pickup.GameInput{
		Sport:            "basketball",
		Title:            "Sunday run at Parque Kennedy",
		Description:      "Full court, first to 21.",
		DateTime:         time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour),
		Duration:         120,
		SkillRequirement: "intermediate",
		MaxPlayers:       10,
		Location: pickup.Location{
			Latitude:  -12.1211,
			Longitude: -77.0297,
			AreaName:  "Miraflores",
		},
	})
	if err != nil {
		return fmt.Errorf("creating demo game: %w", err)
	}
	for _, id := range ids[1:] {
		if g, err = coord.Join(ctx, g.ID, id); err != nil {
			return fmt.Errorf("joining demo game: %w", err)
		}
	}

	logger.Info("demo data seeded", "game_id", g.ID, "players", len(g.PlayerIDs), "games", len(coord.Games()))
	return nil
}
