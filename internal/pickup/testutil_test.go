package pickup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var kickoff = time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC)

func newTestGame(t *testing.T, maxPlayers int, private bool) Game {
	t.Helper()
	g, err := NewGame("g1", "host", GameInput{
		Sport:      "basketball",
		Title:      "Friday run",
		DateTime:   kickoff,
		Duration:   90,
		MaxPlayers: maxPlayers,
		IsPrivate:  private,
		Location:   Location{Latitude: 40.7, Longitude: -73.9, AreaName: "West 4th"},
	})
	require.NoError(t, err)
	return g
}
