package games

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/playperu/pickup/internal/database"
	"github.com/playperu/pickup/internal/migrations"
	"github.com/playperu/pickup/internal/pickup"
	"github.com/playperu/pickup/internal/store"
	"github.com/playperu/pickup/internal/xp"
)

var (
	kickoff   = time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC)
	errBroken = errors.New("connection reset")
	quiet     = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func gameInput(maxPlayers int, private bool) pickup.GameInput {
	return pickup.GameInput{
		Sport:      "basketball",
		Title:      "Friday run",
		DateTime:   kickoff,
		Duration:   90,
		MaxPlayers: maxPlayers,
		IsPrivate:  private,
		Location:   pickup.Location{Latitude: 40.73, Longitude: -73.99, AreaName: "West 4th"},
	}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(ctx, db))
	return store.New(db, store.DefaultRetries)
}

// profiles creates one profile per username and returns their ids in order.
func profiles(t *testing.T, s *store.Store, usernames ...string) []string {
	t.Helper()
	ids := make([]string, len(usernames))
	for i, name := range usernames {
		u, err := s.CreateProfile(context.Background(), name, "", "")
		require.NoError(t, err)
		ids[i] = u.ID
	}
	return ids
}

type awards struct {
	mu  sync.Mutex
	got []xp.Award
}

func (a *awards) Award(_ context.Context, aw xp.Award) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.got = append(a.got, aw)
	return nil
}

func (a *awards) count(userID string, ev xp.Event) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, aw := range a.got {
		if aw.UserID == userID && aw.Event == ev {
			n++
		}
	}
	return n
}

// brokenRemote fails every call that is not overridden.
type brokenRemote struct {
	Remote
	calls int
}

func (b *brokenRemote) CreateGame(context.Context, pickup.GameRow) (pickup.GameRow, error) {
	b.calls++
	return pickup.GameRow{}, errBroken
}

func (b *brokenRemote) SubmitVotes(context.Context, string, string, []pickup.Vote) (pickup.GameRow, []pickup.Vote, error) {
	b.calls++
	return pickup.GameRow{}, nil, errBroken
}

type brokenProfiles struct {
	host, players error
	inner         ProfileLookup
}

func (b brokenProfiles) FetchProfileByID(ctx context.Context, id string) (*pickup.User, error) {
	if b.host != nil {
		return nil, b.host
	}
	return b.inner.FetchProfileByID(ctx, id)
}

func (b brokenProfiles) FetchProfilesByIDs(ctx context.Context, ids []string) ([]pickup.User, error) {
	if b.players != nil {
		return nil, b.players
	}
	return b.inner.FetchProfilesByIDs(ctx, ids)
}
