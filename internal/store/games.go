package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playperu/pickup/internal/pickup"
)

// CreateGame stores a new game. The store assigns the id, version and
// creation time; the row must describe a freshly scheduled game.
func (s *Store) CreateGame(ctx context.Context, row pickup.GameRow) (pickup.GameRow, error) {
	if row.Status == "" {
		row.Status = string(pickup.StatusScheduled)
	}
	if row.Status != string(pickup.StatusScheduled) {
		return pickup.GameRow{}, fmt.Errorf("%w: new games start scheduled", pickup.ErrValidation)
	}
	if row.MaxPlayers < 2 {
		return pickup.GameRow{}, fmt.Errorf("%w: max players must be at least 2", pickup.ErrValidation)
	}
	row.ID = newID()
	row.Version = 1
	row.CreatedAt = s.timestamp()
	row.PlayerIDs = []string{row.HostID}
	row.PendingRequestIDs = nil
	row.CheckedInIDs = nil
	row.RunsStarted = false
	row.EndedAt = nil
	row.PostGameVotes = nil
	row.PostGameVoters = nil

	g, err := pickup.ToDomain(row)
	if err != nil {
		return pickup.GameRow{}, err
	}
	out := pickup.ToRow(g)
	if err := s.insert(ctx, out); err != nil {
		return pickup.GameRow{}, fmt.Errorf("inserting game: %w", err)
	}
	return out, nil
}

type ListFilter struct {
	Status   pickup.Status
	Sport    string
	HostID   string
	PlayerID string
	From     time.Time
	Limit    int
	Offset   int
}

func (s *Store) ListGames(ctx context.Context, f ListFilter) ([]pickup.GameRow, error) {
	var where []string
	var args []any

	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Sport != "" {
		where = append(where, "sport = ?")
		args = append(args, f.Sport)
	}
	if f.HostID != "" {
		where = append(where, "host_id = ?")
		args = append(args, f.HostID)
	}
	if f.PlayerID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(games.data, '$.player_ids') WHERE json_each.value = ?)")
		args = append(args, f.PlayerID)
	}
	if !f.From.IsZero() {
		where = append(where, "date_time >= ?")
		args = append(args, columnTime(f.From))
	}

	query := `SELECT json(data), version FROM games`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date_time, id"
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []pickup.GameRow{}
	for rows.Next() {
		row, err := scanGame(rows.Scan)
		if err != nil {
			return nil, err
		}
		games = append(games, row)
	}
	return games, rows.Err()
}

func (s *Store) UpdateGame(ctx context.Context, gameID, actorID string, patch pickup.RowPatch) (pickup.GameRow, error) {
	return s.modify(ctx, gameID, func(g pickup.Game) (pickup.Game, bool, error) {
		next, err := pickup.Edit(g, actorID, patch)
		return next, err == nil, err
	})
}

// JoinOrRequestGame adds the user to a public game or files a join request
// on a private one. The outcome is decided inside the swap, so concurrent
// joins by the same user see exactly one JoinJoined.
func (s *Store) JoinOrRequestGame(ctx context.Context, gameID, userID string) (pickup.GameRow, pickup.JoinOutcome, error) {
	outcome := pickup.JoinNoop
	row, err := s.modify(ctx, gameID, func(g pickup.Game) (pickup.Game, bool, error) {
		next, got, err := pickup.Join(g, userID)
		outcome = got
		return next, got != pickup.JoinNoop, err
	})
	if err != nil {
		return pickup.GameRow{}, pickup.JoinNoop, err
	}
	return row, outcome, nil
}

func (s *Store) LeaveGame(ctx context.Context, gameID, userID string) (pickup.GameRow, error) {
	return s.modify(ctx, gameID, func(g pickup.Game) (pickup.Game, bool, error) {
		return pickup.Leave(g, userID)
	})
}

// ToggleCheckIn reports whether the stored check-ins changed.
func (s *Store) ToggleCheckIn(ctx context.Context, gameID, userID string, checkedIn bool) (pickup.GameRow, bool, error) {
	var changed bool
	row, err := s.modify(ctx, gameID, func(g pickup.Game) (pickup.Game, bool, error) {
		next, ok, err := pickup.ToggleCheckIn(g, userID, checkedIn)
		changed = ok
		return next, ok, err
	})
	if err != nil {
		return pickup.GameRow{}, false, err
	}
	return row, changed, nil
}

// RespondToRequest approves or denies a pending join request.
func (s *Store) RespondToRequest(ctx context.Context, gameID, actorID, userID string, approve bool) (pickup.GameRow, error) {
	return s.modify(ctx, gameID, func(g pickup.Game) (pickup.Game, bool, error) {
		if approve {
			return pickup.Approve(g, actorID, userID)
		}
		return pickup.Deny(g, actorID, userID)
	})
}

func (s *Store) TransitionStatus(ctx context.Context, gameID, actorID string, status pickup.Status) (pickup.GameRow, error) {
	return s.modify(ctx, gameID, func(g pickup.Game) (pickup.Game, bool, error) {
		next, err := pickup.ChangeStatus(g, actorID, status, s.now())
		return next, err == nil, err
	})
}

func (s *Store) SetRunsStarted(ctx context.Context, gameID, actorID string, started bool) (pickup.GameRow, error) {
	return s.modify(ctx, gameID, func(g pickup.Game) (pickup.Game, bool, error) {
		next, err := pickup.SetRunsStarted(g, actorID, started)
		return next, err == nil && next.RunsStarted != g.RunsStarted, err
	})
}

// SubmitVotes records a voter's ballot. Tally and ledger live in the same
// row, so they are always swapped in together. The returned votes are the
// ones that counted.
func (s *Store) SubmitVotes(ctx context.Context, gameID, voterID string, votes []pickup.Vote) (pickup.GameRow, []pickup.Vote, error) {
	var accepted []pickup.Vote
	row, err := s.modify(ctx, gameID, func(g pickup.Game) (pickup.Game, bool, error) {
		next, got, err := pickup.SubmitVotes(g, voterID, votes)
		if err != nil {
			return g, false, err
		}
		if len(got) > 0 {
			if err := pickup.CheckTally(next); err != nil {
				return g, false, err
			}
		}
		accepted = got
		return next, len(got) > 0, nil
	})
	if err != nil {
		return pickup.GameRow{}, nil, err
	}
	return row, accepted, nil
}
