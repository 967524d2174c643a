// Package store is the remote game store: the games table plus the atomic
// procedures that join, leave, check in, transition and vote. Every
// mutation is a compare-and-swap on the row version and is retried when a
// concurrent writer got there first.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/pickup/internal/pickup"
)

var (
	ErrConflict  = errors.New("game was changed by someone else, try again")
	ErrNoSession = errors.New("no valid session")
)

const DefaultRetries = 3

// columnLayout is the date_time column format. It is fixed width so text
// comparison and ORDER BY follow time order; the JSON document keeps
// pickup.TimeLayout.
const columnLayout = "2006-01-02T15:04:05.000000000Z"

func columnTime(t time.Time) string { return t.UTC().Format(columnLayout) }

// dateColumn converts a row's date_time into its column form.
func dateColumn(row pickup.GameRow) (string, error) {
	t, err := time.Parse(pickup.TimeLayout, row.DateTime)
	if err != nil {
		return "", fmt.Errorf("%w: game %s has malformed date %q", pickup.ErrDataIntegrity, row.ID, row.DateTime)
	}
	return columnTime(t), nil
}

type Store struct {
	db      *sql.DB
	retries int
	now     func() time.Time

	// beforeSwap runs between the read and the compare-and-swap of a
	// mutation. Tests use it to inject a competing writer.
	beforeSwap func(ctx context.Context, gameID string)
}

func New(db *sql.DB, retries int) *Store {
	if retries < 0 {
		retries = 0
	}
	return &Store{db: db, retries: retries, now: time.Now}
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) timestamp() string {
	return s.now().UTC().Format(pickup.TimeLayout)
}

func scanGame(scan func(dest ...any) error) (pickup.GameRow, error) {
	var data string
	var version int64
	if err := scan(&data, &version); err != nil {
		return pickup.GameRow{}, err
	}
	var row pickup.GameRow
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		return pickup.GameRow{}, fmt.Errorf("decoding game: %w", err)
	}
	row.Version = version
	return row, nil
}

func (s *Store) GetGame(ctx context.Context, id string) (pickup.GameRow, error) {
	row, err := scanGame(s.db.QueryRowContext(ctx,
		`SELECT json(data), version FROM games WHERE id = ?`, id,
	).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return pickup.GameRow{}, pickup.ErrNotFound
	}
	return row, err
}

func (s *Store) insert(ctx context.Context, row pickup.GameRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	at, err := dateColumn(row)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games (id, host_id, sport, status, date_time, version, data)
		VALUES (?, ?, ?, ?, ?, ?, jsonb(?))
	`, row.ID, row.HostID, row.Sport, row.Status, at, row.Version, string(data))
	return err
}

// swap writes row if the stored version still equals expected.
func (s *Store) swap(ctx context.Context, row pickup.GameRow, expected int64) (bool, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return false, err
	}
	at, err := dateColumn(row)
	if err != nil {
		return false, err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE games SET host_id = ?, sport = ?, status = ?, date_time = ?, version = ?, data = jsonb(?)
		WHERE id = ? AND version = ?
	`, row.HostID, row.Sport, row.Status, at, row.Version, string(data), row.ID, expected)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// mutation returns the next state of a game and whether anything changed.
type mutation func(g pickup.Game) (pickup.Game, bool, error)

// modify reads a game, applies fn and swaps the result in. Rule errors are
// returned as is; a lost race is retried from a fresh read.
func (s *Store) modify(ctx context.Context, id string, fn mutation) (pickup.GameRow, error) {
	for attempt := 0; attempt <= s.retries; attempt++ {
		row, err := s.GetGame(ctx, id)
		if err != nil {
			return pickup.GameRow{}, err
		}
		g, err := pickup.ToDomain(row)
		if err != nil {
			return pickup.GameRow{}, err
		}

		next, changed, err := fn(g)
		if err != nil {
			return pickup.GameRow{}, err
		}
		if !changed {
			return pickup.ToRow(g), nil
		}

		if s.beforeSwap != nil {
			s.beforeSwap(ctx, id)
		}

		next.Version = row.Version + 1
		out := pickup.ToRow(next)
		ok, err := s.swap(ctx, out, row.Version)
		if err != nil {
			return pickup.GameRow{}, err
		}
		if ok {
			return out, nil
		}
	}
	return pickup.GameRow{}, fmt.Errorf("%w: game %s after %d attempts", ErrConflict, id, s.retries+1)
}

func newID() string { return uuid.NewString() }
