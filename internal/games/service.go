// Package games is the client core for pickup games. Service runs each
// operation against the remote store, maps the returned row, hydrates it
// and emits XP. Coordinator keeps a local collection of games in step with
// those operations, optimistically where the caller asks for it.
package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playperu/pickup/internal/pickup"
	"github.com/playperu/pickup/internal/store"
	"github.com/playperu/pickup/internal/xp"
)

// Remote is the game store. Its rule errors are authoritative and are
// passed through unchanged; anything else surfaces as pickup.ErrRemote.
type Remote interface {
	CreateGame(ctx context.Context, row pickup.GameRow) (pickup.GameRow, error)
	GetGame(ctx context.Context, id string) (pickup.GameRow, error)
	ListGames(ctx context.Context, f store.ListFilter) ([]pickup.GameRow, error)
	UpdateGame(ctx context.Context, gameID, actorID string, patch pickup.RowPatch) (pickup.GameRow, error)
	JoinOrRequestGame(ctx context.Context, gameID, userID string) (pickup.GameRow, pickup.JoinOutcome, error)
	LeaveGame(ctx context.Context, gameID, userID string) (pickup.GameRow, error)
	ToggleCheckIn(ctx context.Context, gameID, userID string, checkedIn bool) (pickup.GameRow, bool, error)
	RespondToRequest(ctx context.Context, gameID, actorID, userID string, approve bool) (pickup.GameRow, error)
	TransitionStatus(ctx context.Context, gameID, actorID string, status pickup.Status) (pickup.GameRow, error)
	SetRunsStarted(ctx context.Context, gameID, actorID string, started bool) (pickup.GameRow, error)
	SubmitVotes(ctx context.Context, gameID, voterID string, votes []pickup.Vote) (pickup.GameRow, []pickup.Vote, error)
}

type Service struct {
	remote  Remote
	hydrate *Hydrator
	xp      xp.Awarder
	logger  *slog.Logger
}

func NewService(remote Remote, profiles ProfileLookup, awarder xp.Awarder, logger *slog.Logger) *Service {
	if awarder == nil {
		awarder = xp.Noop{}
	}
	return &Service{
		remote:  remote,
		hydrate: NewHydrator(profiles, logger),
		xp:      awarder,
		logger:  logger,
	}
}

// remoteErr keeps rule errors and version conflicts as they are and folds
// everything else into ErrRemote.
func remoteErr(err error) error {
	if err == nil || pickup.IsDomain(err) || errors.Is(err, store.ErrConflict) {
		return err
	}
	return fmt.Errorf("%w: %w", pickup.ErrRemote, err)
}

func requireUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user is required", pickup.ErrValidation)
	}
	return nil
}

// finish maps a row returned by the remote and hydrates it.
func (s *Service) finish(ctx context.Context, row pickup.GameRow, err error) (pickup.Game, error) {
	if err != nil {
		return pickup.Game{}, remoteErr(err)
	}
	g, err := pickup.ToDomain(row)
	if err != nil {
		return pickup.Game{}, err
	}
	return s.hydrate.Hydrate(ctx, g), nil
}

func (s *Service) award(ctx context.Context, userID string, ev xp.Event, gameID string) {
	err := s.xp.Award(ctx, xp.Award{UserID: userID, Event: ev, GameID: gameID})
	if err != nil {
		s.logger.Warn("xp award failed", "user_id", userID, "game_id", gameID, "event", string(ev), "error", err)
	}
}

func (s *Service) Create(ctx context.Context, hostID string, in pickup.GameInput) (pickup.Game, error) {
	g, err := pickup.NewGame("", hostID, in)
	if err != nil {
		return pickup.Game{}, err
	}
	row, err := s.remote.CreateGame(ctx, pickup.ToInsertable(g))
	created, err := s.finish(ctx, row, err)
	if err != nil {
		return pickup.Game{}, err
	}
	s.award(ctx, hostID, xp.HostGame, created.ID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (pickup.Game, error) {
	row, err := s.remote.GetGame(ctx, id)
	return s.finish(ctx, row, err)
}

func (s *Service) List(ctx context.Context, f store.ListFilter) ([]pickup.Game, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", pickup.ErrValidation, f.Status)
	}
	rows, err := s.remote.ListGames(ctx, f)
	if err != nil {
		return nil, remoteErr(err)
	}
	out := make([]pickup.Game, 0, len(rows))
	for _, row := range rows {
		g, err := pickup.ToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return s.hydrate.HydrateAll(ctx, out), nil
}

// Update applies a host edit. Only the fields set in p are sent.
func (s *Service) Update(ctx context.Context, gameID, actorID string, p pickup.GamePatch) (pickup.Game, error) {
	if err := requireUser(actorID); err != nil {
		return pickup.Game{}, err
	}
	patch, err := pickup.ToUpdatePatch(p)
	if err != nil {
		return pickup.Game{}, err
	}
	row, err := s.remote.UpdateGame(ctx, gameID, actorID, patch)
	return s.finish(ctx, row, err)
}

// Join adds userID to a public game or files a request on a private one.
// Joining again is a success that changes nothing.
func (s *Service) Join(ctx context.Context, gameID, userID string) (pickup.Game, error) {
	if err := requireUser(userID); err != nil {
		return pickup.Game{}, err
	}
	row, outcome, err := s.remote.JoinOrRequestGame(ctx, gameID, userID)
	g, err := s.finish(ctx, row, err)
	if err != nil {
		return pickup.Game{}, err
	}
	if outcome == pickup.JoinJoined {
		s.award(ctx, userID, xp.JoinGame, gameID)
	}
	return g, nil
}

func (s *Service) Leave(ctx context.Context, gameID, userID string) (pickup.Game, error) {
	if err := requireUser(userID); err != nil {
		return pickup.Game{}, err
	}
	row, err := s.remote.LeaveGame(ctx, gameID, userID)
	return s.finish(ctx, row, err)
}

func (s *Service) RespondToRequest(ctx context.Context, gameID, actorID, userID string, approve bool) (pickup.Game, error) {
	if err := requireUser(actorID); err != nil {
		return pickup.Game{}, err
	}
	if err := requireUser(userID); err != nil {
		return pickup.Game{}, err
	}
	row, err := s.remote.RespondToRequest(ctx, gameID, actorID, userID, approve)
	return s.finish(ctx, row, err)
}

func (s *Service) ToggleCheckIn(ctx context.Context, gameID, userID string, checkedIn bool) (pickup.Game, error) {
	if err := requireUser(userID); err != nil {
		return pickup.Game{}, err
	}
	row, changed, err := s.remote.ToggleCheckIn(ctx, gameID, userID, checkedIn)
	g, err := s.finish(ctx, row, err)
	if err != nil {
		return pickup.Game{}, err
	}
	if checkedIn && changed {
		s.award(ctx, userID, xp.CheckIn, gameID)
	}
	return g, nil
}

// ChangeStatus moves the game through its lifecycle. Ending a game awards
// the host and everyone who checked in.
func (s *Service) ChangeStatus(ctx context.Context, gameID, actorID string, status pickup.Status) (pickup.Game, error) {
	if err := requireUser(actorID); err != nil {
		return pickup.Game{}, err
	}
	if !status.Valid() {
		return pickup.Game{}, fmt.Errorf("%w: unknown status %q", pickup.ErrValidation, status)
	}
	row, err := s.remote.TransitionStatus(ctx, gameID, actorID, status)
	g, err := s.finish(ctx, row, err)
	if err != nil {
		return pickup.Game{}, err
	}
	if status == pickup.StatusFinished {
		s.award(ctx, g.HostID, xp.FinishGame, gameID)
		for _, id := range g.CheckedInIDs {
			if id != g.HostID {
				s.award(ctx, id, xp.FinishGame, gameID)
			}
		}
	}
	return g, nil
}

func (s *Service) GoLive(ctx context.Context, gameID, actorID string) (pickup.Game, error) {
	return s.ChangeStatus(ctx, gameID, actorID, pickup.StatusLive)
}

func (s *Service) End(ctx context.Context, gameID, actorID string) (pickup.Game, error) {
	return s.ChangeStatus(ctx, gameID, actorID, pickup.StatusFinished)
}

func (s *Service) SetRunsStarted(ctx context.Context, gameID, actorID string, started bool) (pickup.Game, error) {
	if err := requireUser(actorID); err != nil {
		return pickup.Game{}, err
	}
	row, err := s.remote.SetRunsStarted(ctx, gameID, actorID, started)
	return s.finish(ctx, row, err)
}

// SubmitVotes records a ballot. Categories the voter already used are
// skipped; a ballot with nothing new returns the game unchanged.
func (s *Service) SubmitVotes(ctx context.Context, gameID, voterID string, votes []pickup.Vote) (pickup.Game, error) {
	if err := requireUser(voterID); err != nil {
		return pickup.Game{}, err
	}
	if err := pickup.ValidateVotes(votes); err != nil {
		return pickup.Game{}, err
	}
	row, accepted, err := s.remote.SubmitVotes(ctx, gameID, voterID, votes)
	g, err := s.finish(ctx, row, err)
	if err != nil {
		return pickup.Game{}, err
	}
	if len(accepted) > 0 {
		s.award(ctx, voterID, xp.PostgameVote, gameID)
	}
	for _, v := range accepted {
		s.award(ctx, v.CandidateID, xp.ReceivedVote, gameID)
	}
	return g, nil
}
