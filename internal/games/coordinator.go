package games

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/playperu/pickup/internal/pickup"
	"github.com/playperu/pickup/internal/store"
)

// TempIDPrefix marks ids of games that exist only locally.
const TempIDPrefix = "temp-"

func IsProvisional(id string) bool { return strings.HasPrefix(id, TempIDPrefix) }

func newTempID() string { return TempIDPrefix + uuid.NewString() }

// Operations is the set of game operations a Coordinator drives. *Service
// implements it.
type Operations interface {
	Create(ctx context.Context, hostID string, in pickup.GameInput) (pickup.Game, error)
	List(ctx context.Context, f store.ListFilter) ([]pickup.Game, error)
	Update(ctx context.Context, gameID, actorID string, p pickup.GamePatch) (pickup.Game, error)
	Join(ctx context.Context, gameID, userID string) (pickup.Game, error)
	Leave(ctx context.Context, gameID, userID string) (pickup.Game, error)
	RespondToRequest(ctx context.Context, gameID, actorID, userID string, approve bool) (pickup.Game, error)
	ToggleCheckIn(ctx context.Context, gameID, userID string, checkedIn bool) (pickup.Game, error)
	ChangeStatus(ctx context.Context, gameID, actorID string, status pickup.Status) (pickup.Game, error)
	SetRunsStarted(ctx context.Context, gameID, actorID string, started bool) (pickup.Game, error)
	SubmitVotes(ctx context.Context, gameID, voterID string, votes []pickup.Vote) (pickup.Game, error)
}

// Optimistic shows provisional in c right away, then runs commit. On
// success the committed entity takes the provisional one's place; on
// failure c is restored to exactly what it held before. Nothing is applied
// once life has ended.
func Optimistic[T Entity[T]](ctx context.Context, c *Collection[T], life *Lifetime, provisional T, commit func(context.Context) (T, error)) (T, error) {
	before := c.Snapshot()
	c.Upsert(provisional)

	got, err := commit(ctx)
	if !life.Alive() {
		return got, err
	}
	if err != nil {
		c.Restore(before)
		var zero T
		return zero, err
	}
	c.Replace(provisional.EntityID(), got)
	return got, nil
}

// Coordinator owns the client's game collection. Every change to it goes
// through one of its methods.
type Coordinator struct {
	ops    Operations
	games  *Collection[pickup.Game]
	notify Notifier
	life   *Lifetime
}

func NewCoordinator(ops Operations, notify Notifier, life *Lifetime) *Coordinator {
	return &Coordinator{
		ops:    ops,
		games:  NewCollection[pickup.Game](),
		notify: notify,
		life:   life,
	}
}

func (c *Coordinator) Games() []pickup.Game { return c.games.Snapshot() }

func (c *Coordinator) Game(id string) (pickup.Game, bool) { return c.games.Get(id) }

func (c *Coordinator) report(op, ok string, err error) {
	if c.notify == nil || !c.life.Alive() {
		return
	}
	if err != nil {
		c.notify.Notify(failure(op, err))
		return
	}
	if ok != "" {
		c.notify.Notify(Notice{Op: op, Message: ok})
	}
}

// Load replaces the collection with the games matching f.
func (c *Coordinator) Load(ctx context.Context, f store.ListFilter) error {
	games, err := c.ops.List(ctx, f)
	if err == nil && c.life.Alive() {
		c.games.Restore(games)
	}
	c.report("load", "", err)
	return err
}

// Create shows a provisional game hosted by hostID at once and swaps in the
// stored game when the store confirms it.
func (c *Coordinator) Create(ctx context.Context, hostID string, in pickup.GameInput) (pickup.Game, error) {
	provisional, err := pickup.NewGame(newTempID(), hostID, in)
	if err != nil {
		c.report("create", "", err)
		return pickup.Game{}, err
	}
	g, err := Optimistic(ctx, c.games, c.life, provisional, func(ctx context.Context) (pickup.Game, error) {
		return c.ops.Create(ctx, hostID, in)
	})
	c.report("create", "Game created", err)
	return g, err
}

// Update applies the edit locally first when the game is held, and rolls
// it back if the store refuses.
func (c *Coordinator) Update(ctx context.Context, gameID, actorID string, p pickup.GamePatch) (pickup.Game, error) {
	commit := func(ctx context.Context) (pickup.Game, error) {
		return c.ops.Update(ctx, gameID, actorID, p)
	}
	current, ok := c.games.Get(gameID)
	if !ok {
		return c.apply(ctx, "update", "Game updated", commit)
	}

	patch, err := pickup.ToUpdatePatch(p)
	if err == nil {
		current, err = pickup.Edit(current, actorID, patch)
	}
	if err != nil {
		c.report("update", "", err)
		return pickup.Game{}, err
	}
	g, err := Optimistic(ctx, c.games, c.life, current, commit)
	c.report("update", "Game updated", err)
	return g, err
}

// apply runs call and replaces the game's entry with the result.
func (c *Coordinator) apply(ctx context.Context, op, ok string, call func(context.Context) (pickup.Game, error)) (pickup.Game, error) {
	g, err := call(ctx)
	if err == nil && c.life.Alive() {
		c.games.Upsert(g)
	}
	c.report(op, ok, err)
	return g, err
}

func (c *Coordinator) Join(ctx context.Context, gameID, userID string) (pickup.Game, error) {
	g, err := c.ops.Join(ctx, gameID, userID)
	if err == nil && c.life.Alive() {
		c.games.Upsert(g)
	}
	msg := "You're in"
	if err == nil && g.IsPending(userID) {
		msg = "Request sent to the host"
	}
	c.report("join", msg, err)
	return g, err
}

func (c *Coordinator) Leave(ctx context.Context, gameID, userID string) (pickup.Game, error) {
	return c.apply(ctx, "leave", "You left the game", func(ctx context.Context) (pickup.Game, error) {
		return c.ops.Leave(ctx, gameID, userID)
	})
}

func (c *Coordinator) RespondToRequest(ctx context.Context, gameID, actorID, userID string, approve bool) (pickup.Game, error) {
	msg := "Request denied"
	if approve {
		msg = "Request approved"
	}
	return c.apply(ctx, "respond", msg, func(ctx context.Context) (pickup.Game, error) {
		return c.ops.RespondToRequest(ctx, gameID, actorID, userID, approve)
	})
}

func (c *Coordinator) ToggleCheckIn(ctx context.Context, gameID, userID string, checkedIn bool) (pickup.Game, error) {
	msg := "Check-in removed"
	if checkedIn {
		msg = "Checked in"
	}
	return c.apply(ctx, "check_in", msg, func(ctx context.Context) (pickup.Game, error) {
		return c.ops.ToggleCheckIn(ctx, gameID, userID, checkedIn)
	})
}

func (c *Coordinator) GoLive(ctx context.Context, gameID, actorID string) (pickup.Game, error) {
	return c.apply(ctx, "go_live", "Game is live", func(ctx context.Context) (pickup.Game, error) {
		return c.ops.ChangeStatus(ctx, gameID, actorID, pickup.StatusLive)
	})
}

func (c *Coordinator) End(ctx context.Context, gameID, actorID string) (pickup.Game, error) {
	return c.apply(ctx, "end", "Game finished", func(ctx context.Context) (pickup.Game, error) {
		return c.ops.ChangeStatus(ctx, gameID, actorID, pickup.StatusFinished)
	})
}

func (c *Coordinator) SetRunsStarted(ctx context.Context, gameID, actorID string, started bool) (pickup.Game, error) {
	return c.apply(ctx, "runs", "", func(ctx context.Context) (pickup.Game, error) {
		return c.ops.SetRunsStarted(ctx, gameID, actorID, started)
	})
}

func (c *Coordinator) SubmitVotes(ctx context.Context, gameID, voterID string, votes []pickup.Vote) (pickup.Game, error) {
	return c.apply(ctx, "vote", "Votes submitted", func(ctx context.Context) (pickup.Game, error) {
		return c.ops.SubmitVotes(ctx, gameID, voterID, votes)
	})
}
