package xp

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Async hands awards to next on a separate goroutine and returns at once.
// Errors from next are logged at warn level.
type Async struct {
	next    Awarder
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewAsync(next Awarder, timeout time.Duration, logger *slog.Logger) *Async {
	return &Async{next: next, timeout: timeout, logger: logger}
}

// Award never fails. The award outlives ctx's cancellation but not the
// configured timeout.
func (a *Async) Award(ctx context.Context, aw Award) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		if err := a.next.Award(ctx, aw); err != nil {
			a.logger.Warn("xp award failed",
				"user_id", aw.UserID,
				"game_id", aw.GameID,
				"event", string(aw.Event),
				"error", err,
			)
		}
	}()
	return nil
}

// Wait blocks until every award handed out so far has finished.
func (a *Async) Wait() { a.wg.Wait() }
