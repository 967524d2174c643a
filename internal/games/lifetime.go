package games

import "sync/atomic"

// Lifetime marks whether the consumer of a Coordinator is still around.
// Once ended, results arriving from in-flight operations are returned to
// the caller but no longer applied to the collection or announced.
type Lifetime struct {
	ended atomic.Bool
}

func NewLifetime() *Lifetime { return &Lifetime{} }

func (l *Lifetime) End() { l.ended.Store(true) }

// Alive is true for a nil Lifetime.
func (l *Lifetime) Alive() bool { return l == nil || !l.ended.Load() }
