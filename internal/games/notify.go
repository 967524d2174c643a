package games

import (
	"log/slog"

	"github.com/playperu/pickup/internal/pickup"
)

// Notice is what the client shows the user after an operation. Kind is
// KindNone on success.
type Notice struct {
	Op      string
	Kind    pickup.Kind
	Message string
}

func (n Notice) Failed() bool { return n.Kind != pickup.KindNone }

type Notifier interface {
	Notify(n Notice)
}

// LogNotifier writes notices to a logger. Useful for headless clients.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l LogNotifier) Notify(n Notice) {
	if n.Failed() {
		l.Logger.Warn(n.Message, "op", n.Op, "kind", string(n.Kind))
		return
	}
	l.Logger.Info(n.Message, "op", n.Op)
}

func failure(op string, err error) Notice {
	return Notice{Op: op, Kind: pickup.KindOf(err), Message: err.Error()}
}
