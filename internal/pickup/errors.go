package pickup

import "errors"

// Error kinds. Every error returned by this package wraps exactly one of
// these, so callers classify with errors.Is or KindOf.
var (
	ErrDataIntegrity     = errors.New("game record is missing required data")
	ErrNotAuthorized     = errors.New("only the host can do that")
	ErrNotAMember        = errors.New("you are not a player in this game")
	ErrGameFull          = errors.New("this game is full")
	ErrHostCannotLeave   = errors.New("the host cannot leave their own game")
	ErrValidation        = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid game status change")
	ErrNotFound          = errors.New("game not found")
	ErrRemote            = errors.New("could not reach the game service")
)

type Kind string

const (
	KindNone              Kind = ""
	KindDataIntegrity     Kind = "data_integrity"
	KindNotAuthorized     Kind = "not_authorized"
	KindNotAMember        Kind = "not_a_member"
	KindGameFull          Kind = "game_full"
	KindHostCannotLeave   Kind = "host_cannot_leave"
	KindValidation        Kind = "validation"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotFound          Kind = "not_found"
	KindRemote            Kind = "remote"
	KindUnknown           Kind = "unknown"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrDataIntegrity, KindDataIntegrity},
	{ErrNotAuthorized, KindNotAuthorized},
	{ErrNotAMember, KindNotAMember},
	{ErrGameFull, KindGameFull},
	{ErrHostCannotLeave, KindHostCannotLeave},
	{ErrValidation, KindValidation},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrNotFound, KindNotFound},
	{ErrRemote, KindRemote},
}

// KindOf classifies err. Errors that wrap none of the kinds report KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// IsDomain reports whether err was raised by a game rule rather than by
// infrastructure.
func IsDomain(err error) bool {
	switch KindOf(err) {
	case KindNone, KindRemote, KindUnknown:
		return false
	}
	return true
}
