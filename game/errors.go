package game

import "fmt"

// ErrorKind classifies a rejected call. Every rejection leaves the state as
// it was before the call.
type ErrorKind int

const (
	InputMalformed ErrorKind = iota
	CapacityExceeded
	IllegalPlacement
	IllegalMovement
	GameAlreadyFinished
	IllegalControl
)

var errorKindNames = []string{
	"InputMalformed",
	"CapacityExceeded",
	"IllegalPlacement",
	"IllegalMovement",
	"GameAlreadyFinished",
	"IllegalControl",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the typed rejection returned by the engine.
type Error struct {
	Kind   ErrorKind
	Reason string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Reason
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of the reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInputMalformed      = &Error{Kind: InputMalformed}
	ErrCapacityExceeded    = &Error{Kind: CapacityExceeded}
	ErrIllegalPlacement    = &Error{Kind: IllegalPlacement}
	ErrIllegalMovement     = &Error{Kind: IllegalMovement}
	ErrGameAlreadyFinished = &Error{Kind: GameAlreadyFinished}
	ErrIllegalControl      = &Error{Kind: IllegalControl}
)

func errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
