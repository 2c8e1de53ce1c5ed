package game

import (
	"fmt"

	"hive/utils"
)

// ActionType is the kind of turn a player can take.
type ActionType int

const (
	PlaceAction ActionType = iota
	MoveAction
	PassAction
)

var actionTypeNames = []string{"place", "move", "pass"}

func (t ActionType) String() string {
	if t < PlaceAction || t > PassAction {
		return fmt.Sprintf("ActionType(%d)", int(t))
	}
	return actionTypeNames[t]
}

func (t ActionType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ActionType) UnmarshalText(text []byte) error {
	parsed, ok := utils.ParseName[ActionType](actionTypeNames, string(text))
	if !ok {
		return errorf(InputMalformed, "unknown action type %q", text)
	}
	*t = parsed
	return nil
}

// Action is one turn a player can take. From is unused for placements and
// every field is unused for a pass.
type Action struct {
	Type  ActionType `json:"type"`
	Piece Piece      `json:"piece"`
	From  Position   `json:"from"`
	To    Position   `json:"to"`
}

func PlaceOf(p Piece, to Position) Action {
	return Action{Type: PlaceAction, Piece: p, To: to}
}

func MoveOf(p Piece, from, to Position) Action {
	return Action{Type: MoveAction, Piece: p, From: from, To: to}
}

func PassOf() Action { return Action{Type: PassAction} }

func (a Action) String() string {
	switch a.Type {
	case PlaceAction:
		return fmt.Sprintf("place %s at %s", a.Piece, a.To)
	case MoveAction:
		return fmt.Sprintf("move %s %s->%s", a.Piece, a.From, a.To)
	}
	return passToken
}
