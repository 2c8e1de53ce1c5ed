package game

import (
	"strings"

	"hive/utils"
)

// ControlKind is an out-of-band action that never touches the board.
type ControlKind int

const (
	Resign ControlKind = iota
	DrawOffer
	DrawAccept
	DrawReject
	TakebackRequest
	TakebackAccept
	TakebackReject
)

var controlNames = []string{
	"Resign",
	"DrawOffer",
	"DrawAccept",
	"DrawReject",
	"TakebackRequest",
	"TakebackAccept",
	"TakebackReject",
}

func (k ControlKind) String() string { return controlNames[k] }

func (k ControlKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ControlKind) UnmarshalText(text []byte) error {
	parsed, err := ParseControlKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// offer reports which kind of pending offer an answer refers to.
func (k ControlKind) offer() (ControlKind, bool) {
	switch k {
	case DrawAccept, DrawReject:
		return DrawOffer, true
	case TakebackAccept, TakebackReject:
		return TakebackRequest, true
	}
	return 0, false
}

// GameControl is a control action together with the color performing it.
type GameControl struct {
	Kind  ControlKind `json:"kind"`
	Color Color       `json:"color"`
}

func NewControl(kind ControlKind, c Color) GameControl {
	return GameControl{Kind: kind, Color: c}
}

// String renders the notation form, e.g. "Resign(White)".
func (gc GameControl) String() string {
	return gc.Kind.String() + "(" + gc.Color.String() + ")"
}

func ParseControlKind(s string) (ControlKind, error) {
	k, ok := utils.ParseName[ControlKind](controlNames, s)
	if !ok {
		return 0, errorf(InputMalformed, "unknown control %q", s)
	}
	return k, nil
}

func ParseGameControl(s string) (GameControl, error) {
	name, rest, ok := strings.Cut(s, "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return GameControl{}, errorf(InputMalformed, "invalid control %q", s)
	}
	kind, err := ParseControlKind(name)
	if err != nil {
		return GameControl{}, err
	}
	colorName := strings.TrimSuffix(rest, ")")
	if colorName != "White" && colorName != "Black" {
		return GameControl{}, errorf(InputMalformed, "invalid control color %q", colorName)
	}
	c, _ := ParseColor(colorName)
	return GameControl{Kind: kind, Color: c}, nil
}
