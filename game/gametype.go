package game

import "strings"

// GameType is the set of enabled expansions on top of the base game.
type GameType uint8

const (
	WithMosquito GameType = 1 << iota
	WithLadybug
	WithPillbug
)

const (
	Base    GameType = 0
	BaseMLP          = WithMosquito | WithLadybug | WithPillbug
)

var expansions = []struct {
	flag   GameType
	letter byte
	bug    Bug
}{
	{WithMosquito, 'M', Mosquito},
	{WithLadybug, 'L', Ladybug},
	{WithPillbug, 'P', Pillbug},
}

// Has reports whether pieces of kind b take part in games of this type.
func (t GameType) Has(b Bug) bool {
	for _, e := range expansions {
		if e.bug == b {
			return t&e.flag != 0
		}
	}
	return true
}

// String renders "Base" or "Base+" followed by the expansion letters in M, L, P order.
func (t GameType) String() string {
	var sb strings.Builder
	sb.WriteString("Base")
	if t == Base {
		return sb.String()
	}
	sb.WriteByte('+')
	for _, e := range expansions {
		if t&e.flag != 0 {
			sb.WriteByte(e.letter)
		}
	}
	return sb.String()
}

func (t GameType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *GameType) UnmarshalText(text []byte) error {
	parsed, err := ParseGameType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseGameType accepts only the canonical forms produced by String.
func ParseGameType(s string) (GameType, error) {
	if s == "Base" {
		return Base, nil
	}
	rest, ok := strings.CutPrefix(s, "Base+")
	if !ok || rest == "" {
		return Base, errorf(InputMalformed, "invalid game type %q", s)
	}
	var t GameType
	i := 0
	for _, e := range expansions {
		if i < len(rest) && rest[i] == e.letter {
			t |= e.flag
			i++
		}
	}
	if i != len(rest) {
		return Base, errorf(InputMalformed, "invalid game type %q", s)
	}
	return t, nil
}
