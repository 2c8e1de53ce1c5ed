package game

import (
	"fmt"
	"strconv"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Letter is the one-letter prefix used in piece notation.
func (c Color) Letter() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

func (c Color) Opposite() Color { return 1 - c }

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor accepts "White"/"Black" and the notation letters "w"/"b".
func ParseColor(s string) (Color, error) {
	switch s {
	case "White", "white", "w":
		return White, nil
	case "Black", "black", "b":
		return Black, nil
	}
	return White, errorf(InputMalformed, "unknown color %q", s)
}

// Bug is the kind of a piece. Its movement class is looked up in the
// generator table by kind.
type Bug uint8

const (
	Ant Bug = iota
	Beetle
	Grasshopper
	Ladybug
	Mosquito
	Pillbug
	Queen
	Spider
)

const NumBugs = 8

var bugLetters = [NumBugs]byte{'A', 'B', 'G', 'L', 'M', 'P', 'Q', 'S'}

var bugNames = [NumBugs]string{"Ant", "Beetle", "Grasshopper", "Ladybug", "Mosquito", "Pillbug", "Queen", "Spider"}

// bugCounts is the number of pieces of each kind a color owns.
var bugCounts = [NumBugs]int{3, 2, 3, 1, 1, 1, 1, 2}

// Bugs lists every kind in notation order.
func Bugs() []Bug {
	return []Bug{Ant, Beetle, Grasshopper, Ladybug, Mosquito, Pillbug, Queen, Spider}
}

func (b Bug) String() string { return bugNames[b] }

func (b Bug) Letter() byte { return bugLetters[b] }

// Count is how many pieces of this kind each color owns.
func (b Bug) Count() int { return bugCounts[b] }

// numbered reports whether pieces of this kind carry an instance number in notation.
func (b Bug) numbered() bool { return bugCounts[b] > 1 }

func bugFromLetter(c byte) (Bug, bool) {
	for i, l := range bugLetters {
		if l == c {
			return Bug(i), true
		}
	}
	return 0, false
}

// Piece identifies one tile. Order disambiguates pieces of the same kind and
// color; it starts at 1 and is 0 for single-instance kinds.
type Piece struct {
	Color Color
	Bug   Bug
	Order uint8
}

// NewPiece builds a piece, normalising the order of single-instance kinds.
func NewPiece(c Color, b Bug, order int) Piece {
	if !b.numbered() {
		order = 0
	}
	return Piece{Color: c, Bug: b, Order: uint8(order)}
}

// Valid checks the order against the number of pieces of the kind.
func (p Piece) Valid() bool {
	if p.Color > Black || p.Bug >= NumBugs {
		return false
	}
	if !p.Bug.numbered() {
		return p.Order == 0
	}
	return p.Order >= 1 && int(p.Order) <= p.Bug.Count()
}

// index packs the piece into a small integer for hashing.
func (p Piece) index() int {
	return int(p.Color)*32 + int(p.Bug)*4 + int(p.Order)
}

func (p Piece) String() string {
	s := string([]byte{p.Color.Letter(), p.Bug.Letter()})
	if p.Bug.numbered() {
		s += strconv.Itoa(int(p.Order))
	}
	return s
}

// MarshalText encodes the zero piece of a pass as an empty string.
func (p Piece) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return []byte{}, nil
	}
	return []byte(p.String()), nil
}

func (p *Piece) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = Piece{}
		return nil
	}
	parsed, err := ParsePiece(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePiece reads notation such as "wQ", "bA2" or "wM".
func ParsePiece(s string) (Piece, error) {
	if len(s) < 2 || len(s) > 3 {
		return Piece{}, errorf(InputMalformed, "invalid piece %q", s)
	}
	color, err := ParseColor(s[:1])
	if err != nil {
		return Piece{}, errorf(InputMalformed, "invalid piece %q", s)
	}
	bug, ok := bugFromLetter(s[1])
	if !ok {
		return Piece{}, errorf(InputMalformed, "invalid piece %q", s)
	}
	order := 0
	if len(s) == 3 {
		n, err := strconv.Atoi(s[2:])
		if err != nil {
			return Piece{}, errorf(InputMalformed, "invalid piece %q", s)
		}
		order = n
	}
	p := Piece{Color: color, Bug: bug, Order: uint8(order)}
	if !p.Valid() {
		return Piece{}, errorf(InputMalformed, "invalid piece %q", s)
	}
	return p, nil
}

// MustParsePiece is ParsePiece for literals known to be valid.
func MustParsePiece(s string) Piece {
	p, err := ParsePiece(s)
	if err != nil {
		panic(fmt.Sprintf("game: %v", err))
	}
	return p
}
