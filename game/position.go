package game

import (
	"cmp"
	"fmt"
	"slices"
)

// Position is an axial hex coordinate (q, r).
type Position struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Origin is where the first piece of every game is placed.
var Origin = Position{0, 0}

// Direction indexes the six neighbours of a hex. Consecutive directions are
// themselves adjacent, so the two cells flanking a step in direction d are
// d.Left() and d.Right().
type Direction int

const (
	East Direction = iota
	NorthEast
	NorthWest
	West
	SouthWest
	SouthEast
)

const NumDirections = 6

var offsets = [NumDirections]Position{
	{1, 0}, {1, -1}, {0, -1},
	{-1, 0}, {-1, 1}, {0, 1},
}

var directionNames = [NumDirections]string{"E", "NE", "NW", "W", "SW", "SE"}

func (d Direction) String() string { return directionNames[d] }

// Left is the direction counter-clockwise of d.
func (d Direction) Left() Direction { return (d + 1) % NumDirections }

// Right is the direction clockwise of d.
func (d Direction) Right() Direction { return (d + NumDirections - 1) % NumDirections }

func (d Direction) Opposite() Direction { return (d + 3) % NumDirections }

// Neighbor returns the adjacent position in direction d.
func (p Position) Neighbor(d Direction) Position {
	o := offsets[d]
	return Position{p.Q + o.Q, p.R + o.R}
}

// Neighbors returns all six adjacent positions, in Direction order.
func (p Position) Neighbors() [NumDirections]Position {
	var ns [NumDirections]Position
	for d := Direction(0); d < NumDirections; d++ {
		ns[d] = p.Neighbor(d)
	}
	return ns
}

// DirectionTo reports the direction from p to an adjacent position.
func (p Position) DirectionTo(other Position) (Direction, bool) {
	for d := Direction(0); d < NumDirections; d++ {
		if p.Neighbor(d) == other {
			return d, true
		}
	}
	return 0, false
}

// IsAdjacent checks whether two positions share an edge.
func (p Position) IsAdjacent(other Position) bool {
	_, ok := p.DirectionTo(other)
	return ok
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Q, p.R)
}

// Compare orders positions by q, then r.
func (p Position) Compare(other Position) int {
	if c := cmp.Compare(p.Q, other.Q); c != 0 {
		return c
	}
	return cmp.Compare(p.R, other.R)
}

// SortPositions sorts in place and returns the slice.
func SortPositions(ps []Position) []Position {
	slices.SortFunc(ps, Position.Compare)
	return ps
}

// posSet collects destinations without duplicates.
type posSet map[Position]struct{}

func (s posSet) add(p Position) { s[p] = struct{}{} }

func (s posSet) has(p Position) bool {
	_, ok := s[p]
	return ok
}

// sorted returns the members in Position order. An empty set yields nil.
func (s posSet) sorted() []Position {
	if len(s) == 0 {
		return nil
	}
	out := make([]Position, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return SortPositions(out)
}
