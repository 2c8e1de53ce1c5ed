package game

import (
	"slices"
	"strings"
)

// Board maps positions to piece stacks. Place and MovePiece are the only
// mutating calls and both apply fully or not at all.
type Board struct {
	grid      *grid
	positions map[Piece]Position
	hash      StateHash
	lastMoved Piece
	hasMoved  bool
}

func NewBoard() *Board {
	return &Board{
		grid:      newGrid(),
		positions: make(map[Piece]Position),
	}
}

func (b *Board) Clone() *Board {
	positions := make(map[Piece]Position, len(b.positions))
	for p, pos := range b.positions {
		positions[p] = pos
	}
	return &Board{
		grid:      b.grid.clone(),
		positions: positions,
		hash:      b.hash,
		lastMoved: b.lastMoved,
		hasMoved:  b.hasMoved,
	}
}

func (b *Board) StackAt(pos Position) Stack { return b.grid.get(pos) }

func (b *Board) TopAt(pos Position) (Piece, bool) { return b.grid.get(pos).Top() }

func (b *Board) Height(pos Position) int { return b.grid.get(pos).Len() }

func (b *Board) IsOccupied(pos Position) bool { return b.Height(pos) > 0 }

// PositionOf reports where a placed piece is, covered or not.
func (b *Board) PositionOf(p Piece) (Position, bool) {
	pos, ok := b.positions[p]
	return pos, ok
}

func (b *Board) IsPlaced(p Piece) bool {
	_, ok := b.positions[p]
	return ok
}

// NumPieces counts placed pieces, including covered ones.
func (b *Board) NumPieces() int { return len(b.positions) }

func (b *Board) Hash() StateHash { return b.hash }

// LastMoved is the piece moved on the previous turn, if that turn was a movement.
func (b *Board) LastMoved() (Piece, bool) { return b.lastMoved, b.hasMoved }

func (b *Board) clearLastMoved() {
	b.lastMoved, b.hasMoved = Piece{}, false
}

// Occupied returns every non-empty cell in Position order.
func (b *Board) Occupied() []Position {
	out := make([]Position, 0, len(b.grid.occupied))
	for p := range b.grid.occupied {
		out = append(out, p)
	}
	return SortPositions(out)
}

// Stacks returns a copy of the board contents, bottom piece first.
func (b *Board) Stacks() map[Position][]Piece {
	out := make(map[Position][]Piece, len(b.grid.occupied))
	for p := range b.grid.occupied {
		out[p] = b.grid.get(p).Pieces()
	}
	return out
}

func (b *Board) OccupiedNeighbors(pos Position) []Position {
	var out []Position
	for _, n := range pos.Neighbors() {
		if b.IsOccupied(n) {
			out = append(out, n)
		}
	}
	return out
}

func (b *Board) EmptyNeighbors(pos Position) []Position {
	var out []Position
	for _, n := range pos.Neighbors() {
		if !b.IsOccupied(n) {
			out = append(out, n)
		}
	}
	return out
}

// QueenSurrounded reports whether c's Queen is on the board with all six
// neighbours occupied.
func (b *Board) QueenSurrounded(c Color) bool {
	pos, ok := b.positions[NewPiece(c, Queen, 0)]
	if !ok {
		return false
	}
	return len(b.OccupiedNeighbors(pos)) == NumDirections
}

func (b *Board) queenPlaced(c Color) bool {
	return b.IsPlaced(NewPiece(c, Queen, 0))
}

func (b *Board) placedCount(c Color) int {
	n := 0
	for p := range b.positions {
		if p.Color == c {
			n++
		}
	}
	return n
}

// Reserve lists c's unplayed pieces per kind, lowest order first. Kinds the
// game type excludes and exhausted kinds are absent.
func (b *Board) Reserve(c Color, t GameType) map[Bug][]Piece {
	out := make(map[Bug][]Piece)
	for _, bug := range Bugs() {
		if !t.Has(bug) {
			continue
		}
		for _, p := range allOf(c, bug) {
			if !b.IsPlaced(p) {
				out[bug] = append(out[bug], p)
			}
		}
	}
	return out
}

// nextInReserve is the piece of a kind that must be placed next.
func (b *Board) nextInReserve(c Color, bug Bug) (Piece, bool) {
	for _, p := range allOf(c, bug) {
		if !b.IsPlaced(p) {
			return p, true
		}
	}
	return Piece{}, false
}

func allOf(c Color, bug Bug) []Piece {
	if !bug.numbered() {
		return []Piece{NewPiece(c, bug, 0)}
	}
	out := make([]Piece, bug.Count())
	for i := range out {
		out[i] = NewPiece(c, bug, i+1)
	}
	return out
}

// SpawnablePositions are the empty cells where c may place a piece.
func (b *Board) SpawnablePositions(c Color) []Position {
	switch len(b.positions) {
	case 0:
		return []Position{Origin}
	case 1:
		for _, pos := range b.positions {
			return SortPositions(b.EmptyNeighbors(pos))
		}
	}
	set := posSet{}
	for pos := range b.grid.occupied {
		top, _ := b.TopAt(pos)
		if top.Color != c {
			continue
		}
		for _, n := range b.EmptyNeighbors(pos) {
			if !set.has(n) && !b.touchesColor(n, c.Opposite()) {
				set.add(n)
			}
		}
	}
	return set.sorted()
}

func (b *Board) touchesColor(pos Position, c Color) bool {
	for _, n := range pos.Neighbors() {
		if top, ok := b.TopAt(n); ok && top.Color == c {
			return true
		}
	}
	return false
}

// Place puts an unplayed piece on a spawnable cell.
func (b *Board) Place(p Piece, pos Position) error {
	if !p.Valid() {
		return errorf(IllegalPlacement, "invalid piece %v", p)
	}
	if b.IsPlaced(p) {
		return errorf(IllegalPlacement, "%s is already on the board", p)
	}
	if b.IsOccupied(pos) {
		return errorf(IllegalPlacement, "%s is occupied", pos)
	}
	if !slices.Contains(b.SpawnablePositions(p.Color), pos) {
		return errorf(IllegalPlacement, "%s cannot be placed at %s", p, pos)
	}
	if !b.grid.fits(pos) {
		return errorf(CapacityExceeded, "%s exceeds the %d-cell board span", pos, MaxBoardSpan)
	}
	if err := b.push(p, pos); err != nil {
		return err
	}
	b.clearLastMoved()
	return nil
}

// MovePiece moves p from one cell to another on behalf of color by. The
// move must be among by's legal moves, which covers pins, Pillbug throws
// and the last-moved piece.
func (b *Board) MovePiece(by Color, p Piece, from, to Position) error {
	if top, ok := b.TopAt(from); !ok || top != p {
		return errorf(IllegalMovement, "%s is not on top at %s", p, from)
	}
	if !slices.Contains(b.Moves(by)[p], to) {
		return errorf(IllegalMovement, "%s cannot move from %s to %s", p, from, to)
	}
	if !b.connectedAfter(from, to) {
		return errorf(IllegalMovement, "moving %s from %s to %s splits the hive", p, from, to)
	}
	if !b.grid.fits(to) {
		return errorf(CapacityExceeded, "%s exceeds the %d-cell board span", to, MaxBoardSpan)
	}
	b.pop(from)
	if err := b.push(p, to); err != nil {
		return err
	}
	b.lastMoved, b.hasMoved = p, true
	return nil
}

func (b *Board) push(p Piece, pos Position) error {
	s := b.grid.get(pos)
	level := s.Len()
	if !s.push(p) {
		return errorf(IllegalMovement, "stack at %s is full", pos)
	}
	if err := b.grid.set(pos, s); err != nil {
		return err
	}
	b.positions[p] = pos
	b.hash ^= pieceKey(p, pos, level)
	return nil
}

func (b *Board) pop(pos Position) Piece {
	s := b.grid.get(pos)
	p := s.pop()
	// clearing a cell never fails
	_ = b.grid.set(pos, s)
	delete(b.positions, p)
	b.hash ^= pieceKey(p, pos, s.Len())
	return p
}

var tokenForms = [NumDirections]struct{ prefix, suffix string }{
	East:      {"", "-"},
	NorthEast: {"", "/"},
	NorthWest: {"\\", ""},
	West:      {"-", ""},
	SouthWest: {"/", ""},
	SouthEast: {"", "\\"},
}

// positionToken describes where p now stands relative to another piece. It
// is computed after p has been put at pos.
func (b *Board) positionToken(p Piece, pos Position) string {
	if len(b.positions) == 1 {
		return "."
	}
	if under, ok := b.StackAt(pos).below(); ok {
		return under.String()
	}
	for d := Direction(0); d < NumDirections; d++ {
		ref, ok := b.TopAt(pos.Neighbor(d))
		if !ok || ref == p {
			continue
		}
		form := tokenForms[d.Opposite()]
		return form.prefix + ref.String() + form.suffix
	}
	return pos.String()
}

// ResolveToken turns a position token into a position on the current board.
func (b *Board) ResolveToken(tok string) (Position, error) {
	if tok == "." {
		if len(b.positions) != 0 {
			return Position{}, errorf(InputMalformed, "%q is only valid on an empty board", tok)
		}
		return Origin, nil
	}
	name, dir, hasDir := tok, Direction(0), false
	for d, form := range tokenForms {
		if form.prefix != "" && strings.HasPrefix(tok, form.prefix) {
			name, dir, hasDir = tok[len(form.prefix):], Direction(d), true
			break
		}
		if form.suffix != "" && strings.HasSuffix(tok, form.suffix) {
			name, dir, hasDir = tok[:len(tok)-len(form.suffix)], Direction(d), true
			break
		}
	}
	ref, err := ParsePiece(name)
	if err != nil {
		return Position{}, errorf(InputMalformed, "invalid position %q", tok)
	}
	pos, ok := b.PositionOf(ref)
	if !ok {
		return Position{}, errorf(InputMalformed, "position %q refers to %s which is not on the board", tok, ref)
	}
	if hasDir {
		pos = pos.Neighbor(dir)
	}
	return pos, nil
}
