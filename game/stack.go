package game

// MaxStackHeight bounds a cell: a ground piece under both colors' two beetles
// and mosquito.
const MaxStackHeight = 7

// Stack holds the pieces on one cell, bottom first. Only the top piece takes
// part in adjacency and movement.
type Stack struct {
	pieces [MaxStackHeight]Piece
	size   uint8
}

func (s Stack) Len() int { return int(s.size) }

func (s Stack) Empty() bool { return s.size == 0 }

// Top returns the visible piece of the cell.
func (s Stack) Top() (Piece, bool) {
	if s.size == 0 {
		return Piece{}, false
	}
	return s.pieces[s.size-1], true
}

// Pieces returns a copy of the stack, bottom first.
func (s Stack) Pieces() []Piece {
	out := make([]Piece, s.size)
	copy(out, s.pieces[:s.size])
	return out
}

// below returns the piece directly under the top one.
func (s Stack) below() (Piece, bool) {
	if s.size < 2 {
		return Piece{}, false
	}
	return s.pieces[s.size-2], true
}

func (s *Stack) push(p Piece) bool {
	if s.size == MaxStackHeight {
		return false
	}
	s.pieces[s.size] = p
	s.size++
	return true
}

func (s *Stack) pop() Piece {
	s.size--
	p := s.pieces[s.size]
	s.pieces[s.size] = Piece{}
	return p
}
