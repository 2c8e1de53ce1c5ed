package game

// Evaluate summarises a position as a score between -1 and 1 from the point
// of view of the player to move. It is a reporting metric for self-play
// records, not a search heuristic.
func Evaluate(s *State) float64 {
	if s.status == Finished {
		switch winner, ok := s.result.Winner(); {
		case !ok:
			return 0
		case winner == s.TurnColor():
			return 1
		default:
			return -1
		}
	}
	return (s.libertyScore() + s.mobilityScore()) / 2
}

// QueenLiberties counts the empty cells around c's Queen, or -1 if it is
// still in the reserve.
func (b *Board) QueenLiberties(c Color) int {
	pos, ok := b.PositionOf(NewPiece(c, Queen, 0))
	if !ok {
		return -1
	}
	return len(b.EmptyNeighbors(pos))
}

// libertyScore favours the side whose Queen has more room.
func (s *State) libertyScore() float64 {
	current, opponent := s.TurnColor(), s.TurnColor().Opposite()
	mine, theirs := s.board.QueenLiberties(current), s.board.QueenLiberties(opponent)
	if mine < 0 || theirs < 0 {
		return 0
	}
	return normalize(float64(mine), float64(theirs))
}

// mobilityScore compares how many pieces each side could move right now.
func (s *State) mobilityScore() float64 {
	current, opponent := s.TurnColor(), s.TurnColor().Opposite()
	return normalize(float64(len(s.board.Moves(current))), float64(len(s.board.Moves(opponent))))
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
