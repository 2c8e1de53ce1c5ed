// Package game is the rules engine: board storage, movement generation,
// history encoding and the turn state machine of one game.
//
// A State is not safe for concurrent use. Independent games share nothing
// and may be driven in parallel.
package game

// ReserveCounts flattens a reserve to counts keyed by kind letter, e.g. "A" -> 3.
func ReserveCounts(reserve map[Bug][]Piece) map[string]int {
	out := make(map[string]int, len(reserve))
	for bug, pieces := range reserve {
		out[string(bug.Letter())] = len(pieces)
	}
	return out
}
