package game

import "fmt"

// NoMovesPolicy decides what happens when the player to move has no legal
// placement or movement.
type NoMovesPolicy int

const (
	// PassTurn makes an explicit pass the only legal action.
	PassTurn NoMovesPolicy = iota
	// LoseGame finishes the game in favour of the opponent.
	LoseGame
)

func (p NoMovesPolicy) String() string {
	if p == LoseGame {
		return "Loss"
	}
	return "Pass"
}

func (p NoMovesPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *NoMovesPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Pass":
		*p = PassTurn
	case "Loss":
		*p = LoseGame
	default:
		return errorf(InputMalformed, "invalid no-moves policy %q", text)
	}
	return nil
}

// Rules holds the variant switches that are not expansions.
type Rules struct {
	// TournamentQueenRule forbids a Queen as a player's first placement.
	TournamentQueenRule bool `json:"tournament_queen_rule"`
	// QueenDeadline is the placement number by which the Queen must be down.
	QueenDeadline int           `json:"queen_deadline"`
	NoMoves       NoMovesPolicy `json:"no_moves"`
}

func (r Rules) String() string {
	return fmt.Sprintf("tournament=%t deadline=%d nomoves=%s", r.TournamentQueenRule, r.QueenDeadline, r.NoMoves)
}

// queenRequired reports whether a player about to make placement number n
// (counting from 1) must place their Queen.
func (r Rules) queenRequired(n int) bool {
	return r.QueenDeadline > 0 && n >= r.QueenDeadline
}

// queenForbidden reports whether the Queen may not be placed as placement n.
func (r Rules) queenForbidden(n int) bool {
	return r.TournamentQueenRule && n == 1
}

// Validate rejects rule sets under which a player could never make their
// first placement.
func (r Rules) Validate() error {
	if r.QueenDeadline < 0 {
		return errorf(InputMalformed, "queen deadline %d is negative", r.QueenDeadline)
	}
	if r.NoMoves != PassTurn && r.NoMoves != LoseGame {
		return errorf(InputMalformed, "invalid no-moves policy %d", int(r.NoMoves))
	}
	for n := 1; n <= r.QueenDeadline; n++ {
		if r.queenRequired(n) && r.queenForbidden(n) {
			return errorf(InputMalformed, "placement %d must and must not be the Queen: %s", n, r)
		}
	}
	return nil
}
