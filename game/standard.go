package game

// NewStandardRules is the casual rule set: Queen by the fourth placement,
// passing when stuck.
func NewStandardRules() Rules {
	return Rules{
		QueenDeadline: 4,
		NoMoves:       PassTurn,
	}
}

// NewTournamentRules additionally forbids opening with the Queen.
func NewTournamentRules() Rules {
	r := NewStandardRules()
	r.TournamentQueenRule = true
	return r
}
