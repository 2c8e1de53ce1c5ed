package main

import (
	"testing"

	"hive/game"

	"github.com/stretchr/testify/require"
)

/*
Test cases:
- rule flags default to the standard rules
- a game recorded under a later queen deadline replays only under that deadline
- a game recorded under the loss policy keeps its result
- malformed rule flags are refused
*/

// lateQueen places four pieces per color without a Queen.
const lateQueen = "wA1 .;bA1 wA1-;wA2 -wA1;bA2 bA1-;wG1 -wA2;bG1 bA2-;wG2 -wG1"

func TestParseRules(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		std := game.NewStandardRules()
		rules, err := parseRules(false, std.QueenDeadline, std.NoMoves.String())
		require.NoError(t, err)
		require.Equal(t, std, rules)
	})

	t.Run("queen deadline", func(t *testing.T) {
		_, err := game.LoadGame(game.Base, game.NewStandardRules(), lateQueen, game.Unknown)
		require.ErrorIs(t, err, game.ErrIllegalPlacement)

		rules, err := parseRules(false, 5, "Pass")
		require.NoError(t, err)
		s, err := game.LoadGame(game.Base, rules, lateQueen, game.Unknown)
		require.NoError(t, err)
		require.Equal(t, 7, s.Turn())
		require.Equal(t, lateQueen, s.GameString())
	})

	t.Run("loss policy", func(t *testing.T) {
		rules, err := parseRules(true, 4, "Loss")
		require.NoError(t, err)
		require.True(t, rules.TournamentQueenRule)
		require.Equal(t, game.LoseGame, rules.NoMoves)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := parseRules(false, 4, "Forfeit")
		require.ErrorIs(t, err, game.ErrInputMalformed)

		_, err = parseRules(true, 1, "Pass")
		require.ErrorIs(t, err, game.ErrInputMalformed)
	})
}
