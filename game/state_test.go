package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

/*
- scenarios: first placement, placement adjacency, surrounded queen, resignation
- rules: turn color, placement order, queen deadline, tournament opening, no movement before the queen, contradictory rule sets
- no legal actions: explicit pass under PassTurn, immediate loss under LoseGame
- controls: draw offers, takebacks, answers without an offer, the opening turn cannot be taken back
- history: game string round trip, replay reproduces board and hash, undo
- playout: every applied turn keeps the hive connected
*/

// sampleGame is a short game produced by the engine itself.
const sampleGame = `wQ .;bQ wQ-;wA1 -wQ;bA1 bQ-;wA1 bA1/;bA2 /bA1;wQ -bA2;bS1 bA1\`

func playGame(t *testing.T, s *State, gameString string) {
	t.Helper()
	for _, tok := range strings.Split(gameString, ";") {
		piece, position, _ := strings.Cut(tok, " ")
		require.NoError(t, s.PlayTurn(piece, position), tok)
	}
}

// stateWith starts a game from a hand-made layout with the given color to move.
func stateWith(t *testing.T, rules Rules, toMove Color, layout map[Position][]string) *State {
	t.Helper()
	s := NewState(BaseMLP, rules)
	s.board = boardWith(t, layout)
	s.status = InProgress
	s.turn = 10 + int(toMove)
	return s
}

func TestScenarios(t *testing.T) {
	t.Run("first placement starts the game", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		require.Equal(t, NotStarted, s.Status())

		require.NoError(t, s.Place(piece("wQ"), Origin))

		require.Equal(t, InProgress, s.Status())
		require.Equal(t, 1, s.Turn())
		require.Equal(t, Black, s.TurnColor())
		require.Equal(t, "wQ .", s.GameString())
	})

	t.Run("placing next to the opponent only is rejected", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		playGame(t, s, "wQ .;bQ wQ-;wA1 -wQ")
		hash, history := s.Hash(), s.GameString()

		err := s.Place(piece("bA1"), Position{-2, 0})

		require.ErrorIs(t, err, ErrIllegalPlacement)
		require.Equal(t, hash, s.Hash(), "Rejected calls leave the board untouched")
		require.Equal(t, history, s.GameString())
		require.Equal(t, 3, s.Turn())
		require.NoError(t, s.Place(piece("bA1"), Position{2, 0}))
	})

	t.Run("surrounding your own queen loses", func(t *testing.T) {
		s := stateWith(t, NewStandardRules(), White, map[Position][]string{
			{0, 0}:  {"wQ"},
			{1, -1}: {"bQ"},
			{0, -1}: {"bS1"},
			{-1, 0}: {"bS2"},
			{-1, 1}: {"bB1"},
			{0, 1}:  {"bB2"},
			{2, -1}: {"bA2"},
			{2, 0}:  {"bA1"},
			{3, 0}:  {"wG1"},
		})

		require.NoError(t, s.Move(piece("wG1"), Position{3, 0}, Position{1, 0}))

		require.Equal(t, Finished, s.Status())
		require.Equal(t, BlackWins, s.Result())
		require.ErrorIs(t, s.Place(piece("wA1"), Position{4, 0}), ErrGameAlreadyFinished)
		require.Empty(t, s.LegalActions())
	})

	t.Run("resignation ends the game at once", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		playGame(t, s, "wQ .;bQ wQ-")

		require.NoError(t, s.Control(NewControl(Resign, White)))

		require.Equal(t, Finished, s.Status())
		require.Equal(t, BlackWins, s.Result())
		require.Equal(t, "wQ .;bQ wQ-;Resign(White)", s.GameString())
		require.Equal(t, 2, s.Turn(), "Controls do not consume a turn")
		require.ErrorIs(t, s.Control(NewControl(Resign, Black)), ErrGameAlreadyFinished)
	})
}

func TestPlacementRules(t *testing.T) {
	t.Run("only the color to move places", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		require.ErrorIs(t, s.Place(piece("bQ"), Origin), ErrIllegalPlacement)
	})

	t.Run("pieces of a kind go down in order", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		require.ErrorIs(t, s.Place(piece("wA2"), Origin), ErrIllegalPlacement)
		require.NoError(t, s.Place(piece("wA1"), Origin))
	})

	t.Run("expansion pieces need their game type", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		require.ErrorIs(t, s.Place(piece("wM"), Origin), ErrIllegalPlacement)
		require.NoError(t, NewState(Base|WithMosquito, NewStandardRules()).Place(piece("wM"), Origin))
	})

	t.Run("tournament rule forbids opening with the queen", func(t *testing.T) {
		s := NewState(Base, NewTournamentRules())
		require.ErrorIs(t, s.Place(piece("wQ"), Origin), ErrIllegalPlacement)
		for _, a := range s.LegalActions() {
			require.NotEqual(t, Queen, a.Piece.Bug)
		}
		require.NoError(t, s.Place(piece("wA1"), Origin))
	})

	t.Run("queen must be down by the fourth placement", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		playGame(t, s, "wA1 .;bA1 wA1-;wA2 -wA1;bA2 bA1-;wA3 -wA2;bA3 bA2-")

		require.ErrorIs(t, s.PlayTurn("wG1", "-wA3"), ErrIllegalPlacement)
		for _, a := range s.LegalActions() {
			require.Equal(t, Queen, a.Piece.Bug)
		}
		require.NoError(t, s.PlayTurn("wQ", "-wA3"))
	})

	t.Run("nothing moves before the queen", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		playGame(t, s, "wA1 .;bA1 wA1-")

		err := s.Move(piece("wA1"), Origin, Position{1, -1})

		require.ErrorIs(t, err, ErrIllegalMovement)
		require.Empty(t, s.LegalMoves())
	})

	t.Run("a queen deadline clashing with the tournament rule is refused", func(t *testing.T) {
		rules := NewTournamentRules()
		rules.QueenDeadline = 1
		require.ErrorIs(t, rules.Validate(), ErrInputMalformed)

		_, err := LoadGame(Base, rules, "", Unknown)
		require.ErrorIs(t, err, ErrInputMalformed)

		rules.QueenDeadline = 2
		require.NoError(t, rules.Validate())
		require.NoError(t, NewStandardRules().Validate())
	})

	t.Run("negative deadlines and unknown policies are refused", func(t *testing.T) {
		rules := NewStandardRules()
		rules.QueenDeadline = -1
		require.ErrorIs(t, rules.Validate(), ErrInputMalformed)

		rules = NewStandardRules()
		rules.NoMoves = NoMovesPolicy(7)
		require.ErrorIs(t, rules.Validate(), ErrInputMalformed)
	})
}

func TestNoLegalActions(t *testing.T) {
	// After wA3 fills (1,1) Black can neither place nor move its queen.
	layout := map[Position][]string{
		{0, 0}:  {"wQ"},
		{1, 0}:  {"bQ"},
		{1, -1}: {"wA1"},
		{2, -1}: {"wA2"},
		{2, 0}:  {"wG1"},
		{2, 1}:  {"wA3"},
	}

	t.Run("pass policy offers an explicit pass", func(t *testing.T) {
		s := stateWith(t, NewStandardRules(), White, layout)
		require.ErrorIs(t, s.Pass(), ErrIllegalMovement, "White still has moves")

		require.NoError(t, s.Move(piece("wA3"), Position{2, 1}, Position{1, 1}))

		require.Equal(t, InProgress, s.Status())
		require.Equal(t, []Action{PassOf()}, s.LegalActions())
		require.NoError(t, s.Apply(PassOf()))
		require.Equal(t, White, s.TurnColor())
		require.True(t, strings.HasSuffix(s.GameString(), ";pass"))
	})

	t.Run("loss policy finishes the game", func(t *testing.T) {
		rules := NewStandardRules()
		rules.NoMoves = LoseGame
		s := stateWith(t, rules, White, layout)

		require.NoError(t, s.Move(piece("wA3"), Position{2, 1}, Position{1, 1}))

		require.Equal(t, Finished, s.Status())
		require.Equal(t, WhiteWins, s.Result())
	})
}

func TestControls(t *testing.T) {
	t.Run("controls need a running game", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		require.ErrorIs(t, s.Control(NewControl(Resign, White)), ErrIllegalControl)
	})

	t.Run("a draw offer is accepted by the opponent", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		playGame(t, s, "wQ .;bQ wQ-")

		require.NoError(t, s.Control(NewControl(DrawOffer, White)))
		require.ErrorIs(t, s.Control(NewControl(DrawOffer, Black)), ErrIllegalControl, "Only one pending offer")
		require.ErrorIs(t, s.Control(NewControl(DrawAccept, White)), ErrIllegalControl, "Own offer cannot be accepted")
		require.NoError(t, s.Control(NewControl(DrawAccept, Black)))

		require.Equal(t, Finished, s.Status())
		require.Equal(t, Draw, s.Result())
	})

	t.Run("a turn withdraws a pending offer", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		playGame(t, s, "wQ .;bQ wQ-")
		require.NoError(t, s.Control(NewControl(DrawOffer, Black)))
		_, pending := s.Pending()
		require.True(t, pending)

		require.NoError(t, s.PlayTurn("wA1", "-wQ"))

		require.ErrorIs(t, s.Control(NewControl(DrawAccept, White)), ErrIllegalControl)
	})

	t.Run("a rejected offer is recorded and cleared", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		playGame(t, s, "wQ .;bQ wQ-")
		require.NoError(t, s.Control(NewControl(TakebackRequest, White)))
		require.NoError(t, s.Control(NewControl(TakebackReject, Black)))

		require.Equal(t, "wQ .;bQ wQ-;TakebackRequest(White);TakebackReject(Black)", s.GameString())
		_, pending := s.Pending()
		require.False(t, pending)
	})

	t.Run("the opening turn cannot be taken back", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		playGame(t, s, "wQ .")

		require.ErrorIs(t, s.Control(NewControl(TakebackRequest, White)), ErrIllegalControl)
		require.ErrorIs(t, s.Control(NewControl(TakebackAccept, Black)), ErrIllegalControl)

		require.Equal(t, InProgress, s.Status())
		require.Equal(t, 1, s.Turn())
		require.Equal(t, "wQ .", s.GameString())
		require.NoError(t, s.Control(NewControl(Resign, White)))
		require.Equal(t, BlackWins, s.Result())
	})

	t.Run("an accepted takeback replays without the last turn", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		playGame(t, s, sampleGame)
		before := NewState(Base, NewStandardRules())
		tokens := strings.Split(sampleGame, ";")
		playGame(t, before, strings.Join(tokens[:len(tokens)-1], ";"))

		require.NoError(t, s.Control(NewControl(TakebackRequest, Black)))
		require.NoError(t, s.Control(NewControl(TakebackAccept, White)))

		require.Equal(t, before.GameString(), s.GameString())
		require.Equal(t, before.Hash(), s.Hash())
		require.Equal(t, 7, s.Turn())
		require.Equal(t, Black, s.TurnColor())
	})
}

func TestHistory(t *testing.T) {
	t.Run("the engine encodes the game it was fed", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		playGame(t, s, sampleGame)

		require.Equal(t, sampleGame, s.GameString())
		require.Equal(t, 8, s.Turn())
		h := s.History()
		require.Equal(t, Movement, h.Entries[4].Kind)
		require.Equal(t, Position{-1, 0}, h.Entries[4].From)
		require.Equal(t, Position{3, -1}, h.Entries[4].To)
	})

	t.Run("decoding and encoding a game string round trips", func(t *testing.T) {
		h, err := ParseHistory(Base, NewStandardRules(), sampleGame)
		require.NoError(t, err)

		require.Equal(t, sampleGame, h.String())
		require.Equal(t, 8, h.Turns())
		require.Equal(t, Placement, h.Entries[0].Kind)
		require.Equal(t, Movement, h.Entries[6].Kind)
	})

	t.Run("replay reproduces board and fingerprint", func(t *testing.T) {
		live := NewState(Base, NewStandardRules())
		playGame(t, live, sampleGame)

		replayed, err := LoadGame(Base, NewStandardRules(), live.GameString(), Unknown)

		require.NoError(t, err)
		require.Equal(t, live.Hash(), replayed.Hash())
		require.Equal(t, live.Stacks(), replayed.Stacks())
		require.Equal(t, live.Turn(), replayed.Turn())
		require.Equal(t, live.Status(), replayed.Status())
		require.Equal(t, live.History(), replayed.History())
	})

	t.Run("an external result survives reconstruction", func(t *testing.T) {
		s, err := LoadGame(Base, NewStandardRules(), sampleGame, WhiteWins)
		require.NoError(t, err)
		require.Equal(t, Finished, s.Status())
		require.Equal(t, WhiteWins, s.Result())
		require.Equal(t, WhiteWins, s.History().Result)
	})

	t.Run("malformed and illegal game strings are rejected", func(t *testing.T) {
		_, err := LoadGame(Base, NewStandardRules(), "wQ .;bQ", Unknown)
		require.ErrorIs(t, err, ErrInputMalformed)

		_, err = LoadGame(Base, NewStandardRules(), "wQ .;bQ wQ-;wA1 bQ-", Unknown)
		require.ErrorIs(t, err, ErrIllegalPlacement)
	})

	t.Run("undo truncates and replays", func(t *testing.T) {
		s := NewState(Base, NewStandardRules())
		playGame(t, s, sampleGame)

		undone, err := s.Undo(3)
		require.NoError(t, err)

		tokens := strings.Split(sampleGame, ";")
		require.Equal(t, strings.Join(tokens[:5], ";"), undone.GameString())
		require.Equal(t, 8, s.Turn(), "The original state is untouched")

		_, err = s.Undo(9)
		require.ErrorIs(t, err, ErrInputMalformed)
	})
}

func TestPlayout(t *testing.T) {
	s := NewState(BaseMLP, NewStandardRules())
	for i := 0; i < 80 && s.Status() != Finished; i++ {
		actions := s.LegalActions()
		require.NotEmpty(t, actions)
		a := actions[(i*31+7)%len(actions)]

		require.NoError(t, s.Apply(a), "turn %d: %s", i, a)

		require.True(t, s.board.IsConnected(), "turn %d: hive split after %s", i, a)
		for _, p := range s.Pinned() {
			require.Empty(t, s.board.Destinations(p), "turn %d: pinned %s can move", i, p)
		}
	}

	replayed, err := LoadGame(BaseMLP, NewStandardRules(), s.GameString(), s.Result())
	require.NoError(t, err)
	require.Equal(t, s.Hash(), replayed.Hash())
	require.Equal(t, s.GameString(), replayed.GameString())

	h, err := ParseHistory(BaseMLP, NewStandardRules(), s.GameString())
	require.NoError(t, err)
	require.Equal(t, s.GameString(), h.String())
}
