package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

/*
- sliding: a step between two occupied flanks is never generated, a ground step keeps contact
- pins: an articulation point carrying one piece has no destinations, a stacked top piece is free
- per kind: queen, ant, spider, grasshopper, beetle, ladybug, mosquito, pillbug throw
- restrictions: no movement before the owner's queen, the last moved piece stays put
*/

func piece(s string) Piece { return MustParsePiece(s) }

func TestSlidingConstraint(t *testing.T) {
	// (1,0) is a hole: all six of its neighbours are occupied.
	holeLayout := func(mover string, queen Position) map[Position][]string {
		return map[Position][]string{
			{0, 0}:  {mover},
			{1, -1}: {"bA1"},
			{2, -1}: {"bA2"},
			{2, 0}:  {"bA3"},
			{1, 1}:  {"bQ"},
			{0, 1}:  {"bS1"},
			queen:   {"wQ"},
		}
	}

	t.Run("queen cannot squeeze between two occupied flanks", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}:  {"wQ"},
			{1, -1}: {"bA1"},
			{2, -1}: {"bA2"},
			{2, 0}:  {"bA3"},
			{1, 1}:  {"bQ"},
			{0, 1}:  {"bS1"},
		})

		got := b.Destinations(piece("wQ"))

		require.Equal(t, []Position{{-1, 1}, {0, -1}}, got, "Only steps with an open flank that keep contact")
		require.NotContains(t, got, Position{1, 0})
	})

	t.Run("ant never enters a surrounded hole", func(t *testing.T) {
		b := boardWith(t, holeLayout("wA1", Position{0, -1}))

		got := b.Destinations(piece("wA1"))

		require.NotEmpty(t, got)
		require.NotContains(t, got, Position{1, 0})
	})

	t.Run("beetle cannot slide through the gate but can climb", func(t *testing.T) {
		b := boardWith(t, holeLayout("wB1", Position{0, -1}))

		got := b.Destinations(piece("wB1"))

		require.NotContains(t, got, Position{1, 0})
		require.Contains(t, got, Position{1, -1})
		require.Contains(t, got, Position{0, 1})
	})
}

func TestPinned(t *testing.T) {
	t.Run("piece joining a cluster of 3 and a cluster of 4 is pinned", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{-3, 0}: {"wQ"},
			{-2, 0}: {"wA1"},
			{-1, 0}: {"wA2"},
			{0, 0}:  {"wG1"},
			{1, 0}:  {"bQ"},
			{2, 0}:  {"bA1"},
			{3, 0}:  {"bA2"},
			{4, 0}:  {"bA3"},
		})

		require.True(t, b.IsPinned(piece("wG1")))
		require.Empty(t, b.Destinations(piece("wG1")))
		require.Contains(t, b.Pinned(), piece("wG1"))
		require.False(t, b.IsPinned(piece("wQ")), "End of a chain is not a cut vertex")
		require.Equal(t, []Position{{-3, 1}, {-2, -1}}, b.Destinations(piece("wQ")))
	})

	t.Run("every pinned piece has no destinations", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}:  {"wQ"},
			{1, 0}:  {"bQ"},
			{-1, 0}: {"wS1"},
			{2, 0}:  {"bG1"},
			{1, 1}:  {"bA1"},
			{-1, 1}: {"wB1"},
		})

		pinned := b.Pinned()
		require.NotEmpty(t, pinned)
		for _, p := range pinned {
			require.Empty(t, b.Destinations(p), "%s is pinned", p)
		}
	})

	t.Run("a stacked top piece is never pinned", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}:  {"wQ", "wB1"},
			{1, 0}:  {"bQ"},
			{-1, 0}: {"bA1"},
		})

		require.True(t, b.articulationPoints().has(Origin))
		require.False(t, b.IsPinned(piece("wB1")))
		require.Empty(t, b.Pinned())
		require.Len(t, b.Destinations(piece("wB1")), NumDirections)
	})

	t.Run("a ring has no cut vertices", func(t *testing.T) {
		layout := map[Position][]string{}
		names := []string{"wQ", "wA1", "wA2", "bQ", "bA1", "bA2"}
		for i, n := range Origin.Neighbors() {
			layout[n] = []string{names[i]}
		}
		b := boardWith(t, layout)
		require.Empty(t, b.articulationPoints())
	})
}

func TestGenerators(t *testing.T) {
	t.Run("grasshopper jumps over a line", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}:  {"wQ"},
			{-1, 0}: {"wG1"},
			{1, 0}:  {"bQ"},
			{2, 0}:  {"bA1"},
		})
		require.Equal(t, []Position{{3, 0}}, b.Destinations(piece("wG1")))
	})

	t.Run("spider walks exactly three steps both ways", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}:  {"wQ"},
			{1, 0}:  {"bQ"},
			{-1, 0}: {"wS1"},
		})
		require.Equal(t, []Position{{1, 1}, {2, -1}}, b.Destinations(piece("wS1")))
	})

	t.Run("ant reaches the whole perimeter", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}:  {"wQ"},
			{1, 0}:  {"bQ"},
			{-1, 0}: {"wA1"},
		})
		require.Equal(t, []Position{{-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 1}, {2, -1}, {2, 0}}, b.Destinations(piece("wA1")))
	})

	t.Run("beetle climbs and steps", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}:  {"wQ"},
			{1, 0}:  {"bQ"},
			{-1, 0}: {"wB1"},
		})
		require.Equal(t, []Position{{-1, 1}, {0, -1}, {0, 0}}, b.Destinations(piece("wB1")))
	})

	t.Run("ladybug walks two on top and one down", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}:  {"wQ"},
			{1, 0}:  {"bQ"},
			{-1, 0}: {"wL"},
		})
		require.Equal(t, []Position{{0, 1}, {1, -1}, {1, 1}, {2, -1}, {2, 0}}, b.Destinations(piece("wL")))
	})

	t.Run("mosquito copies its neighbours", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}:  {"wQ"},
			{1, 0}:  {"bQ"},
			{-1, 0}: {"wM"},
			{-1, 1}: {"bG1"},
		})
		require.Equal(t, []Position{{-2, 1}, {-1, 2}, {0, -1}, {2, 0}}, b.Destinations(piece("wM")))
	})

	t.Run("mosquito next to a mosquito only has nothing to copy", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}:  {"bM"},
			{-1, 0}: {"wM"},
			{1, 0}:  {"wQ"},
		})
		require.Empty(t, b.Destinations(piece("wM")))
	})

	t.Run("mosquito on top moves like a beetle", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}: {"wQ", "wM"},
			{1, 0}: {"bQ"},
		})
		require.Len(t, b.Destinations(piece("wM")), NumDirections)
	})
}

func TestPillbugThrow(t *testing.T) {
	layout := map[Position][]string{
		{0, 0}: {"wQ"},
		{1, 0}: {"wP"},
		{2, 0}: {"bA1"},
	}
	throwTargets := []Position{{0, 1}, {1, -1}, {1, 1}, {2, -1}}

	t.Run("pillbug moves an adjacent opponent piece around itself", func(t *testing.T) {
		b := boardWith(t, layout)

		moves := b.Moves(White)

		require.Equal(t, throwTargets, moves[piece("bA1")])
		require.NotContains(t, moves, piece("wP"), "Pinned pillbug cannot move itself")
		require.Empty(t, b.Moves(Black), "Black has no queen on the board")
	})

	t.Run("the throw is applied as a movement of the thrown piece", func(t *testing.T) {
		b := boardWith(t, layout)

		require.NoError(t, b.MovePiece(White, piece("bA1"), Position{2, 0}, Position{1, 1}))

		top, ok := b.TopAt(Position{1, 1})
		require.True(t, ok)
		require.Equal(t, piece("bA1"), top)
		require.True(t, b.IsConnected())
		last, moved := b.LastMoved()
		require.True(t, moved)
		require.Equal(t, piece("bA1"), last)
	})

	t.Run("the piece moved last turn cannot be thrown", func(t *testing.T) {
		b := boardWith(t, layout)
		b.lastMoved, b.hasMoved = piece("bA1"), true

		require.NotContains(t, b.Moves(White), piece("bA1"))
		require.ErrorIs(t, b.MovePiece(White, piece("bA1"), Position{2, 0}, Position{1, 1}), ErrIllegalMovement)
	})

	t.Run("mosquito next to a pillbug can throw", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}: {"wQ"},
			{1, 0}: {"wM"},
			{2, 0}: {"bA1"},
			{1, 1}: {"bP"},
		})

		require.Contains(t, b.Moves(White)[piece("bA1")], Position{1, -1})
	})
}

func TestMovementRestrictions(t *testing.T) {
	t.Run("nothing moves before its queen is placed", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}: {"wA1"},
			{1, 0}: {"bQ"},
		})
		require.Empty(t, b.Destinations(piece("wA1")))
		require.Empty(t, b.Moves(White))
		require.NotEmpty(t, b.Moves(Black))
	})

	t.Run("the last moved piece is immobile", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}:  {"wQ"},
			{1, 0}:  {"bQ"},
			{-1, 0}: {"wA1"},
		})
		b.lastMoved, b.hasMoved = piece("wA1"), true

		require.Empty(t, b.Destinations(piece("wA1")))
		require.ErrorIs(t, b.MovePiece(White, piece("wA1"), Position{-1, 0}, Position{2, 0}), ErrIllegalMovement)
	})

	t.Run("moving a covered piece is rejected", func(t *testing.T) {
		b := boardWith(t, map[Position][]string{
			{0, 0}: {"wQ", "bB1"},
			{1, 0}: {"bQ"},
		})
		require.ErrorIs(t, b.MovePiece(White, piece("wQ"), Position{0, 0}, Position{-1, 0}), ErrIllegalMovement)
	})
}
