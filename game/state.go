package game

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

// State is one game: the board, its history and the turn and status
// bookkeeping. A State performs no locking; callers serialize access.
type State struct {
	board    *Board
	history  *History
	gameType GameType
	rules    Rules
	turn     int
	status   Status
	result   Result
	pending  *GameControl // open draw offer or takeback request
}

// NewState returns a game that has not started yet.
func NewState(t GameType, rules Rules) *State {
	return &State{
		board:    NewBoard(),
		history:  NewHistory(t, rules),
		gameType: t,
		rules:    rules,
	}
}

// Copy returns an independent deep copy of the state.
func (s *State) Copy() *State {
	c := *s
	c.board = s.board.Clone()
	c.history = s.history.Clone()
	if s.pending != nil {
		p := *s.pending
		c.pending = &p
	}
	return &c
}

func (s *State) GameType() GameType { return s.gameType }

func (s *State) Rules() Rules { return s.rules }

// Turn is the number of completed turns.
func (s *State) Turn() int { return s.turn }

// TurnColor is the color to move. White moves first.
func (s *State) TurnColor() Color {
	if s.turn%2 == 0 {
		return White
	}
	return Black
}

func (s *State) Status() Status { return s.status }

func (s *State) Result() Result { return s.result }

func (s *State) Hash() StateHash { return s.board.Hash() }

// Board returns a copy of the board for read-only inspection.
func (s *State) Board() *Board { return s.board.Clone() }

func (s *State) Stacks() map[Position][]Piece { return s.board.Stacks() }

func (s *State) History() *History { return s.history.Clone() }

// GameString is the encoded history.
func (s *State) GameString() string { return s.history.String() }

func (s *State) Pinned() []Piece { return s.board.Pinned() }

// Pending returns the open draw offer or takeback request, if any.
func (s *State) Pending() (GameControl, bool) {
	if s.pending == nil {
		return GameControl{}, false
	}
	return *s.pending, true
}

func (s *State) Reserve(c Color) map[Bug][]Piece {
	return s.board.Reserve(c, s.gameType)
}

// SpawnPositions are the cells where the player to move may place.
func (s *State) SpawnPositions() []Position {
	if s.status == Finished {
		return nil
	}
	return s.board.SpawnablePositions(s.TurnColor())
}

// LegalDestinations returns where p can be moved by the player to move,
// including Pillbug throws.
func (s *State) LegalDestinations(p Piece) []Position {
	if s.status == Finished {
		return nil
	}
	return s.board.Moves(s.TurnColor())[p]
}

// LegalMoves returns every movement available to the player to move.
func (s *State) LegalMoves() map[Piece][]Position {
	if s.status == Finished {
		return map[Piece][]Position{}
	}
	return s.board.Moves(s.TurnColor())
}

// placeable lists the pieces the player to move may place this turn, one
// per kind, honouring placement order and the Queen rules.
func (s *State) placeable() []Piece {
	c := s.TurnColor()
	n := s.board.placedCount(c) + 1
	queenDown := s.board.queenPlaced(c)
	var out []Piece
	for _, bug := range Bugs() {
		if !s.gameType.Has(bug) {
			continue
		}
		if bug == Queen && s.rules.queenForbidden(n) {
			continue
		}
		if bug != Queen && !queenDown && s.rules.queenRequired(n) {
			continue
		}
		if p, ok := s.board.nextInReserve(c, bug); ok {
			out = append(out, p)
		}
	}
	return out
}

// LegalActions enumerates every turn the player to move may take, in a
// deterministic order. A pass is offered only when nothing else is legal.
func (s *State) LegalActions() []Action {
	if s.status == Finished {
		return nil
	}
	var actions []Action
	if pieces := s.placeable(); len(pieces) > 0 {
		for _, to := range s.board.SpawnablePositions(s.TurnColor()) {
			for _, p := range pieces {
				actions = append(actions, PlaceOf(p, to))
			}
		}
	}
	moves := s.board.Moves(s.TurnColor())
	movers := make([]Piece, 0, len(moves))
	for p := range moves {
		movers = append(movers, p)
	}
	slices.SortFunc(movers, func(a, b Piece) int { return a.index() - b.index() })
	for _, p := range movers {
		from, _ := s.board.PositionOf(p)
		for _, to := range moves[p] {
			actions = append(actions, MoveOf(p, from, to))
		}
	}
	if len(actions) == 0 && s.rules.NoMoves == PassTurn {
		actions = append(actions, PassOf())
	}
	return actions
}

func (s *State) hasBoardActions() bool {
	if len(s.placeable()) > 0 && len(s.board.SpawnablePositions(s.TurnColor())) > 0 {
		return true
	}
	return len(s.board.Moves(s.TurnColor())) > 0
}

// Apply plays an action produced by LegalActions.
func (s *State) Apply(a Action) error {
	switch a.Type {
	case PlaceAction:
		return s.Place(a.Piece, a.To)
	case MoveAction:
		return s.Move(a.Piece, a.From, a.To)
	case PassAction:
		return s.Pass()
	}
	return errorf(InputMalformed, "unknown action type %d", a.Type)
}

// Place puts a piece from the reserve of the player to move onto the board.
func (s *State) Place(p Piece, pos Position) error {
	if s.status == Finished {
		return errorf(GameAlreadyFinished, "game is over: %s", s.result)
	}
	c := s.TurnColor()
	if p.Color != c {
		return errorf(IllegalPlacement, "it is %s's turn", c)
	}
	if !p.Valid() || !s.gameType.Has(p.Bug) {
		return errorf(IllegalPlacement, "%s is not part of a %s game", p, s.gameType)
	}
	if s.board.IsPlaced(p) {
		return errorf(IllegalPlacement, "%s is already on the board", p)
	}
	if !slices.Contains(s.placeable(), p) {
		if next, ok := s.board.nextInReserve(c, p.Bug); ok && next != p {
			return errorf(IllegalPlacement, "%s must be placed before %s", next, p)
		}
		if p.Bug == Queen {
			return errorf(IllegalPlacement, "the Queen may not be placed first")
		}
		return errorf(IllegalPlacement, "the Queen must be placed by placement %d", s.rules.QueenDeadline)
	}
	if err := s.board.Place(p, pos); err != nil {
		return err
	}
	s.record(Entry{Kind: Placement, Piece: p, Target: s.board.positionToken(p, pos), To: pos})
	return nil
}

// Move moves a piece on behalf of the player to move. The piece may belong
// to the opponent when it is thrown by a Pillbug.
func (s *State) Move(p Piece, from, to Position) error {
	if s.status == Finished {
		return errorf(GameAlreadyFinished, "game is over: %s", s.result)
	}
	if s.status == NotStarted {
		return errorf(IllegalMovement, "no piece has been placed yet")
	}
	if err := s.board.MovePiece(s.TurnColor(), p, from, to); err != nil {
		return err
	}
	s.record(Entry{Kind: Movement, Piece: p, Target: s.board.positionToken(p, to), From: from, To: to})
	return nil
}

// Pass skips the turn. It is legal only when the player to move has no
// placement or movement.
func (s *State) Pass() error {
	if s.status == Finished {
		return errorf(GameAlreadyFinished, "game is over: %s", s.result)
	}
	if s.hasBoardActions() {
		return errorf(IllegalMovement, "%s has legal moves and cannot pass", s.TurnColor())
	}
	s.board.clearLastMoved()
	s.record(Entry{Kind: PassEntry})
	return nil
}

// PlayTurn plays a turn given in notation: a piece and a position token, or
// "pass" with an empty position.
func (s *State) PlayTurn(piece, position string) error {
	if piece == passToken && position == "" {
		return s.Pass()
	}
	p, err := ParsePiece(piece)
	if err != nil {
		return err
	}
	to, err := s.board.ResolveToken(position)
	if err != nil {
		return err
	}
	if from, ok := s.board.PositionOf(p); ok {
		return s.Move(p, from, to)
	}
	return s.Place(p, to)
}

// record appends a board turn and advances the game.
func (s *State) record(e Entry) {
	e.Turn = s.turn
	s.history.append(e)
	s.turn++
	s.pending = nil
	if s.status == NotStarted {
		s.status = InProgress
	}
	log.Debug().Int("turn", e.Turn).Str("entry", e.String()).Msg("turn applied")

	white, black := s.board.QueenSurrounded(White), s.board.QueenSurrounded(Black)
	switch {
	case white && black:
		s.finish(Draw)
	case white:
		s.finish(BlackWins)
	case black:
		s.finish(WhiteWins)
	case s.rules.NoMoves == LoseGame && !s.hasBoardActions():
		s.finish(WinFor(s.TurnColor().Opposite()))
	}
}

func (s *State) finish(r Result) {
	s.status = Finished
	s.result = r
	s.history.Result = r
	s.pending = nil
	log.Debug().Str("result", r.String()).Int("turn", s.turn).Msg("game finished")
}

// Control applies an out-of-band action. Controls never change the board
// and do not consume a turn.
func (s *State) Control(gc GameControl) error {
	switch s.status {
	case NotStarted:
		return errorf(IllegalControl, "%s before the game started", gc)
	case Finished:
		return errorf(GameAlreadyFinished, "game is over: %s", s.result)
	}
	if gc.Kind < Resign || gc.Kind > TakebackReject || gc.Color > Black {
		return errorf(InputMalformed, "invalid control %v", gc)
	}

	switch gc.Kind {
	case Resign:
		s.recordControl(gc)
		s.finish(WinFor(gc.Color.Opposite()))
		return nil
	case DrawOffer, TakebackRequest:
		if s.pending != nil {
			return errorf(IllegalControl, "%s is still pending", s.pending)
		}
		// Taking back the opening turn would return the game to NotStarted.
		if gc.Kind == TakebackRequest && s.history.Turns() < 2 {
			return errorf(IllegalControl, "there is no turn to take back")
		}
		s.recordControl(gc)
		s.pending = &gc
		return nil
	}

	offer, _ := gc.Kind.offer()
	if s.pending == nil || s.pending.Kind != offer || s.pending.Color != gc.Color.Opposite() {
		return errorf(IllegalControl, "%s does not answer a pending %s from %s", gc, offer, gc.Color.Opposite())
	}
	switch gc.Kind {
	case DrawAccept:
		s.recordControl(gc)
		s.finish(Draw)
	case TakebackAccept:
		undone, err := s.Undo(1)
		if err != nil {
			return err
		}
		*s = *undone
	default:
		s.recordControl(gc)
		s.pending = nil
	}
	return nil
}

func (s *State) recordControl(gc GameControl) {
	s.history.append(Entry{Kind: ControlEntry, Control: gc, Turn: s.turn})
}

// Undo returns the game as it was n turns ago. The current state is left
// untouched; the result is rebuilt by replaying the shortened history.
func (s *State) Undo(n int) (*State, error) {
	h, err := s.history.truncated(n)
	if err != nil {
		return nil, err
	}
	return Replay(h)
}

// apply replays one recorded entry.
func (s *State) apply(e Entry) error {
	switch e.Kind {
	case PassEntry:
		return s.Pass()
	case ControlEntry:
		return s.Control(e.Control)
	}
	to, err := s.board.ResolveToken(e.Target)
	if err != nil {
		return err
	}
	if e.Kind == Placement {
		return s.Place(e.Piece, to)
	}
	from, ok := s.board.PositionOf(e.Piece)
	if !ok {
		return errorf(IllegalMovement, "%s is not on the board", e.Piece)
	}
	return s.Move(e.Piece, from, to)
}

// Replay rebuilds a game from its history. A result recorded in the history
// that the board alone does not explain, such as a timeout, is restored.
func Replay(h *History) (*State, error) {
	s := NewState(h.GameType, h.Rules)
	for i, e := range h.Entries {
		if err := s.apply(e); err != nil {
			return nil, fmt.Errorf("replaying entry %d %q: %w", i, e, err)
		}
	}
	if h.Result != Unknown && s.status != Finished {
		s.status = Finished
		s.result = h.Result
		s.history.Result = h.Result
		s.pending = nil
	}
	return s, nil
}

// LoadGame parses a game string and replays it.
func LoadGame(t GameType, rules Rules, gameString string, result Result) (*State, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	h, err := ParseHistory(t, rules, gameString)
	if err != nil {
		return nil, err
	}
	h.Result = result
	return Replay(h)
}
