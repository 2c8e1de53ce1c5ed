package communication

import (
	"context"
	"fmt"
	"sort"

	"hive/game"
)

// Communicator is an interface that abstracts the communication mechanism
// between a seated player and the game server.
type Communicator interface {
	GetGame(ctx context.Context) (View, error)
	SendAction(ctx context.Context, action game.Action) error
	SendControl(ctx context.Context, kind game.ControlKind) error
}

// Cell is one occupied board cell, bottom piece first.
type Cell struct {
	Position game.Position `json:"position"`
	Pieces   []game.Piece  `json:"pieces"`
}

// View is the public snapshot of a game.
type View struct {
	ID         string                    `json:"id"`
	GameType   game.GameType             `json:"game_type"`
	Rules      game.Rules                `json:"rules"`
	Status     game.Status               `json:"status"`
	Result     game.Result               `json:"result"`
	Turn       int                       `json:"turn"`
	ToMove     game.Color                `json:"to_move"`
	GameString string                    `json:"game_string"`
	Hash       string                    `json:"hash"`
	Cells      []Cell                    `json:"cells"`
	Pinned     []game.Piece              `json:"pinned"`
	Reserve    map[string]map[string]int `json:"reserve"`
	Pending    *game.GameControl         `json:"pending,omitempty"`
}

// NewView snapshots s. Cells are ordered by position.
func NewView(id string, s *game.State) View {
	stacks := s.Stacks()
	cells := make([]Cell, 0, len(stacks))
	for pos, pieces := range stacks {
		cells = append(cells, Cell{Position: pos, Pieces: pieces})
	}
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].Position.Compare(cells[j].Position) < 0
	})

	v := View{
		ID:         id,
		GameType:   s.GameType(),
		Rules:      s.Rules(),
		Status:     s.Status(),
		Result:     s.Result(),
		Turn:       s.Turn(),
		ToMove:     s.TurnColor(),
		GameString: s.GameString(),
		Hash:       fmt.Sprintf("%016x", uint64(s.Hash())),
		Cells:      cells,
		Pinned:     s.Pinned(),
		Reserve: map[string]map[string]int{
			game.White.String(): game.ReserveCounts(s.Reserve(game.White)),
			game.Black.String(): game.ReserveCounts(s.Reserve(game.Black)),
		},
	}
	if gc, ok := s.Pending(); ok {
		v.Pending = &gc
	}
	return v
}

// Load rebuilds the game a view describes.
func (v View) Load() (*game.State, error) {
	return game.LoadGame(v.GameType, v.Rules, v.GameString, v.Result)
}

// Update is pushed to subscribers after every accepted command.
type Update struct {
	Game    string            `json:"game"`
	Turn    int               `json:"turn"`
	Action  *game.Action      `json:"action,omitempty"`
	Control *game.GameControl `json:"control,omitempty"`
	Status  game.Status       `json:"status"`
	Result  game.Result       `json:"result"`
}

// CreateRequest opens a game. Empty fields take the standard defaults.
type CreateRequest struct {
	GameType string      `json:"game_type"`
	Rules    *game.Rules `json:"rules,omitempty"`
}

// CreateResponse carries the game id and one bearer token per seat.
type CreateResponse struct {
	ID     string            `json:"id"`
	Tokens map[string]string `json:"tokens"`
	View   View              `json:"view"`
}

// TurnRequest plays a turn in notation, e.g. {"piece":"bA1","position":"wQ-"}.
type TurnRequest struct {
	Piece    string `json:"piece"`
	Position string `json:"position"`
}

type PlaceRequest struct {
	Piece game.Piece    `json:"piece"`
	To    game.Position `json:"to"`
}

type MoveRequest struct {
	Piece game.Piece    `json:"piece"`
	From  game.Position `json:"from"`
	To    game.Position `json:"to"`
}

type ControlRequest struct {
	Kind game.ControlKind `json:"kind"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
