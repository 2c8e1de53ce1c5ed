// Package store persists games as their encoded history. A game is restored
// by replaying the game string, so nothing else about the board is stored.
package store

import (
	"context"
	"errors"
	"time"

	"hive/game"
)

var ErrNotFound = errors.New("game not found")

// Record is one stored game.
type Record struct {
	ID         string        `json:"id"`
	GameType   game.GameType `json:"game_type"`
	Rules      game.Rules    `json:"rules"`
	GameString string        `json:"game_string"`
	Turn       int           `json:"turn"`
	Status     game.Status   `json:"status"`
	Result     game.Result   `json:"result"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// NewRecord snapshots s under id.
func NewRecord(id string, s *game.State) Record {
	return Record{
		ID:         id,
		GameType:   s.GameType(),
		Rules:      s.Rules(),
		GameString: s.GameString(),
		Turn:       s.Turn(),
		Status:     s.Status(),
		Result:     s.Result(),
	}
}

// Load rebuilds the game the record describes.
func (r Record) Load() (*game.State, error) {
	return game.LoadGame(r.GameType, r.Rules, r.GameString, r.Result)
}

// Store defines the persistence interface for games.
type Store interface {
	// Save inserts or updates a game. CreatedAt is kept from the first save.
	Save(ctx context.Context, r Record) error

	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (Record, error)

	// List returns the stored games, most recently updated first.
	List(ctx context.Context) ([]Record, error)
}
