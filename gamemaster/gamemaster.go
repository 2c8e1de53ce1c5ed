package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"hive/game"
	"hive/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrGameNotFound is returned for ids that are neither live nor stored.
var ErrGameNotFound = errors.New("game not found")

// GameMaster owns the live games. Games are independent: each session has
// its own lock and the master only guards the session table.
type GameMaster struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    store.Store
}

// NewGameMaster initializes a new GameMaster persisting to st.
func NewGameMaster(st store.Store) *GameMaster {
	return &GameMaster{
		sessions: make(map[string]*Session),
		store:    st,
	}
}

// Create starts a new game and stores it.
func (gm *GameMaster) Create(ctx context.Context, t game.GameType, rules game.Rules) (*Session, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	id := uuid.NewString()
	s := newSession(id, game.NewState(t, rules), gm.store)
	if err := gm.store.Save(ctx, store.NewRecord(id, s.state)); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	gm.mu.Lock()
	gm.sessions[id] = s
	gm.mu.Unlock()

	log.Info().Str("game", id).Str("type", t.String()).Msg("game created")
	return s, nil
}

// Get returns the live session of a game, rebuilding it from storage on
// first access. The table lock is not held while a game is restored.
func (gm *GameMaster) Get(ctx context.Context, id string) (*Session, error) {
	gm.mu.Lock()
	s, ok := gm.sessions[id]
	gm.mu.Unlock()
	if ok {
		return s, nil
	}

	r, err := gm.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	state, err := r.Load()
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", id, err)
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	// Another request may have restored the game meanwhile.
	if s, ok := gm.sessions[id]; ok {
		return s, nil
	}
	s = newSession(id, state, gm.store)
	gm.sessions[id] = s
	log.Info().Str("game", id).Int("turn", state.Turn()).Msg("game restored")
	return s, nil
}

// List returns the stored games.
func (gm *GameMaster) List(ctx context.Context) ([]store.Record, error) {
	return gm.store.List(ctx)
}
