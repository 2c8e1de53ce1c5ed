package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"hive/communication"
	"hive/game"
	"hive/store"

	"github.com/rs/zerolog/log"
)

// ErrNotYourTurn is returned when a seat acts while the other color is to move.
var ErrNotYourTurn = errors.New("not your turn")

// updateBuffer is the number of updates a slow subscriber may fall behind
// before updates to it are dropped.
const updateBuffer = 16

// Session serializes the commands of one game and persists the game after
// every accepted command.
type Session struct {
	ID string

	mu          sync.Mutex
	state       *game.State
	store       store.Store
	subscribers map[chan communication.Update]struct{}
}

func newSession(id string, state *game.State, st store.Store) *Session {
	return &Session{
		ID:          id,
		state:       state,
		store:       st,
		subscribers: make(map[chan communication.Update]struct{}),
	}
}

// View snapshots the game.
func (s *Session) View() communication.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return communication.NewView(s.ID, s.state)
}

// State returns a copy of the game.
func (s *Session) State() *game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Copy()
}

// LegalActions lists the turns the player to move may take.
func (s *Session) LegalActions() []game.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LegalActions()
}

// Play applies an action on behalf of color by.
func (s *Session) Play(ctx context.Context, by game.Color, a game.Action) (communication.View, error) {
	return s.command(ctx, func(next *game.State) (communication.Update, error) {
		if err := checkTurn(next, by); err != nil {
			return communication.Update{}, err
		}
		if err := next.Apply(a); err != nil {
			return communication.Update{}, err
		}
		return communication.Update{Action: &a}, nil
	})
}

// PlayTurn applies a turn given in notation on behalf of color by.
func (s *Session) PlayTurn(ctx context.Context, by game.Color, piece, position string) (communication.View, error) {
	return s.command(ctx, func(next *game.State) (communication.Update, error) {
		if err := checkTurn(next, by); err != nil {
			return communication.Update{}, err
		}
		if err := next.PlayTurn(piece, position); err != nil {
			return communication.Update{}, err
		}
		return communication.Update{}, nil
	})
}

// Control applies a control action. Controls may be sent by either color at
// any time.
func (s *Session) Control(ctx context.Context, gc game.GameControl) (communication.View, error) {
	return s.command(ctx, func(next *game.State) (communication.Update, error) {
		if err := next.Control(gc); err != nil {
			return communication.Update{}, err
		}
		return communication.Update{Control: &gc}, nil
	})
}

func checkTurn(s *game.State, by game.Color) error {
	if s.Status() == game.Finished {
		return nil // let the engine report the finished game
	}
	if s.TurnColor() != by {
		return fmt.Errorf("%w: %s is to move", ErrNotYourTurn, s.TurnColor())
	}
	return nil
}

// command runs fn on a copy of the game and commits the copy once it is
// stored. A rejected or unsaved command leaves the game untouched.
func (s *Session) command(ctx context.Context, fn func(next *game.State) (communication.Update, error)) (communication.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Copy()
	u, err := fn(next)
	if err != nil {
		log.Debug().Err(err).Str("game", s.ID).Int("turn", s.state.Turn()).Msg("command rejected")
		return communication.View{}, err
	}
	if err := s.store.Save(ctx, store.NewRecord(s.ID, next)); err != nil {
		log.Error().Err(err).Str("game", s.ID).Msg("failed to store game")
		return communication.View{}, fmt.Errorf("store game %s: %w", s.ID, err)
	}
	s.state = next

	u.Game = s.ID
	u.Turn = next.Turn()
	u.Status = next.Status()
	u.Result = next.Result()
	s.publish(u)
	log.Info().Str("game", s.ID).Int("turn", u.Turn).Str("status", u.Status.String()).Msg("command applied")
	return communication.NewView(s.ID, next), nil
}

// Subscribe returns a channel receiving an update after every accepted
// command, and a function to unsubscribe. The channel is closed when the
// game finishes; for a finished game it is closed immediately.
func (s *Session) Subscribe() (<-chan communication.Update, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan communication.Update, updateBuffer)
	if s.state.Status() == game.Finished {
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
	}
}

// publish must be called with s.mu held.
func (s *Session) publish(u communication.Update) {
	for ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			log.Warn().Str("game", s.ID).Int("turn", u.Turn).Msg("subscriber is behind, dropping update")
		}
		if u.Status == game.Finished {
			delete(s.subscribers, ch)
			close(ch)
		}
	}
}
