package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hive/communication"
	"hive/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// ErrNoActions is returned when a player is asked to move in a finished game.
var ErrNoActions = errors.New("no legal actions")

// Player chooses the turn to play for the color to move.
type Player interface {
	TakeTurn(s *game.State) (game.Action, error)
}

// RandomPlayer picks uniformly among the legal actions.
type RandomPlayer struct {
	rng *rand.Rand
}

func NewRandomPlayer(seed uint64) *RandomPlayer {
	return &RandomPlayer{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPlayer) TakeTurn(s *game.State) (game.Action, error) {
	actions := s.LegalActions()
	if len(actions) == 0 {
		return game.Action{}, ErrNoActions
	}
	return actions[p.rng.Intn(len(actions))], nil
}

// PollInterval is how long a seat waits before asking for the game again.
const PollInterval = 20 * time.Millisecond

// Seat plays one color of a remote game through a Communicator.
type Seat struct {
	Color        game.Color
	Communicator communication.Communicator
	Player       Player
	// MaxTurns stops the seat once the game reaches this turn. Zero means no limit.
	MaxTurns  int
	LocalGame *game.State
}

func NewSeat(c game.Color, comm communication.Communicator, p Player) *Seat {
	return &Seat{
		Color:        c,
		Communicator: comm,
		Player:       p,
	}
}

// Play takes the seat's turns until the game is over, the turn limit is
// reached or ctx is done. It returns the last view seen.
func (s *Seat) Play(ctx context.Context) (communication.View, error) {
	for {
		view, err := s.SyncGameState(ctx)
		if err != nil {
			return view, err
		}
		if view.Status == game.Finished || (s.MaxTurns > 0 && view.Turn >= s.MaxTurns) {
			return view, nil
		}
		if view.ToMove != s.Color {
			select {
			case <-ctx.Done():
				return view, ctx.Err()
			case <-time.After(PollInterval):
			}
			continue
		}

		action, err := s.Player.TakeTurn(s.LocalGame)
		if err != nil {
			return view, err
		}
		log.Debug().Str("game", view.ID).Int("turn", view.Turn).Str("color", s.Color.String()).Msgf("sending %s", action)
		if err := s.Communicator.SendAction(ctx, action); err != nil {
			return view, fmt.Errorf("turn %d: %w", view.Turn, err)
		}
	}
}

// SyncGameState fetches the game and rebuilds the local copy from its history.
func (s *Seat) SyncGameState(ctx context.Context) (communication.View, error) {
	view, err := s.Communicator.GetGame(ctx)
	if err != nil {
		return view, err
	}
	local, err := view.Load()
	if err != nil {
		return view, fmt.Errorf("rebuilding game %s: %w", view.ID, err)
	}
	s.LocalGame = local
	return view, nil
}
