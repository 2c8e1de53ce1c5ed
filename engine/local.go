package engine

import (
	"errors"
	"fmt"
	"time"

	"hive/experiments/metrics"
	"hive/game"
	"hive/meta"
	"hive/player"

	"github.com/rs/zerolog/log"
)

// ErrBrokenHive is returned when a turn leaves the hive disconnected.
var ErrBrokenHive = errors.New("hive is not connected")

// ErrReplayMismatch is returned when replaying the recorded history does not
// reproduce the game.
var ErrReplayMismatch = errors.New("replay does not reproduce the game")

type Engine struct {
	State     *game.State
	Players   [2]player.Player // indexed by game.Color
	MaxTurns  int
	Collector metrics.Collector
	Updates   []Update
}

type Update struct {
	Action game.Action
	Turn   int
	Hash   game.StateHash
}

func LocalEngine(t game.GameType, r game.Rules, white, black player.Player) *Engine {
	if white == nil || black == nil {
		panic("need two players")
	}
	return &Engine{
		State:     game.NewState(t, r),
		Players:   [2]player.Player{white, black},
		MaxTurns:  meta.MAX_TURNS,
		Collector: metrics.NewDummyCollector(),
	}
}

// Run executes the entire game loop until the game is finished or MaxTurns
// turns have been played. An unfinished game reports game.Unknown.
func (e *Engine) Run() (game.Result, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		GameType:  e.State.GameType(),
		StartTime: time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	for e.State.Status() != game.Finished && e.State.Turn() < e.MaxTurns {
		turn, color := e.State.Turn(), e.State.TurnColor()
		e.Collector.Start(turn, color)

		legal := e.State.LegalActions()
		e.Collector.SetLegal(len(legal), len(e.State.Pinned()))

		action, err := e.Players[color].TakeTurn(e.State)
		if err != nil {
			return game.Unknown, gameMetric, moveMetrics, fmt.Errorf("turn %d: %s: %w", turn, color, err)
		}
		if err := e.State.Apply(action); err != nil {
			return game.Unknown, gameMetric, moveMetrics, fmt.Errorf("turn %d: %s played %s: %w", turn, color, action, err)
		}
		if !e.State.Board().IsConnected() {
			return game.Unknown, gameMetric, moveMetrics, fmt.Errorf("turn %d: after %s: %w", turn, action, ErrBrokenHive)
		}

		moveMetrics = append(moveMetrics, e.Collector.Complete(action, game.Evaluate(e.State)))
		e.Updates = append(e.Updates, Update{
			Action: action,
			Turn:   turn,
			Hash:   e.State.Hash(),
		})
	}

	if err := e.checkReplay(); err != nil {
		return game.Unknown, gameMetric, moveMetrics, err
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalTurns = e.State.Turn()
	gameMetric.Result = e.State.Result()
	gameMetric.GameString = e.State.GameString()
	gameMetric.Hash = e.State.Hash()

	if e.State.Status() == game.Finished {
		log.Info().Int("turns", gameMetric.TotalTurns).Str("result", gameMetric.Result.String()).Msg("game finished")
	} else {
		log.Info().Msgf("stopped after %d turns without a result", e.MaxTurns)
	}
	return e.State.Result(), gameMetric, moveMetrics, nil
}

// checkReplay rebuilds the game from its encoded history and compares it to
// the live state.
func (e *Engine) checkReplay() error {
	replayed, err := game.LoadGame(e.State.GameType(), e.State.Rules(), e.State.GameString(), game.Unknown)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReplayMismatch, err)
	}
	if replayed.Hash() != e.State.Hash() || replayed.Turn() != e.State.Turn() || replayed.Result() != e.State.Result() {
		return fmt.Errorf("%w: turn %d hash %x, replayed turn %d hash %x", ErrReplayMismatch,
			e.State.Turn(), uint64(e.State.Hash()), replayed.Turn(), uint64(replayed.Hash()))
	}
	return nil
}
