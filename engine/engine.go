package engine

import (
	"hive/experiments/metrics"
	"hive/game"
)

// Runner plays a game to the end.
type Runner interface {
	// Run plays until the game is finished or the turn limit is reached
	Run() (game.Result, metrics.GameMetric, []metrics.MoveMetric, error)
}

var _ Runner = (*Engine)(nil)
