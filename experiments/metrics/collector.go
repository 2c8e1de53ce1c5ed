package metrics

import (
	"time"

	"hive/game"
)

type MoveMetric struct {
	Step       int
	Player     game.Color
	Action     string
	Legal      int // number of legal actions offered
	Pinned     int
	Duration   time.Duration
	Evaluation float64
}

type GameMetric struct {
	GameType   game.GameType
	Result     game.Result
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalTurns int
	GameString string
	Hash       game.StateHash
}

type Collector interface {
	Start(step int, player game.Color)
	SetLegal(legal, pinned int)
	Complete(action game.Action, evaluation float64) MoveMetric
}

type collector struct {
	step      int
	player    game.Color
	legal     int
	pinned    int
	startTime time.Time
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(step int, player game.Color) {
	m.startTime = time.Now()
	m.step = step
	m.player = player
	m.legal, m.pinned = 0, 0
}

func (m *collector) SetLegal(legal, pinned int) {
	m.legal = legal
	m.pinned = pinned
}

func (m *collector) Complete(action game.Action, evaluation float64) MoveMetric {
	return MoveMetric{
		Step:       m.step,
		Player:     m.player,
		Action:     action.String(),
		Legal:      m.legal,
		Pinned:     m.pinned,
		Duration:   time.Since(m.startTime),
		Evaluation: evaluation,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(step int, player game.Color) {}
func (m *dummyCollector) SetLegal(legal, pinned int)        {}
func (m *dummyCollector) Complete(action game.Action, evaluation float64) MoveMetric {
	return MoveMetric{}
}
