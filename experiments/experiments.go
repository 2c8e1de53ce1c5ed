package experiments

import (
	"context"
	"fmt"
	"sync"

	"hive/engine"
	"hive/experiments/metrics"
	"hive/game"
	"hive/meta"
	"hive/player"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Name       string
	OutDir     string
	NumGames   int
	Goroutines int
	MaxTurns   int
	GameType   game.GameType
	Rules      game.Rules
	Seed       uint64
}

func DefaultConfig() Config {
	return Config{
		Name:       "selfplay",
		OutDir:     "experiments",
		NumGames:   meta.NUM_GAMES,
		Goroutines: meta.GO_ROUTINES,
		MaxTurns:   meta.MAX_TURNS,
		GameType:   game.BaseMLP,
		Rules:      game.NewStandardRules(),
		Seed:       meta.SEED,
	}
}

// RunSelfPlay plays cfg.NumGames random games, cfg.Goroutines at a time, and
// stores the records under cfg.OutDir. It returns the directory written.
func RunSelfPlay(ctx context.Context, cfg Config) (string, error) {
	log.Info().Msgf("starting %s experiment with %d games on %d goroutines...", cfg.Name, cfg.NumGames, cfg.Goroutines)

	gameRecords, moveRecords, err := playGames(ctx, cfg)
	if err != nil {
		return "", err
	}
	log.Info().Msgf("completed %s experiment", cfg.Name)

	writer, err := metrics.NewWriter(cfg.OutDir, cfg.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	configs := make([]metrics.PlayerConfig, 0, 2*cfg.NumGames)
	for i := 0; i < cfg.NumGames; i++ {
		white, black := seeds(cfg.Seed, i)
		configs = append(configs,
			metrics.PlayerConfig{ID: 2*i + 1, Kind: "random", Seed: white},
			metrics.PlayerConfig{ID: 2*i + 2, Kind: "random", Seed: black},
		)
	}
	err = writer.WritePlayerConfigs(configs)
	if err != nil {
		return "", fmt.Errorf("failed to store player configs: %w", err)
	}
	log.Info().Msg("stored player configs")

	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moveRecords)
	if err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return writer.Dir(), nil
}

// seeds derives the player seeds of game i.
func seeds(base uint64, i int) (uint64, uint64) {
	return base + uint64(2*i), base + uint64(2*i+1)
}

// playGames runs the games of cfg concurrently. Each game owns its state, so
// the goroutines share nothing but the record slices.
func playGames(ctx context.Context, cfg Config) ([]metrics.GameRecord, []metrics.MoveRecord, error) {
	var (
		mu          sync.Mutex
		gameRecords = make([]metrics.GameRecord, cfg.NumGames)
		moveRecords []metrics.MoveRecord
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Goroutines, 1))
	for i := 0; i < cfg.NumGames; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, moves := runGame(cfg, i)

			mu.Lock()
			defer mu.Unlock()
			gameRecords[i] = record
			moveRecords = append(moveRecords, moves...)
			log.Info().Msgf("completed game %d of %d with result: %s", i+1, cfg.NumGames, record.Result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return gameRecords, moveRecords, nil
}

// runGame plays game i between two random players. A rules violation caught
// by the engine is recorded rather than aborting the experiment.
func runGame(cfg Config, i int) (metrics.GameRecord, []metrics.MoveRecord) {
	whiteSeed, blackSeed := seeds(cfg.Seed, i)
	e := engine.LocalEngine(cfg.GameType, cfg.Rules, player.NewRandomPlayer(whiteSeed), player.NewRandomPlayer(blackSeed))
	e.MaxTurns = cfg.MaxTurns
	e.Collector = metrics.NewCollector()

	_, gameMetric, moveMetrics, err := e.Run()
	record := metrics.GameRecord{
		ID:         i + 1,
		White:      2*i + 1,
		Black:      2*i + 2,
		GameMetric: gameMetric,
	}
	if err != nil {
		log.Error().Err(err).Int("game", i+1).Msg("game aborted")
		record.Err = err.Error()
	}

	moves := make([]metrics.MoveRecord, 0, len(moveMetrics))
	for _, mm := range moveMetrics {
		moves = append(moves, metrics.MoveRecord{
			Game:       record.ID,
			MoveMetric: mm,
		})
	}
	return record, moves
}
