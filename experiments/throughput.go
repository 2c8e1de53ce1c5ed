package experiments

import (
	"context"
	"fmt"
	"time"

	"hive/experiments/metrics"

	"github.com/rs/zerolog/log"
)

// RunThroughputExperiment plays the same games with an increasing number of
// goroutines and records how many games per second each setting completes.
func RunThroughputExperiment(ctx context.Context, cfg Config, goroutines []int) ([]metrics.ThroughputRecord, error) {
	records := make([]metrics.ThroughputRecord, 0, len(goroutines))

	log.Info().Msg("starting throughput experiment...")

	for _, n := range goroutines {
		run := cfg
		run.Goroutines = n

		start := time.Now()
		games, _, err := playGames(ctx, run)
		if err != nil {
			return nil, err
		}
		elapsed := time.Since(start)

		turns := 0
		for _, g := range games {
			turns += g.TotalTurns
		}
		record := metrics.ThroughputRecord{
			Goroutines: n,
			Games:      len(games),
			Turns:      turns,
			Duration:   elapsed,
		}
		records = append(records, record)
		log.Info().Msgf("goroutines=%d: %.1f games/s", n, record.GamesPerSecond())
	}

	writer, err := metrics.NewWriter(cfg.OutDir, "throughput")
	if err != nil {
		return nil, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	err = writer.WriteThroughputRecords(records)
	if err != nil {
		return nil, fmt.Errorf("failed to write throughput records: %w", err)
	}
	log.Info().Msg("stored throughput records")
	return records, nil
}
