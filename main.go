package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"hive/communication"
	"hive/communication/client"
	"hive/communication/server"
	"hive/experiments"
	"hive/game"
	"hive/gamemaster"
	"hive/meta"
	"hive/player"
	"hive/store"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	mode := flag.String("mode", "serve", "serve, selfplay, throughput, replay or bot")
	gameType := flag.String("type", "Base+MLP", "game type, e.g. Base or Base+MLP")
	numGames := flag.Int("games", meta.NUM_GAMES, "number of self-play games")
	goroutines := flag.Int("goroutines", meta.GO_ROUTINES, "number of games played concurrently")
	maxTurns := flag.Int("turns", meta.MAX_TURNS, "turn limit of a self-play game")
	out := flag.String("out", "experiments", "directory for experiment records")
	history := flag.String("history", "", "game string to replay; read from stdin if empty")
	serverURL := flag.String("url", "http://localhost:"+meta.DEFAULT_PORT, "game server for bot mode")
	gameID := flag.String("game", "", "game id for bot mode")
	token := flag.String("token", "", "seat token for bot mode")
	seed := flag.Uint64("seed", meta.SEED, "random seed")
	tournament := flag.Bool("tournament", false, "forbid the Queen as a first placement")
	deadline := flag.Int("deadline", game.NewStandardRules().QueenDeadline, "placement by which the Queen must be down, 0 for none")
	noMoves := flag.String("nomoves", game.NewStandardRules().NoMoves.String(), "Pass or Loss when a player has no legal action")
	flag.Parse()

	t, err := game.ParseGameType(*gameType)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid game type")
	}
	rules, err := parseRules(*tournament, *deadline, *noMoves)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid rules")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *mode {
	case "serve":
		serve(ctx)
	case "selfplay", "throughput":
		cfg := experiments.DefaultConfig()
		cfg.OutDir = *out
		cfg.NumGames = *numGames
		cfg.Goroutines = *goroutines
		cfg.MaxTurns = *maxTurns
		cfg.GameType = t
		cfg.Rules = rules
		cfg.Seed = *seed
		if *mode == "throughput" {
			if _, err := experiments.RunThroughputExperiment(ctx, cfg, []int{1, 2, 4, 8, 16}); err != nil {
				log.Fatal().Err(err).Msg("throughput experiment failed")
			}
			return
		}
		dir, err := experiments.RunSelfPlay(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("self-play failed")
		}
		log.Info().Str("dir", dir).Msg("records written")
	case "replay":
		replay(t, rules, *history)
	case "bot":
		bot(ctx, *serverURL, *gameID, *token, *seed)
	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

func serve(ctx context.Context) {
	dbPath := getEnv("DB_PATH", meta.DEFAULT_DB_PATH)
	st, closeDB, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", dbPath).Msg("failed to open store")
	}
	defer closeDB()

	ttl := 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			ttl = time.Duration(n) * time.Hour
		}
	}
	srv := server.New(gamemaster.NewGameMaster(st), getEnv("JWT_SECRET", "dev_secret_change_me"), ttl)
	port := getEnv("PORT", meta.DEFAULT_PORT)
	if err := srv.Start(ctx, ":"+port); err != nil {
		log.Error().Err(err).Msg("server exited")
	}
}

// parseRules builds the rule set a game string was recorded under.
func parseRules(tournament bool, deadline int, noMoves string) (game.Rules, error) {
	rules := game.Rules{TournamentQueenRule: tournament, QueenDeadline: deadline}
	if err := rules.NoMoves.UnmarshalText([]byte(noMoves)); err != nil {
		return game.Rules{}, err
	}
	if err := rules.Validate(); err != nil {
		return game.Rules{}, err
	}
	return rules, nil
}

// replay rebuilds a game from its game string and prints the resulting view.
func replay(t game.GameType, rules game.Rules, history string) {
	if history == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read game string")
		}
		history = strings.TrimSpace(string(data))
	}
	s, err := game.LoadGame(t, rules, history, game.Unknown)
	if err != nil {
		log.Fatal().Err(err).Msg("replay failed")
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(communication.NewView("replay", s)); err != nil {
		log.Fatal().Err(err).Msg("failed to print game")
	}
}

// bot plays one seat of a game on a remote server with a random player. The
// seat's color is read from its token.
func bot(ctx context.Context, url, id, token string, seed uint64) {
	comm := client.NewClientCommunicator(url, id, token)
	color, err := client.SeatColor(token)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid seat token")
	}
	seat := player.NewSeat(color, comm, player.NewRandomPlayer(seed))
	view, err := seat.Play(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("game", id).Msg("bot stopped")
	}
	log.Info().Str("game", id).Str("result", view.Result.String()).Int("turn", view.Turn).Msg("bot finished")
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
