// meta/meta.go
package meta

// GO_ROUTINES defines the number of self-play games run concurrently.
const GO_ROUTINES = 8

// NUM_GAMES defines the number of self-play games per experiment.
const NUM_GAMES = 100

// MAX_TURNS defines the turn limit after which a self-play game is abandoned.
const MAX_TURNS = 400

// SEED defines the base seed of the random players.
const SEED = 42

// DEFAULT_PORT defines the port the game server listens on.
const DEFAULT_PORT = "8080"

// DEFAULT_DB_PATH defines the SQLite file holding stored games.
const DEFAULT_DB_PATH = "hive.db"
