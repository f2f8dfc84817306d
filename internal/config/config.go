// Package config loads MagiCore settings from a YAML file, MAGICORE_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Game      GameConfig      `mapstructure:"game"`
	AI        AIConfig        `mapstructure:"ai"`
	CardDB    CardDBConfig    `mapstructure:"carddb"`
	Decks     DecksConfig     `mapstructure:"decks"`
	Replay    ReplayConfig    `mapstructure:"replay"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LoggingConfig selects the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds the rule settings of a match.
type GameConfig struct {
	StartingLife      int   `mapstructure:"starting_life"`
	OpeningHand       int   `mapstructure:"opening_hand"`
	MaxTurns          int   `mapstructure:"max_turns"`
	Seed              int64 `mapstructure:"seed"`
	EmptyLibraryLoses bool  `mapstructure:"empty_library_loses"`
}

// AIConfig tunes the computer players.
type AIConfig struct {
	Strategy               string `mapstructure:"strategy"`
	MaxExhaustiveAttackers int    `mapstructure:"max_exhaustive_attackers"`
}

// CardDBConfig selects where static card data comes from. Path is used by
// the json and sqlite drivers, DSN by postgres. An empty json path uses the
// builtin catalog.
type CardDBConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

// DecksConfig holds the deck list file of each player. An empty path uses
// the default deck.
type DecksConfig struct {
	Player0 string `mapstructure:"player0"`
	Player1 string `mapstructure:"player1"`
}

// ReplayConfig sets where replays are written. Empty disables saving.
type ReplayConfig struct {
	Dir string `mapstructure:"dir"`
}

// ServerConfig holds the listen addresses.
type ServerConfig struct {
	GRPCAddress string `mapstructure:"grpc_address"`
	WSAddress   string `mapstructure:"ws_address"`
}

// TelemetryConfig enables OTLP trace export.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// Card database drivers.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("game.starting_life", 20)
	v.SetDefault("game.opening_hand", 7)
	v.SetDefault("game.max_turns", 10)
	v.SetDefault("game.seed", 1)
	v.SetDefault("game.empty_library_loses", true)

	v.SetDefault("ai.strategy", "exhaustive")
	v.SetDefault("ai.max_exhaustive_attackers", 10)

	v.SetDefault("carddb.driver", DriverJSON)
	v.SetDefault("carddb.path", "")
	v.SetDefault("carddb.dsn", "")

	v.SetDefault("decks.player0", "")
	v.SetDefault("decks.player1", "")

	v.SetDefault("replay.dir", "")

	v.SetDefault("server.grpc_address", ":50051")
	v.SetDefault("server.ws_address", ":8080")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.service_name", "magicore")
}

// Load reads the config file at path, if any, and applies environment
// overrides such as MAGICORE_GAME_SEED. A missing file is not an error when
// path is empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MAGICORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with no file and no environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format: must be json or console, got %q", c.Logging.Format))
	}
	if c.Game.StartingLife <= 0 {
		errs = append(errs, fmt.Errorf("game.starting_life: must be positive, got %d", c.Game.StartingLife))
	}
	if c.Game.OpeningHand < 0 {
		errs = append(errs, fmt.Errorf("game.opening_hand: must not be negative, got %d", c.Game.OpeningHand))
	}
	if c.Game.MaxTurns <= 0 {
		errs = append(errs, fmt.Errorf("game.max_turns: must be positive, got %d", c.Game.MaxTurns))
	}
	if c.AI.Strategy != "exhaustive" && c.AI.Strategy != "greedy" {
		errs = append(errs, fmt.Errorf("ai.strategy: must be exhaustive or greedy, got %q", c.AI.Strategy))
	}
	if c.AI.MaxExhaustiveAttackers <= 0 {
		errs = append(errs, fmt.Errorf("ai.max_exhaustive_attackers: must be positive, got %d", c.AI.MaxExhaustiveAttackers))
	}
	switch c.CardDB.Driver {
	case DriverJSON:
	case DriverSQLite:
		if c.CardDB.Path == "" {
			errs = append(errs, errors.New("carddb.path: required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.CardDB.DSN == "" {
			errs = append(errs, errors.New("carddb.dsn: required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("carddb.driver: unknown driver %q", c.CardDB.Driver))
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint: required when telemetry is enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
