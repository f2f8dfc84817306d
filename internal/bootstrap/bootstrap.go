// Package bootstrap wires the configured logger, card catalog and decks for
// the command line tools.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/Casiics/MagiCore/internal/carddb/postgres"
	"github.com/Casiics/MagiCore/internal/carddb/sqlite"
	"github.com/Casiics/MagiCore/internal/config"
	"github.com/Casiics/MagiCore/internal/deck"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the zap logger described by cfg.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// OpenCatalog loads the card catalog from the configured driver. A json
// driver with no path gives the builtin catalog.
func OpenCatalog(ctx context.Context, cfg config.CardDBConfig, logger *zap.Logger) (*carddb.Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		catalog *carddb.Catalog
		err     error
	)
	switch cfg.Driver {
	case "", config.DriverJSON:
		if cfg.Path == "" {
			catalog = carddb.Builtin()
		} else {
			catalog, err = carddb.LoadJSON(cfg.Path)
		}
	case config.DriverSQLite:
		var store *sqlite.Store
		store, err = sqlite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		catalog, err = store.Catalog(ctx)
	case config.DriverPostgres:
		var store *postgres.Store
		store, err = postgres.Open(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		catalog, err = store.Catalog(ctx)
	default:
		return nil, fmt.Errorf("unknown card db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s card db: %w", cfg.Driver, err)
	}

	logger.Info("card catalog loaded",
		zap.String("driver", cfg.Driver),
		zap.Int("cards", catalog.Len()),
	)
	return catalog, nil
}

// LoadDecks reads both players' deck lists. An empty path gives deck.Default.
func LoadDecks(cfg config.DecksConfig) ([2]*deck.List, error) {
	var lists [2]*deck.List
	for i, path := range []string{cfg.Player0, cfg.Player1} {
		if path == "" {
			lists[i] = deck.Default()
			continue
		}
		list, err := deck.Load(path)
		if err != nil {
			return lists, fmt.Errorf("player %d deck: %w", i, err)
		}
		lists[i] = list
	}
	return lists, nil
}

// ResolveDecks resolves both lists against provider.
func ResolveDecks(lists [2]*deck.List, provider carddb.Provider) ([2][]*carddb.Card, error) {
	var decks [2][]*carddb.Card
	for i, list := range lists {
		cards, err := list.Resolve(provider)
		if err != nil {
			return decks, fmt.Errorf("player %d: %w", i, err)
		}
		decks[i] = cards
	}
	return decks, nil
}
