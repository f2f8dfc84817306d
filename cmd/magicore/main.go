// Command magicore plays AI-versus-AI matches from the command line and
// prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Casiics/MagiCore/internal/bootstrap"
	"github.com/Casiics/MagiCore/internal/config"
	"github.com/Casiics/MagiCore/internal/simulation"
	"github.com/Casiics/MagiCore/internal/telemetry"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	seed       = flag.Int64("seed", 0, "override game.seed when non-zero")
	bestOf     = flag.Int("best-of", 1, "play a best-of-N series instead of one game")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "magicore: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}
	if *bestOf < 1 || *bestOf%2 == 0 {
		return fmt.Errorf("best-of must be a positive odd number, got %d", *bestOf)
	}

	logger, err := bootstrap.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("set up telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	catalog, err := bootstrap.OpenCatalog(ctx, cfg.CardDB, logger)
	if err != nil {
		return err
	}
	lists, err := bootstrap.LoadDecks(cfg.Decks)
	if err != nil {
		return err
	}
	decks, err := bootstrap.ResolveDecks(lists, catalog)
	if err != nil {
		return err
	}
	opts := simulation.OptionsFromConfig(cfg)

	var out any
	if *bestOf == 1 {
		res, err := simulation.NewRunner(logger, opts, nil).Run(ctx, decks)
		if err != nil {
			return err
		}
		out = res
	} else {
		manager := simulation.NewManager(logger)
		series := manager.CreateSeries(
			fmt.Sprintf("%s vs %s", lists[0].Name, lists[1].Name),
			[2]string{lists[0].Name, lists[1].Name},
			(*bestOf+1)/2,
		)
		if err := series.Play(ctx, logger, opts, decks); err != nil {
			return err
		}
		out = series.Snapshot()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
