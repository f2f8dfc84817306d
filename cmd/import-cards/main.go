// Command import-cards loads a JSON card database into the configured SQLite
// or PostgreSQL card store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Casiics/MagiCore/internal/bootstrap"
	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/Casiics/MagiCore/internal/carddb/postgres"
	"github.com/Casiics/MagiCore/internal/carddb/sqlite"
	"github.com/Casiics/MagiCore/internal/config"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	force      = flag.Bool("force", false, "replace existing cards without asking")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	// Get card file path from args or use default
	inputPath := "data/cards.json"
	if flag.NArg() > 0 {
		inputPath = flag.Arg(0)
	}

	absPath, err := filepath.Abs(inputPath)
	if err != nil {
		log.Fatalf("Failed to get absolute path: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := bootstrap.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	fmt.Println("=== MagiCore Card Import ===")
	fmt.Printf("Card file: %s\n", absPath)
	fmt.Printf("Driver: %s\n", cfg.CardDB.Driver)

	catalog, err := carddb.LoadJSON(absPath)
	if err != nil {
		log.Fatalf("Failed to read card file: %v", err)
	}
	cards := catalog.Cards()
	fmt.Printf("Found %d cards\n", len(cards))

	startTime := time.Now()
	var imported, failed int
	switch cfg.CardDB.Driver {
	case config.DriverSQLite:
		imported, err = importSQLite(ctx, cfg.CardDB.Path, cards)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	case config.DriverPostgres:
		imported, failed, err = importPostgres(ctx, cfg.CardDB.DSN, cards, logger)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	default:
		log.Fatalf("Driver %q has no card store; use sqlite or postgres", cfg.CardDB.Driver)
	}
	if imported == 0 && failed == 0 {
		return
	}

	duration := time.Since(startTime)

	fmt.Println("\n=== Import Complete ===")
	fmt.Printf("Imported: %d cards\n", imported)
	if failed > 0 {
		fmt.Printf("Failed: %d cards\n", failed)
	}
	fmt.Printf("Time taken: %s\n", duration)
	fmt.Printf("Rate: %.0f cards/second\n", float64(imported)/duration.Seconds())
}

func importSQLite(ctx context.Context, path string, cards []*carddb.Card) (int, error) {
	store, err := sqlite.Open(path)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	if err := store.UpsertCards(ctx, cards); err != nil {
		return 0, err
	}
	count, err := store.Count(ctx)
	if err == nil {
		fmt.Printf("\nTotal cards in database: %d\n", count)
	}
	return len(cards), nil
}

func importPostgres(ctx context.Context, dsn string, cards []*carddb.Card, logger *zap.Logger) (int, int, error) {
	fmt.Printf("Connecting to database...\n")
	store, err := postgres.Open(ctx, dsn, logger)
	if err != nil {
		return 0, 0, err
	}
	defer store.Close()
	fmt.Println("Database connection established")

	existing, err := store.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	if existing > 0 {
		fmt.Printf("Warning: Database already contains %d cards\n", existing)
		if !*force && !confirm("Do you want to clear and reimport? (yes/no): ") {
			fmt.Println("Import cancelled")
			return 0, 0, nil
		}
		fmt.Println("Clearing existing cards...")
		if err := store.Truncate(ctx); err != nil {
			return 0, 0, err
		}
	}

	fmt.Println("Importing cards...")
	result, err := store.Import(ctx, cards)
	if err != nil {
		return result.Imported, result.Failed, err
	}

	if finalCount, err := store.Count(ctx); err == nil {
		fmt.Printf("\nTotal cards in database: %d\n", finalCount)
	}
	return result.Imported, result.Failed, nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	var response string
	fmt.Fscanln(os.Stdin, &response)
	return strings.ToLower(response) == "yes"
}
