// Package postgres provides a PostgreSQL card store backed by pgxpool.
package postgres

import (
	"context"
	"fmt"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS cards (
	oracle_id      TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	mana_cost      TEXT NOT NULL DEFAULT '',
	cmc            DOUBLE PRECISION NOT NULL DEFAULT 0,
	type_line      TEXT NOT NULL DEFAULT '',
	oracle_text    TEXT NOT NULL DEFAULT '',
	power          TEXT,
	toughness      TEXT,
	colors         TEXT[] NOT NULL DEFAULT '{}',
	color_identity TEXT[] NOT NULL DEFAULT '{}',
	keywords       TEXT[] NOT NULL DEFAULT '{}',
	legalities     JSONB NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_cards_name ON cards (lower(name));
`

// DefaultBatchSize is the number of cards written per transaction.
const DefaultBatchSize = 1000

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Imported int
	Failed   int
}

// Store persists static card records in PostgreSQL.
type Store struct {
	pool      *pgxpool.Pool
	logger    *zap.Logger
	batchSize int
}

// Open connects, pings and ensures the schema exists.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{pool: pool, logger: logger, batchSize: DefaultBatchSize}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// SetBatchSize overrides the import batch size.
func (s *Store) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// Count returns the number of stored cards.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM cards").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return n, nil
}

// Truncate removes every card.
func (s *Store) Truncate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "TRUNCATE cards"); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}
	return nil
}

// Import upserts cards in batches, one transaction per batch. A failed batch is
// counted and skipped so the rest of the import continues.
func (s *Store) Import(ctx context.Context, cards []*carddb.Card) (ImportResult, error) {
	var result ImportResult
	for i := 0; i < len(cards); i += s.batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		end := min(i+s.batchSize, len(cards))
		batch := cards[i:end]

		if err := s.importBatch(ctx, batch); err != nil {
			s.logger.Warn("failed to import batch",
				zap.Int("offset", i),
				zap.Int("size", len(batch)),
				zap.Error(err),
			)
			result.Failed += len(batch)
			continue
		}
		result.Imported += len(batch)
		s.logger.Debug("imported batch", zap.Int("imported", result.Imported), zap.Int("total", len(cards)))
	}
	return result, nil
}

func (s *Store) importBatch(ctx context.Context, batch []*carddb.Card) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	b := &pgx.Batch{}
	for _, card := range batch {
		legalities := card.Legalities
		if legalities == nil {
			legalities = map[string]string{}
		}
		b.Queue(`
			INSERT INTO cards (oracle_id, name, mana_cost, cmc, type_line, oracle_text,
			                   power, toughness, colors, color_identity, keywords, legalities)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (oracle_id) DO UPDATE SET
				name = EXCLUDED.name,
				mana_cost = EXCLUDED.mana_cost,
				cmc = EXCLUDED.cmc,
				type_line = EXCLUDED.type_line,
				oracle_text = EXCLUDED.oracle_text,
				power = EXCLUDED.power,
				toughness = EXCLUDED.toughness,
				colors = EXCLUDED.colors,
				color_identity = EXCLUDED.color_identity,
				keywords = EXCLUDED.keywords,
				legalities = EXCLUDED.legalities`,
			card.OracleID, card.Name, card.ManaCost, card.CMC, card.TypeLine, card.OracleText,
			carddb.FormatStat(card.Power), carddb.FormatStat(card.Toughness),
			nonNil(card.Colors), nonNil(card.ColorIdentity), nonNil(card.Keywords), legalities,
		)
	}
	if err := tx.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("insert cards: %w", err)
	}
	return tx.Commit(ctx)
}

// Catalog loads every stored card into an immutable catalog.
func (s *Store) Catalog(ctx context.Context) (*carddb.Catalog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT oracle_id, name, mana_cost, cmc, type_line, oracle_text,
		       power, toughness, colors, color_identity, keywords, legalities
		  FROM cards
		 ORDER BY oracle_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []carddb.Card
	for rows.Next() {
		var (
			card             carddb.Card
			power, toughness *string
		)
		if err := rows.Scan(&card.OracleID, &card.Name, &card.ManaCost, &card.CMC, &card.TypeLine,
			&card.OracleText, &power, &toughness, &card.Colors, &card.ColorIdentity, &card.Keywords,
			&card.Legalities); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		if power != nil {
			card.Power = carddb.ParseStat(*power)
		}
		if toughness != nil {
			card.Toughness = carddb.ParseStat(*toughness)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}
	return carddb.NewCatalog(cards)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
