// Package sqlite provides a SQLite-backed card store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Casiics/MagiCore/internal/carddb"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cards (
	oracle_id      TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	mana_cost      TEXT NOT NULL DEFAULT '',
	cmc            REAL NOT NULL DEFAULT 0,
	type_line      TEXT NOT NULL DEFAULT '',
	oracle_text    TEXT NOT NULL DEFAULT '',
	power          TEXT,
	toughness      TEXT,
	colors         TEXT NOT NULL DEFAULT '[]',
	color_identity TEXT NOT NULL DEFAULT '[]',
	keywords       TEXT NOT NULL DEFAULT '[]',
	legalities     TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_cards_name ON cards(name);
`

// Store persists static card records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite card store and creates the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// UpsertCards writes cards in a single transaction.
func (s *Store) UpsertCards(ctx context.Context, cards []*carddb.Card) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (oracle_id, name, mana_cost, cmc, type_line, oracle_text,
		                   power, toughness, colors, color_identity, keywords, legalities)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(oracle_id) DO UPDATE SET
			name = excluded.name,
			mana_cost = excluded.mana_cost,
			cmc = excluded.cmc,
			type_line = excluded.type_line,
			oracle_text = excluded.oracle_text,
			power = excluded.power,
			toughness = excluded.toughness,
			colors = excluded.colors,
			color_identity = excluded.color_identity,
			keywords = excluded.keywords,
			legalities = excluded.legalities`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, card := range cards {
		lists, err := encodeLists(card)
		if err != nil {
			return fmt.Errorf("encode %s: %w", card.Name, err)
		}
		if _, err := stmt.ExecContext(ctx,
			card.OracleID, card.Name, card.ManaCost, card.CMC, card.TypeLine, card.OracleText,
			nullableStat(card.Power), nullableStat(card.Toughness),
			lists[0], lists[1], lists[2], lists[3],
		); err != nil {
			return fmt.Errorf("upsert %s: %w", card.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Count returns the number of stored cards.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// Catalog loads every stored card into an immutable catalog.
func (s *Store) Catalog(ctx context.Context) (*carddb.Catalog, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT oracle_id, name, mana_cost, cmc, type_line, oracle_text,
		       power, toughness, colors, color_identity, keywords, legalities
		  FROM cards
		 ORDER BY oracle_id`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []carddb.Card
	for rows.Next() {
		var (
			card                                  carddb.Card
			power, toughness                      sql.NullString
			colors, identity, keywords, legalities string
		)
		if err := rows.Scan(&card.OracleID, &card.Name, &card.ManaCost, &card.CMC, &card.TypeLine,
			&card.OracleText, &power, &toughness, &colors, &identity, &keywords, &legalities); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		if power.Valid {
			card.Power = carddb.ParseStat(power.String)
		}
		if toughness.Valid {
			card.Toughness = carddb.ParseStat(toughness.String)
		}
		if err := decodeLists(&card, colors, identity, keywords, legalities); err != nil {
			return nil, fmt.Errorf("decode %s: %w", card.OracleID, err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return carddb.NewCatalog(cards)
}

func nullableStat(v *int) any {
	if s := carddb.FormatStat(v); s != nil {
		return *s
	}
	return nil
}

func encodeLists(card *carddb.Card) ([4]string, error) {
	var out [4]string
	values := []any{nonNil(card.Colors), nonNil(card.ColorIdentity), nonNil(card.Keywords), card.Legalities}
	if card.Legalities == nil {
		values[3] = map[string]string{}
	}
	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return out, err
		}
		out[i] = string(data)
	}
	return out, nil
}

func decodeLists(card *carddb.Card, colors, identity, keywords, legalities string) error {
	if err := json.Unmarshal([]byte(colors), &card.Colors); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(identity), &card.ColorIdentity); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(keywords), &card.Keywords); err != nil {
		return err
	}
	return json.Unmarshal([]byte(legalities), &card.Legalities)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
