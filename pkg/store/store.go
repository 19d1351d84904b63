// Package store persists extracted products into SQLite. Inserts are
// idempotent over (url, scraped_at): a row that already exists is skipped,
// never overwritten, so the table accumulates a time series of price
// snapshots across runs.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/MVCVLLVN/yandex-market-etl/pkg/logger"
	"github.com/MVCVLLVN/yandex-market-etl/pkg/models"
)

const component = "store"

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS products (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT    NOT NULL,
		price         REAL    NOT NULL,
		url           TEXT    NOT NULL,
		rating        REAL,
		reviews_count INTEGER,
		scraped_at    TEXT    NOT NULL,
		UNIQUE (url, scraped_at)
	)
`

type Store struct {
	db *sql.DB
}

// Open connects to the SQLite file (creating it if absent) and ensures
// the schema exists. Safe to call on every startup.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	logger.Infof(component, "connected to %s, products table ready", path)
	return &Store{db: db}, nil
}

// InsertBatch writes the batch with INSERT OR IGNORE and reports how many
// rows were actually added, measured as the row-count delta inside one
// transaction rather than a per-row tally. An empty batch is a no-op.
func (s *Store) InsertBatch(products []models.Product) (int, error) {
	if len(products) == 0 {
		logger.Infof(component, "empty batch, nothing to insert")
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var before int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&before); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO products
			(name, price, url, rating, reviews_count, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.Exec(p.Name, p.Price, p.URL, p.Rating, p.ReviewsCount, p.ScrapedAt); err != nil {
			return 0, fmt.Errorf("inserting %s: %w", p.URL, err)
		}
	}

	var after int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&after); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}

	inserted := after - before
	logger.Infof(component, "batch of %d handed over, %d actually inserted (duplicates skipped)",
		len(products), inserted)
	return inserted, nil
}

// Count returns the total number of stored rows.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

// Row is one stored record with its surrogate key, as read back for
// inspection.
type Row struct {
	ID int64
	models.Product
}

// Recent returns the first n rows in insertion order.
func (s *Store) Recent(n int) ([]Row, error) {
	rows, err := s.db.Query(`
		SELECT id, name, price, url, rating, reviews_count, scraped_at
		FROM products
		ORDER BY id
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var rating sql.NullFloat64
		var reviews sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Name, &r.Price, &r.URL, &rating, &reviews, &r.ScrapedAt); err != nil {
			return nil, err
		}
		if rating.Valid {
			r.Rating = &rating.Float64
		}
		if reviews.Valid {
			v := int(reviews.Int64)
			r.ReviewsCount = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
