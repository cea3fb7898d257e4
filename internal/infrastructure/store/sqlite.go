// Package store persists search results to SQLite. The history is
// append-only: every search writes a fresh snapshot of what was found,
// tagged with the term, so price development stays queryable.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/drinkradar/backend/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	store TEXT NOT NULL,
	name TEXT NOT NULL,
	price REAL NOT NULL,
	volume TEXT,
	image TEXT,
	link TEXT,
	price_per_liter REAL,
	liter_value REAL,
	unit_count INTEGER,
	unit_size REAL,
	unit_type TEXT,
	price_per_unit REAL,
	search_term TEXT,
	scraped_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_store ON products(store);
CREATE INDEX IF NOT EXISTS idx_search_term ON products(search_term);
CREATE INDEX IF NOT EXISTS idx_scraped_at ON products(scraped_at);
CREATE INDEX IF NOT EXISTS idx_store_name ON products(store, name);
`

// Store is a SQLite-backed ProductRepository.
type Store struct {
	db   *sql.DB
	path string
	log  *logrus.Entry
}

// NewStore opens (or creates) the database at path and ensures the schema.
func NewStore(path string, log *logrus.Entry) (*Store, error) {
	// WAL keeps reads cheap while search batches are being appended
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: path, log: log}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SaveBatch appends the products of one search. A bad row is logged and
// skipped; the batch never fails as a whole. Returns the number saved.
func (s *Store) SaveBatch(ctx context.Context, products []domain.Product, searchTerm string) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (
			store, name, price, volume, image, link,
			price_per_liter, liter_value, unit_count, unit_size, unit_type,
			price_per_unit, search_term, scraped_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	saved := 0
	for _, p := range products {
		_, err := stmt.ExecContext(ctx,
			p.Store, p.Name, p.Price, p.Volume, p.Image, p.Link,
			p.PricePerLiter, p.LiterValue, p.UnitCount, p.UnitSize, p.UnitType,
			p.PricePerUnit, searchTerm, now, now,
		)
		if err != nil {
			s.log.WithError(err).WithField("product", p.Name).Warn("skipping unsaveable product")
			continue
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}
	return saved, nil
}

const selectColumns = `
	id, store, name, price, volume, image, link,
	price_per_liter, liter_value, unit_count, unit_size, unit_type,
	price_per_unit, search_term, scraped_at, updated_at`

// BySearchTerm returns persisted products for a term, newest first.
func (s *Store) BySearchTerm(ctx context.Context, term string, limit, offset int) ([]domain.StoredProduct, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE search_term = ? ORDER BY scraped_at DESC LIMIT ? OFFSET ?`, selectColumns)
	return s.query(ctx, query, term, limit, offset)
}

// ByStore returns persisted products for one store, newest first.
func (s *Store) ByStore(ctx context.Context, store string, limit, offset int) ([]domain.StoredProduct, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE store = ? ORDER BY scraped_at DESC LIMIT ? OFFSET ?`, selectColumns)
	return s.query(ctx, query, store, limit, offset)
}

// All returns persisted products, newest first.
func (s *Store) All(ctx context.Context, limit, offset int) ([]domain.StoredProduct, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY scraped_at DESC LIMIT ? OFFSET ?`, selectColumns)
	return s.query(ctx, query, limit, offset)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]domain.StoredProduct, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.StoredProduct
	for rows.Next() {
		var p domain.StoredProduct
		var scrapedAt, updatedAt sql.NullTime
		err := rows.Scan(
			&p.ID, &p.Store, &p.Name, &p.Price, &p.Volume, &p.Image, &p.Link,
			&p.PricePerLiter, &p.LiterValue, &p.UnitCount, &p.UnitSize, &p.UnitType,
			&p.PricePerUnit, &p.SearchTerm, &scrapedAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		if scrapedAt.Valid {
			p.ScrapedAt = scrapedAt.Time
		}
		if updatedAt.Valid {
			p.UpdatedAt = updatedAt.Time
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Stats summarizes the stored history.
func (s *Store) Stats(ctx context.Context) (*domain.StoreStats, error) {
	stats := &domain.StoreStats{ByStore: make(map[string]int64)}

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&stats.TotalProducts)
	if err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT search_term) FROM products`).Scan(&stats.SearchTerms)
	if err != nil {
		return nil, fmt.Errorf("counting search terms: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT store, COUNT(*) FROM products GROUP BY store`)
	if err != nil {
		return nil, fmt.Errorf("counting per store: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var store string
		var count int64
		if err := rows.Scan(&store, &count); err != nil {
			return nil, fmt.Errorf("scanning store count: %w", err)
		}
		stats.ByStore[store] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.TotalProducts > 0 {
		var oldest, newest sql.NullTime
		err = s.db.QueryRowContext(ctx,
			`SELECT MIN(scraped_at), MAX(scraped_at) FROM products`,
		).Scan(&oldest, &newest)
		if err != nil {
			return nil, fmt.Errorf("reading scrape range: %w", err)
		}
		if oldest.Valid {
			stats.OldestScrape = oldest.Time
		}
		if newest.Valid {
			stats.NewestScrape = newest.Time
		}
	}

	return stats, nil
}

// DeleteOlderThan removes products scraped longer than age ago and reports
// how many rows went.
func (s *Store) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE scraped_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting old products: %w", err)
	}
	return res.RowsAffected()
}
