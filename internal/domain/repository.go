package domain

import (
	"context"
	"time"
)

// Scraper is the contract every retailer adapter satisfies. Search returns
// every product it could safely extract for the term; on internal failure it
// returns what it has (possibly nothing) and the error. Implementations own
// their network or browser session exclusively for the duration of the call
// and must release it on every exit path, including context cancellation.
type Scraper interface {
	Name() string
	Search(ctx context.Context, term string) ([]RawProduct, error)
}

// ProductRepository persists normalized products. The store is append-only:
// each search appends a snapshot of what was found, tagged with the term.
type ProductRepository interface {
	SaveBatch(ctx context.Context, products []Product, searchTerm string) (int, error)
	BySearchTerm(ctx context.Context, term string, limit, offset int) ([]StoredProduct, error)
	ByStore(ctx context.Context, store string, limit, offset int) ([]StoredProduct, error)
	All(ctx context.Context, limit, offset int) ([]StoredProduct, error)
	Stats(ctx context.Context) (*StoreStats, error)
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
	Close() error
}

// StoredProduct is a Product row as read back from the repository.
type StoredProduct struct {
	ID            int64     `json:"id"`
	Store         string    `json:"store"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Volume        string    `json:"volume"`
	Image         string    `json:"image"`
	Link          string    `json:"link"`
	PricePerLiter float64   `json:"price_per_liter"`
	LiterValue    float64   `json:"liter_value"`
	UnitCount     int       `json:"unit_count"`
	UnitSize      float64   `json:"unit_size"`
	UnitType      string    `json:"unit_type"`
	PricePerUnit  float64   `json:"price_per_unit"`
	SearchTerm    string    `json:"search_term"`
	ScrapedAt     time.Time `json:"scraped_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StoreStats summarizes the persisted product history.
type StoreStats struct {
	TotalProducts int64            `json:"total_products"`
	ByStore       map[string]int64 `json:"by_store"`
	SearchTerms   int64            `json:"search_terms"`
	OldestScrape  time.Time        `json:"oldest_scrape,omitempty"`
	NewestScrape  time.Time        `json:"newest_scrape,omitempty"`
}

// ResultCache holds completed search results for a short TTL so repeated
// identical queries do not re-trigger a full scrape.
type ResultCache interface {
	Get(ctx context.Context, key string) (*SearchResult, error)
	Set(ctx context.Context, key string, result *SearchResult, ttl time.Duration) error
}
