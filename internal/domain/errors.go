package domain

import "errors"

var (
	// ErrNoPrice is returned when the price extraction chain exhausted
	// every stage without finding a parseable price. It is distinct from a
	// price of 0, which means "deliberately unknown".
	ErrNoPrice = errors.New("no price found")

	// ErrScraperTimeout is returned when a scraper exceeded its per-search
	// deadline and its in-flight work was cancelled.
	ErrScraperTimeout = errors.New("scraper timed out")

	// ErrInvalidQuery is returned when the search term is missing or too short.
	ErrInvalidQuery = errors.New("query must be at least 2 characters")

	// ErrCacheMiss is returned when a search result is not in the cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrOCRUnavailable is returned when the OCR runtime is not installed;
	// the extraction chain treats it as "stage skipped", never as a failure.
	ErrOCRUnavailable = errors.New("ocr not available")
)
