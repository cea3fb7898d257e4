package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/drinkradar/backend/internal/domain"
)

// timeoutStatus is the canonical error string reported for scrapers that
// exceeded their deadline.
const timeoutStatus = "Timeout"

// unknownRankKey ranks products with an undeterminable price-per-liter
// behind every comparable product.
const unknownRankKey = 999

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	Concurrency int           // simultaneous scraper slots
	Timeout     time.Duration // per-scraper wall-clock deadline
	CacheTTL    time.Duration
}

// SearchService fans a search term out to every registered scraper under a
// bounded concurrency pool, normalizes and ranks whatever comes back, and
// reports per-scraper status. One failing or hanging scraper never affects
// its siblings and never fails the aggregate.
type SearchService struct {
	scrapers    []domain.Scraper
	repo        domain.ProductRepository
	cache       domain.ResultCache
	logos       map[string]string
	concurrency int64
	timeout     time.Duration
	cacheTTL    time.Duration
	log         *logrus.Entry
}

// NewSearchService creates a search service. repo and cache may be nil:
// persistence and result caching are then skipped.
func NewSearchService(
	scrapers []domain.Scraper,
	repo domain.ProductRepository,
	cache domain.ResultCache,
	logos map[string]string,
	config SearchServiceConfig,
	log *logrus.Entry,
) *SearchService {
	concurrency := config.Concurrency
	if concurrency < 1 {
		concurrency = 5
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Minute
	}

	return &SearchService{
		scrapers:    scrapers,
		repo:        repo,
		cache:       cache,
		logos:       logos,
		concurrency: int64(concurrency),
		timeout:     timeout,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

// scrapeOutcome is the tagged result of one scraper run.
type scrapeOutcome struct {
	products []domain.RawProduct
	status   domain.SourceStatus
}

// Search runs the full aggregate: fan-out, normalize, rank, persist.
// Scraper failures surface only inside the returned statuses.
func (s *SearchService) Search(ctx context.Context, term string) (*domain.SearchResult, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, domain.ErrInvalidQuery
	}

	searchID := uuid.NewString()[:8]
	log := s.log.WithFields(logrus.Fields{"search_id": searchID, "term": term})

	cacheKey := strings.ToLower(term)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			log.WithField("products", len(cached.Products)).Info("serving cached result")
			return cached, nil
		}
	}

	start := time.Now()
	log.WithField("scrapers", len(s.scrapers)).Info("search started")

	outcomes := s.fanOut(ctx, term, log)

	var products []domain.Product
	statuses := make([]domain.SourceStatus, 0, len(outcomes))
	for _, out := range outcomes {
		statuses = append(statuses, out.status)
		for _, raw := range out.products {
			if raw.Name == "" {
				continue
			}
			p := Normalize(raw, s.logos[raw.Store])
			if p.Price <= 0 {
				continue
			}
			products = append(products, p)
		}
	}

	sortByPricePerLiter(products)

	result := &domain.SearchResult{
		Products:         products,
		ScraperStatuses:  statuses,
		TotalElapsedTime: time.Since(start).Seconds(),
	}

	succeeded := 0
	for _, st := range statuses {
		if st.Success {
			succeeded++
		}
	}
	log.WithFields(logrus.Fields{
		"products": len(products),
		"sources":  fmt.Sprintf("%d/%d", succeeded, len(statuses)),
		"elapsed":  result.TotalElapsedTime,
	}).Info("search completed")

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
			log.WithError(err).Warn("result cache write failed")
		}
	}

	s.persistAsync(products, term, log)

	return result, nil
}

// fanOut runs every scraper under the concurrency pool and a per-scraper
// deadline, collecting a tagged outcome per scraper. Results accumulate
// task-locally, indexed by registration order, so the merged product list
// is deterministic and no state is shared between running scrapers.
func (s *SearchService) fanOut(ctx context.Context, term string, log *logrus.Entry) []scrapeOutcome {
	sem := semaphore.NewWeighted(s.concurrency)
	outcomes := make([]scrapeOutcome, len(s.scrapers))

	var wg sync.WaitGroup
	for i, sc := range s.scrapers {
		wg.Add(1)
		go func(i int, sc domain.Scraper) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				outcomes[i] = scrapeOutcome{status: domain.SourceStatus{
					Name:  sc.Name(),
					Error: err.Error(),
				}}
				return
			}
			defer sem.Release(1)

			outcomes[i] = s.runScraper(ctx, sc, term, log)
		}(i, sc)
	}
	wg.Wait()

	return outcomes
}

// runScraper executes one scraper under its deadline. The scraper call runs
// in its own goroutine so even an implementation that ignores cancellation
// cannot hold up the aggregate past the deadline.
func (s *SearchService) runScraper(ctx context.Context, sc domain.Scraper, term string, log *logrus.Entry) scrapeOutcome {
	scrapeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()

	type scrapeResult struct {
		products []domain.RawProduct
		err      error
	}
	done := make(chan scrapeResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- scrapeResult{err: fmt.Errorf("scraper panic: %v", r)}
			}
		}()
		products, err := sc.Search(scrapeCtx, term)
		done <- scrapeResult{products: products, err: err}
	}()

	select {
	case res := <-done:
		elapsed := time.Since(start).Seconds()
		if res.err != nil {
			errText := res.err.Error()
			if errors.Is(res.err, context.DeadlineExceeded) || errors.Is(res.err, domain.ErrScraperTimeout) {
				errText = timeoutStatus
			}
			log.WithError(res.err).WithField("scraper", sc.Name()).Warn("scraper failed")
			return scrapeOutcome{status: domain.SourceStatus{
				Name:        sc.Name(),
				Error:       errText,
				ElapsedTime: elapsed,
			}}
		}
		log.WithFields(logrus.Fields{
			"scraper":  sc.Name(),
			"products": len(res.products),
			"elapsed":  elapsed,
		}).Info("scraper finished")
		return scrapeOutcome{
			products: res.products,
			status: domain.SourceStatus{
				Name:        sc.Name(),
				Success:     true,
				Count:       len(res.products),
				ElapsedTime: elapsed,
			},
		}

	case <-scrapeCtx.Done():
		elapsed := time.Since(start).Seconds()
		log.WithField("scraper", sc.Name()).Warn("scraper timed out")
		return scrapeOutcome{status: domain.SourceStatus{
			Name:        sc.Name(),
			Error:       timeoutStatus,
			ElapsedTime: elapsed,
		}}
	}
}

// persistAsync appends the batch to the product history without delaying the
// response. Persistence failures are logged, never surfaced.
func (s *SearchService) persistAsync(products []domain.Product, term string, log *logrus.Entry) {
	if s.repo == nil || len(products) == 0 {
		return
	}

	batch := make([]domain.Product, len(products))
	copy(batch, products)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		saved, err := s.repo.SaveBatch(ctx, batch, term)
		if err != nil {
			log.WithError(err).Error("saving products failed")
			return
		}
		log.WithField("saved", saved).Info("products persisted")
	}()
}

// sortByPricePerLiter ranks cheapest-per-liter first. Products whose volume
// could not be determined get the sentinel key so comparable products always
// rank ahead; ties keep discovery order.
func sortByPricePerLiter(products []domain.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return rankKey(products[i]) < rankKey(products[j])
	})
}

func rankKey(p domain.Product) float64 {
	if p.PricePerLiter == 0 {
		return unknownRankKey
	}
	return p.PricePerLiter
}
