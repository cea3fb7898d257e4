package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"

	"github.com/drinkradar/backend/internal/domain"
	"github.com/drinkradar/backend/internal/infrastructure/extract"
)

// WooCommerce is a generic adapter for the small drink shops running stock
// WooCommerce storefronts; one instance per store.
type WooCommerce struct {
	store     string
	baseURL   string
	userAgent string
	log       *logrus.Entry
}

func NewWooCommerce(store, baseURL string, opts Options) *WooCommerce {
	return &WooCommerce{
		store:     store,
		baseURL:   baseURL,
		userAgent: opts.UserAgent,
		log:       opts.Log.WithField("scraper", store),
	}
}

func (w *WooCommerce) Name() string { return w.store }

// Search fetches the storefront's product search page. The collector lives
// for exactly one call.
func (w *WooCommerce) Search(ctx context.Context, term string) ([]domain.RawProduct, error) {
	c := colly.NewCollector(colly.UserAgent(w.userAgent))
	c.SetRequestTimeout(requestTimeout(ctx, 10*time.Second))

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	var products []domain.RawProduct
	c.OnHTML(".product", func(e *colly.HTMLElement) {
		name := strings.TrimSpace(e.ChildText(".woocommerce-loop-product__title, .product-title, h3"))
		if name == "" {
			return
		}

		price, err := extract.FromText(e.ChildText("span.price bdi"))
		if err != nil {
			// No parseable price: the shop usually renders "uitverkocht"
			// there. Keep the product with an unknown price.
			price = 0
		}

		products = append(products, domain.RawProduct{
			Store: w.store,
			Name:  name,
			Price: price,
			Image: CompleteURL(e.ChildAttr("img", "src"), w.baseURL),
			Link:  e.Request.AbsoluteURL(e.ChildAttr("a", "href")),
		})
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	searchURL := fmt.Sprintf("%s?s=%s&post_type=product", w.baseURL, url.QueryEscape(term))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("%s search: %w", w.store, err)
	}
	c.Wait()

	if visitErr != nil && len(products) == 0 {
		return nil, fmt.Errorf("%s search: %w", w.store, visitErr)
	}

	w.log.WithField("count", len(products)).Debug("woocommerce search done")
	return products, nil
}

// requestTimeout clamps a default timeout to the time left on the context.
func requestTimeout(ctx context.Context, def time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < def {
			return remaining
		}
	}
	return def
}
