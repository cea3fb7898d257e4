package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"github.com/drinkradar/backend/internal/domain"
	"github.com/drinkradar/backend/internal/infrastructure/extract"
)

const colruytBaseURL = "https://www.collectandgo.be"

// Colruyt scrapes the Collect&Go search page. The page builds its product
// grid client-side, so this adapter drives a real headless browser.
type Colruyt struct {
	headless bool
	log      *logrus.Entry
}

func NewColruyt(opts Options) *Colruyt {
	return &Colruyt{
		headless: opts.Headless,
		log:      opts.Log.WithField("scraper", "Colruyt"),
	}
}

func (c *Colruyt) Name() string { return "Colruyt" }

// Selectors tried in order; the site swaps card markup between releases.
var colruytCardSelectors = []string{".product-card", ".product-item", "article", "[data-testid='product']"}

func (c *Colruyt) Search(ctx context.Context, term string) ([]domain.RawProduct, error) {
	browser, err := launchBrowser(c.headless)
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	defer browser.Close()

	searchURL := fmt.Sprintf("%s/nl/zoek?searchTerm=%s", colruytBaseURL, url.QueryEscape(term))

	page, err := browser.Page(proto.TargetCreateTarget{URL: searchURL})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	page = page.Context(ctx)
	defer page.Close()

	// Cookie banner steals the first click-frame; dismiss if present.
	if banner, err := page.Timeout(3 * time.Second).Element("#onetrust-accept-btn-handler"); err == nil {
		_ = banner.Click(proto.InputMouseButtonLeft, 1)
	}

	waitSettle(page, 3*time.Second)

	var products []domain.RawProduct
	for _, selector := range colruytCardSelectors {
		elements, err := page.Elements(selector)
		if err != nil || len(elements) == 0 {
			continue
		}
		for _, el := range elements {
			if p, ok := productFromCard(el, "Colruyt", colruytBaseURL); ok {
				products = append(products, p)
			}
		}
		break
	}

	filtered := FilterBySearchTerm(products, term)
	c.log.WithFields(logrus.Fields{"found": len(products), "matching": len(filtered)}).Debug("colruyt search done")
	return filtered, nil
}

// productFromCard pulls name, price, link and image out of a product card
// element, tolerating the markup variants the retailers rotate through.
func productFromCard(element *rod.Element, store, baseURL string) (domain.RawProduct, bool) {
	product := domain.RawProduct{Store: store}

	for _, sel := range []string{".product-name", ".product-title", "h3", "h2", "a[class*='title']", "a[class*='name']"} {
		if el, err := element.Element(sel); err == nil {
			if text, err := el.Text(); err == nil {
				product.Name = strings.TrimSpace(text)
				break
			}
		}
	}
	if product.Name == "" {
		return product, false
	}

	for _, sel := range []string{".price", "[class*='price']", "[data-testid='price']"} {
		if el, err := element.Element(sel); err == nil {
			if text, err := el.Text(); err == nil {
				if price, err := extract.FromText(text); err == nil {
					product.Price = price
				}
				break
			}
		}
	}

	if el, err := element.Element("a"); err == nil {
		if href, err := el.Property("href"); err == nil {
			product.Link = CompleteURL(href.String(), baseURL)
		}
	}

	if el, err := element.Element("img"); err == nil {
		if src, err := el.Property("data-src"); err == nil && src.String() != "" {
			product.Image = CompleteURL(src.String(), baseURL)
		} else if src, err := el.Property("src"); err == nil {
			product.Image = CompleteURL(src.String(), baseURL)
		}
	}

	return product, true
}
