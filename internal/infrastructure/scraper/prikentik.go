package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"

	"github.com/drinkradar/backend/internal/domain"
	"github.com/drinkradar/backend/internal/infrastructure/extract"
)

const prikEnTikBaseURL = "https://www.prikentik.be"

// PrikEnTik scrapes the Prik&Tik Magento storefront. The shop occasionally
// serves prices as rendered images; those go through the OCR stage of the
// extraction chain.
type PrikEnTik struct {
	baseURL   string
	userAgent string
	ocr       *extract.OCR
	log       *logrus.Entry
}

func NewPrikEnTik(opts Options) *PrikEnTik {
	return &PrikEnTik{
		baseURL:   prikEnTikBaseURL,
		userAgent: opts.UserAgent,
		ocr:       opts.OCR,
		log:       opts.Log.WithField("scraper", "Prik&Tik"),
	}
}

func (p *PrikEnTik) Name() string { return "Prik&Tik" }

func (p *PrikEnTik) Search(ctx context.Context, term string) ([]domain.RawProduct, error) {
	c := colly.NewCollector(colly.UserAgent(p.userAgent))
	c.SetRequestTimeout(requestTimeout(ctx, 12*time.Second))

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	var products []domain.RawProduct
	c.OnHTML(".product-item", func(e *colly.HTMLElement) {
		name := strings.TrimSpace(e.ChildText(".product-item-link"))
		if name == "" {
			return
		}

		price, err := extract.FromText(e.ChildText(".price"))
		if err != nil {
			// Text extraction came up empty; if the tile carries a price
			// image instead, let OCR have a go.
			price = p.priceFromImage(ctx, e.ChildAttr(".price img", "src"))
		}

		products = append(products, domain.RawProduct{
			Store: "Prik&Tik",
			Name:  name,
			Price: price,
			Image: CompleteURL(e.ChildAttr(".product-image-photo", "src"), p.baseURL),
			Link:  e.Request.AbsoluteURL(e.ChildAttr(".product-item-link", "href")),
		})
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	searchURL := fmt.Sprintf("%s/catalogsearch/result/?q=%s", p.baseURL, url.QueryEscape(term))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("prik&tik search: %w", err)
	}
	c.Wait()

	if visitErr != nil && len(products) == 0 {
		return nil, fmt.Errorf("prik&tik search: %w", visitErr)
	}

	p.log.WithField("count", len(products)).Debug("prik&tik search done")
	return products, nil
}

// priceFromImage downloads a price image and runs it through the OCR stage.
// Any failure leaves the price unknown; one unreadable tile never aborts
// the adapter.
func (p *PrikEnTik) priceFromImage(ctx context.Context, src string) float64 {
	if src == "" || p.ocr == nil || !p.ocr.Available() {
		return 0
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, CompleteURL(src, p.baseURL), nil)
	if err != nil {
		return 0
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0
	}

	price, err := p.ocr.PriceFromImage(data)
	if err != nil {
		p.log.Debug("ocr could not read price image")
		return 0
	}
	return price
}
