package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/drinkradar/backend/internal/domain"
	"github.com/drinkradar/backend/internal/infrastructure/extract"
)

const aldiBaseURL = "https://www.aldi.be"

// Aldi scrapes the aldi.be search results page. The article tiles are
// server-rendered, so a plain GET plus an HTML parse is enough.
type Aldi struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	log        *logrus.Entry
}

func NewAldi(opts Options) *Aldi {
	return &Aldi{
		httpClient: &http.Client{Timeout: 12 * time.Second},
		baseURL:    aldiBaseURL,
		userAgent:  opts.UserAgent,
		log:        opts.Log,
	}
}

func (a *Aldi) Name() string { return "Aldi" }

func (a *Aldi) Search(ctx context.Context, term string) ([]domain.RawProduct, error) {
	searchURL := fmt.Sprintf("%s/nl/zoekresultaten.html?query=%s&searchCategory=Submitted%%20Search",
		a.baseURL, url.QueryEscape(term))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept-Language", "nl-BE,nl;q=0.9")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aldi search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("aldi search: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing aldi page: %w", err)
	}

	var products []domain.RawProduct
	doc.Find(".mod-article-tile").Each(func(_ int, tile *goquery.Selection) {
		name := strings.TrimSpace(tile.Find(".mod-article-tile__title").Text())
		if name == "" {
			return
		}

		// Aldi renders the price as separate spans; the joined text goes
		// through the fallback chain rather than a brittle float parse.
		price, err := extract.FromText(tile.Find(".price__wrapper").Text())
		if err != nil {
			price = 0
		}

		image, _ := tile.Find("img").First().Attr("src")
		link, _ := tile.Find("a").First().Attr("href")

		products = append(products, domain.RawProduct{
			Store: "Aldi",
			Name:  name,
			Price: price,
			Image: CompleteURL(image, a.baseURL),
			Link:  CompleteURL(link, a.baseURL),
		})
	})

	a.log.WithField("count", len(products)).Debug("aldi search done")
	return products, nil
}
