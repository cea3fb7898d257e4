package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/drinkradar/backend/internal/domain"
)

const jumboSearchURL = "https://mobileapi.jumbo.com/v17/search"

// Jumbo queries the Jumbo mobile API directly; no browser needed. Prices
// come back in cents.
type Jumbo struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	log         *logrus.Entry
}

// NewJumbo creates the Jumbo adapter. The mobile API tolerates roughly two
// requests per second before throttling.
func NewJumbo(opts Options) *Jumbo {
	return &Jumbo{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     jumboSearchURL,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 4),
		log:         opts.Log,
	}
}

func (j *Jumbo) Name() string { return "Jumbo" }

// jumboResponse mirrors the slice of the mobile API response we consume.
type jumboResponse struct {
	Products struct {
		Data []struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			Quantity string `json:"quantity"`
			Prices   struct {
				Price struct {
					Amount int `json:"amount"`
				} `json:"price"`
			} `json:"prices"`
			ImageInfo struct {
				PrimaryView []struct {
					URL string `json:"url"`
				} `json:"primaryView"`
			} `json:"imageInfo"`
		} `json:"data"`
	} `json:"products"`
}

// Search queries the mobile search endpoint for the term.
func (j *Jumbo) Search(ctx context.Context, term string) ([]domain.RawProduct, error) {
	if err := j.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Add("q", term)
	params.Add("offset", "0")
	params.Add("limit", "15")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", j.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "Jumbo/7.5.0 (Android)")
	req.Header.Set("x-jumbo-unique-id", "android-device-123")

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jumbo api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("jumbo api: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed jumboResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding jumbo response: %w", err)
	}

	products := make([]domain.RawProduct, 0, len(parsed.Products.Data))
	for _, item := range parsed.Products.Data {
		if item.Title == "" {
			continue
		}

		var image string
		if len(item.ImageInfo.PrimaryView) > 0 {
			image = item.ImageInfo.PrimaryView[0].URL
		}

		slug := strings.ReplaceAll(item.Title, " ", "-")
		products = append(products, domain.RawProduct{
			Store:  "Jumbo",
			Name:   item.Title,
			Price:  float64(item.Prices.Price.Amount) / 100,
			Volume: item.Quantity,
			Image:  image,
			Link:   fmt.Sprintf("https://www.jumbo.com/producten/%s-%s", slug, item.ID),
		})
	}

	j.log.WithField("count", len(products)).Debug("jumbo search done")
	return products, nil
}
