// Package scraper contains one adapter per retailer. Every adapter satisfies
// domain.Scraper: it owns its HTTP client or browser session for exactly one
// Search call and releases it on every exit path. Site quirks stay inside
// the adapter that needs them.
package scraper

import (
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/sirupsen/logrus"

	"github.com/drinkradar/backend/internal/domain"
	"github.com/drinkradar/backend/internal/infrastructure/extract"
)

// Options is the shared adapter configuration.
type Options struct {
	UserAgent string
	Headless  bool
	OCR       *extract.OCR
	Log       *logrus.Entry
}

// All returns the full adapter registry in a fixed order; statuses and
// discovery-order tie-breaks follow this order.
func All(opts Options) []domain.Scraper {
	return []domain.Scraper{
		NewColruyt(opts),
		NewJumbo(opts),
		NewAldi(opts),
		NewPrikEnTik(opts),
		NewWooCommerce("Snuffelstore", "https://www.snuffelstore.be/", opts),
		NewWooCommerce("Drinks Corner", "https://drinkscorner.be/", opts),
	}
}

// browserBinPaths are fallbacks when rod's own lookup finds nothing;
// matches the Debian-based container image.
var browserBinPaths = []string{
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/usr/bin/google-chrome",
}

// launchBrowser starts a dedicated headless browser instance. The caller
// must close it; each Search call gets its own so sessions never leak
// across requests.
func launchBrowser(headless bool) (*rod.Browser, error) {
	binPath, _ := launcher.LookPath()
	if binPath == "" {
		for _, path := range browserBinPaths {
			if _, err := os.Stat(path); err == nil {
				binPath = path
				break
			}
		}
	}

	l := launcher.New().
		Headless(headless).
		Devtools(false).
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	if binPath != "" {
		l = l.Bin(binPath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, err
	}
	return browser, nil
}

// waitSettle gives a page a moment to render content loaded after the
// document itself, capped so a slow site cannot eat the whole deadline.
func waitSettle(page *rod.Page, d time.Duration) {
	_ = page.WaitLoad()
	time.Sleep(d)
}

// CompleteURL converts a relative URL to an absolute one.
func CompleteURL(urlStr, baseURL string) string {
	if urlStr == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(urlStr, "http"):
		return urlStr
	case strings.HasPrefix(urlStr, "//"):
		return "https:" + urlStr
	case strings.HasPrefix(urlStr, "/"):
		return strings.TrimSuffix(baseURL, "/") + urlStr
	default:
		return strings.TrimSuffix(baseURL, "/") + "/" + urlStr
	}
}

// FilterBySearchTerm keeps only products whose name mentions the term.
// Used by adapters whose site search returns loosely related results.
func FilterBySearchTerm(products []domain.RawProduct, term string) []domain.RawProduct {
	termLower := strings.ToLower(term)
	var filtered []domain.RawProduct
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), termLower) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
