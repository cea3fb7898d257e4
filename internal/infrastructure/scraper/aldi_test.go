package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aldiFixture = `<!DOCTYPE html><html><body>
<div class="mod-article-tile">
  <a href="/nl/p/cola-15l.html"><img src="/images/cola.jpg"/></a>
  <div class="mod-article-tile__title">RIVER Cola 1.5L</div>
  <div class="price__wrapper"><span>€</span><span>0</span><span>,</span><span>65</span></div>
</div>
<div class="mod-article-tile">
  <div class="mod-article-tile__title">RIVER Cola Zero</div>
  <div class="price__wrapper">uitverkocht</div>
</div>
<div class="mod-article-tile">
  <div class="mod-article-tile__title"></div>
  <div class="price__wrapper">1,00</div>
</div>
</body></html>`

func TestAldiSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cola", r.URL.Query().Get("query"))
		w.Write([]byte(aldiFixture))
	}))
	defer server.Close()

	a := NewAldi(testOpts())
	a.baseURL = server.URL

	products, err := a.Search(context.Background(), "cola")
	require.NoError(t, err)
	require.Len(t, products, 2, "tile without a title must be dropped")

	assert.Equal(t, "RIVER Cola 1.5L", products[0].Name)
	assert.InDelta(t, 0.65, products[0].Price, 0.001, "split price spans must join and parse")
	assert.Equal(t, server.URL+"/images/cola.jpg", products[0].Image)
	assert.Equal(t, server.URL+"/nl/p/cola-15l.html", products[0].Link)

	assert.Equal(t, float64(0), products[1].Price, "sold-out tile keeps unknown price")
}

func TestAldiSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	a := NewAldi(testOpts())
	a.baseURL = server.URL

	_, err := a.Search(context.Background(), "cola")
	assert.Error(t, err)
}
