package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drinkradar/backend/internal/domain"
	"github.com/drinkradar/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search *usecase.SearchService
	repo   domain.ProductRepository
	log    *logrus.Entry
}

// NewHandler creates a new HTTP handler. repo may be nil when persistence is
// disabled; the history endpoints then report 503.
func NewHandler(search *usecase.SearchService, repo domain.ProductRepository, log *logrus.Entry) *Handler {
	return &Handler{search: search, repo: repo, log: log}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "drinkradar-backend",
		"version": "1.0.0",
	})
}

// Search runs a live price search across every store. Scraper failures are
// reported inside the payload, so the endpoint answers 200 with whatever
// could be collected; only an unusable query is a client error.
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")

	result, err := h.search.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.WithError(err).Error("search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Products returns the persisted product history, optionally filtered by
// search_term or store, newest first.
func (h *Handler) Products(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence is disabled"})
		return
	}

	limit := clampInt(c.DefaultQuery("limit", "100"), 1, 1000, 100)
	offset := clampInt(c.DefaultQuery("offset", "0"), 0, 1<<30, 0)

	var (
		products []domain.StoredProduct
		err      error
	)
	switch {
	case c.Query("search_term") != "":
		products, err = h.repo.BySearchTerm(c.Request.Context(), c.Query("search_term"), limit, offset)
	case c.Query("store") != "":
		products, err = h.repo.ByStore(c.Request.Context(), c.Query("store"), limit, offset)
	default:
		products, err = h.repo.All(c.Request.Context(), limit, offset)
	}
	if err != nil {
		h.log.WithError(err).Error("reading product history failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reading product history failed"})
		return
	}

	if products == nil {
		products = []domain.StoredProduct{}
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
		"limit":    limit,
		"offset":   offset,
	})
}

// DatabaseStats summarizes the persisted history.
func (h *Handler) DatabaseStats(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence is disabled"})
		return
	}

	stats, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("reading database stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reading database stats failed"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DatabaseCleanup deletes history older than the given number of days
// (default 7, clamped to 1..365).
func (h *Handler) DatabaseCleanup(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence is disabled"})
		return
	}

	days := clampInt(c.DefaultQuery("days", "7"), 1, 365, 7)

	deleted, err := h.repo.DeleteOlderThan(c.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		h.log.WithError(err).Error("database cleanup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database cleanup failed"})
		return
	}

	h.log.WithFields(logrus.Fields{"days": days, "deleted": deleted}).Info("database cleaned up")
	c.JSON(http.StatusOK, gin.H{
		"deleted": deleted,
		"days":    days,
	})
}

// clampInt parses s and clamps it to [min, max]; unparseable input falls
// back to def.
func clampInt(s string, min, max, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
