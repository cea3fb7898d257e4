package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drinkradar/backend/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"), logrus.NewEntry(log))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleBatch() []domain.Product {
	return []domain.Product{
		{
			Store:         "Colruyt",
			Name:          "Cola Zero 6 x 330 ml",
			Price:         3.99,
			Volume:        "6 x 330 ml",
			PricePerLiter: 2.02,
			LiterValue:    1.98,
			UnitCount:     6,
			UnitSize:      0.33,
			UnitType:      "ml",
			PricePerUnit:  0.67,
		},
		{
			Store:         "Jumbo",
			Name:          "Cola Zero 1,5L",
			Price:         1.89,
			Volume:        "1,5L",
			PricePerLiter: 1.26,
			LiterValue:    1.5,
		},
	}
}

func TestSaveBatchAndBySearchTerm(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveBatch(ctx, sampleBatch(), "cola")
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	got, err := s.BySearchTerm(ctx, "cola", 100, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "cola", p.SearchTerm)
		assert.False(t, p.ScrapedAt.IsZero())
		assert.False(t, p.UpdatedAt.IsZero())
	}

	none, err := s.BySearchTerm(ctx, "water", 100, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSaveBatchEmpty(t *testing.T) {
	s := newTestStore(t)

	saved, err := s.SaveBatch(context.Background(), nil, "cola")
	require.NoError(t, err)
	assert.Zero(t, saved)
}

func TestByStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.SaveBatch(ctx, sampleBatch(), "cola")
	require.NoError(t, err)

	got, err := s.ByStore(ctx, "Jumbo", 100, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Cola Zero 1,5L", got[0].Name)
	assert.Equal(t, 1.89, got[0].Price)
}

func TestAllRespectsLimitAndOffset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.SaveBatch(ctx, sampleBatch(), "cola")
	require.NoError(t, err)

	page, err := s.All(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	rest, err := s.All(ctx, 10, 1)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
	assert.NotEqual(t, page[0].ID, rest[0].ID)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalProducts)

	_, err = s.SaveBatch(ctx, sampleBatch(), "cola")
	require.NoError(t, err)
	_, err = s.SaveBatch(ctx, sampleBatch()[:1], "zero")
	require.NoError(t, err)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.SearchTerms)
	assert.Equal(t, int64(2), stats.ByStore["Colruyt"])
	assert.Equal(t, int64(1), stats.ByStore["Jumbo"])
	assert.False(t, stats.OldestScrape.IsZero())
	assert.False(t, stats.NewestScrape.IsZero())
}

func TestDeleteOlderThan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.SaveBatch(ctx, sampleBatch(), "cola")
	require.NoError(t, err)

	// Fresh rows survive a generous cutoff.
	deleted, err := s.DeleteOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	// Everything predates a cutoff in the future.
	deleted, err = s.DeleteOlderThan(ctx, -time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalProducts)
}
