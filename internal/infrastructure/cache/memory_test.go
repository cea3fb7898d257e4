package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/drinkradar/backend/internal/domain"
)

func sampleResult(n int) *domain.SearchResult {
	products := make([]domain.Product, n)
	for i := range products {
		products[i] = domain.Product{Store: "Jumbo", Name: "Cola 1L", Price: 1.50}
	}
	return &domain.SearchResult{Products: products}
}

func TestResultCache_SetAndGet(t *testing.T) {
	cache := NewResultCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "cola", sampleResult(2), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx, "cola")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Products) != 2 {
		t.Errorf("got %d products, want 2", len(got.Products))
	}
}

func TestResultCache_Miss(t *testing.T) {
	cache := NewResultCache()

	_, err := cache.Get(context.Background(), "never-stored")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestResultCache_Expiration(t *testing.T) {
	cache := NewResultCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "cola", sampleResult(1), 10*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	_, err := cache.Get(ctx, "cola")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after expiry error = %v, want ErrCacheMiss", err)
	}
}

func TestResultCache_Overwrite(t *testing.T) {
	cache := NewResultCache()
	ctx := context.Background()

	cache.Set(ctx, "cola", sampleResult(1), time.Minute)
	cache.Set(ctx, "cola", sampleResult(3), time.Minute)

	got, err := cache.Get(ctx, "cola")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Products) != 3 {
		t.Errorf("got %d products after overwrite, want 3", len(got.Products))
	}
	if cache.Size() != 1 {
		t.Errorf("Size() = %d, want 1", cache.Size())
	}
}

func TestResultCache_Clear(t *testing.T) {
	cache := NewResultCache()
	ctx := context.Background()

	cache.Set(ctx, "cola", sampleResult(1), time.Minute)
	cache.Set(ctx, "fanta", sampleResult(1), time.Minute)
	cache.Clear()

	if cache.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", cache.Size())
	}
}
