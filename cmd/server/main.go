package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/drinkradar/backend/config"
	httpDelivery "github.com/drinkradar/backend/internal/delivery/http"
	"github.com/drinkradar/backend/internal/domain"
	"github.com/drinkradar/backend/internal/infrastructure/cache"
	"github.com/drinkradar/backend/internal/infrastructure/extract"
	"github.com/drinkradar/backend/internal/infrastructure/scraper"
	"github.com/drinkradar/backend/internal/infrastructure/store"
	"github.com/drinkradar/backend/internal/logger"
	"github.com/drinkradar/backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments set DRINKRADAR_* directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})

	log.WithFields(logger.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"concurrency": cfg.Scraper.Concurrency,
		"timeout":     cfg.Scraper.Timeout.String(),
	}).Info("starting drinkradar backend")

	ocr := extract.NewOCR(cfg.OCR.Enabled, cfg.OCR.Languages, log.WithComponent("ocr"))

	var repo domain.ProductRepository
	productStore, err := store.NewStore(cfg.Database.Path, log.WithComponent("store"))
	if err != nil {
		log.WithError(err).Warn("opening product database failed, continuing without persistence")
	} else {
		repo = productStore
		defer productStore.Close()
		log.WithField("path", productStore.Path()).Info("product database ready")
	}

	resultCache := cache.NewResultCache()

	scrapers := scraper.All(scraper.Options{
		UserAgent: cfg.Scraper.UserAgent,
		Headless:  cfg.Scraper.Headless,
		OCR:       ocr,
		Log:       log.WithComponent("scraper"),
	})
	log.WithField("scrapers", len(scrapers)).Info("scraper registry loaded")

	searchService := usecase.NewSearchService(
		scrapers,
		repo,
		resultCache,
		scraper.StoreLogos,
		usecase.SearchServiceConfig{
			Concurrency: cfg.Scraper.Concurrency,
			Timeout:     cfg.Scraper.Timeout,
			CacheTTL:    cfg.Cache.TTL,
		},
		log.WithComponent("search"),
	)

	handler := httpDelivery.NewHandler(searchService, repo, log.WithComponent("http"))
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.WithField("addr", addr).Info("server listening")
	if err := router.Run(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
