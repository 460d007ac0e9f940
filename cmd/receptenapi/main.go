// Package main wires together the recipe catalog service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tenvelde/receptenapi/internal/api"
	"github.com/tenvelde/receptenapi/internal/catalog"
	"github.com/tenvelde/receptenapi/internal/clock/system"
	"github.com/tenvelde/receptenapi/internal/config"
	"github.com/tenvelde/receptenapi/internal/ical"
	"github.com/tenvelde/receptenapi/internal/id/uuid"
	"github.com/tenvelde/receptenapi/internal/logging"
	"github.com/tenvelde/receptenapi/internal/scrape"
	"github.com/tenvelde/receptenapi/internal/service"
	"github.com/tenvelde/receptenapi/internal/storage/postgres"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, postgres.Config{
		DSN:             cfg.DB.DSN,
		MaxConns:        int32(cfg.DB.MaxConns),
		MinConns:        int32(cfg.DB.MinConns),
		MaxConnLifetime: time.Duration(cfg.DB.ConnLifetimeMin) * time.Minute,
	})
	if err != nil {
		logger.Fatal("postgres pool init failed", zap.Error(err))
	}
	defer pool.Close()

	idGen := uuid.New()
	clock := system.New()

	recipeStore, err := postgres.NewRecipeStore(pool, idGen)
	if err != nil {
		logger.Fatal("recipe store init failed", zap.Error(err))
	}
	linkStore, err := postgres.NewDateLinkStore(pool, idGen)
	if err != nil {
		logger.Fatal("date link store init failed", zap.Error(err))
	}
	imageStore, err := postgres.NewImageStore(pool)
	if err != nil {
		logger.Fatal("image store init failed", zap.Error(err))
	}

	scrapeCfg := scrape.Config{
		UserAgent:       cfg.Scrape.UserAgent,
		RequestTimeout:  time.Duration(cfg.Scrape.TimeoutSeconds) * time.Second,
		Headless:        cfg.Scrape.HeadlessEnabled,
		HeadlessTimeout: time.Duration(cfg.Scrape.HeadlessTimeoutSec) * time.Second,
	}
	structured := scrape.NewStructuredFetcher(scrapeCfg, logger.Named("scrape"))
	var headless *scrape.HeadlessScraper
	if cfg.Scrape.HeadlessEnabled {
		headless, err = scrape.NewHeadlessScraper(scrapeCfg, logger.Named("headless"))
		if err != nil {
			logger.Warn("headless scraper init failed", zap.Error(err))
			headless = nil
		}
	}
	var fallback catalog.Scraper
	if headless != nil {
		fallback = headless
		defer func() {
			if closeErr := headless.Close(context.Background()); closeErr != nil {
				logger.Warn("headless close failed", zap.Error(closeErr))
			}
		}()
	}
	scraper := scrape.NewScraper(structured, fallback, logger.Named("scrape"))

	normalizer := catalog.NewNormalizer(logger.Named("normalize"))
	httpClient := &http.Client{Timeout: time.Duration(cfg.Scrape.TimeoutSeconds) * time.Second}

	recipeSvc := service.NewRecipeService(recipeStore, imageStore, linkStore,
		normalizer, httpClient, logger.Named("recipes"))
	scrapeSvc := service.NewScrapeService(scraper, recipeSvc, cfg.ScrapeBudget(), logger.Named("scrape"))
	linkSvc := service.NewDateLinkService(recipeStore, linkStore, clock, logger.Named("dates"))
	feed := ical.New(linkStore, clock, ical.Config{
		ProductID:    cfg.ICal.ProductID,
		CalendarName: cfg.ICal.CalendarName,
		Category:     cfg.ICal.Category,
		BaseURL:      cfg.ICal.BaseURL,
	}, logger.Named("ical"))

	apiServer := api.NewServer(recipeSvc, scrapeSvc, linkSvc, feed, clock, pool, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
