package scrape

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/tenvelde/receptenapi/internal/catalog"
)

// ErrNoRecipe indicates the page was fetched but carried no usable
// recipe markup.
var ErrNoRecipe = errors.New("no recipe markup found")

// StructuredFetcher pulls a page over plain HTTP and extracts the
// schema.org Recipe from its ld+json script blocks.
type StructuredFetcher struct {
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewStructuredFetcher constructs a configured Colly-based fetcher.
func NewStructuredFetcher(cfg Config, logger *zap.Logger) *StructuredFetcher {
	cfg = cfg.withDefaults()
	base := colly.NewCollector(
		colly.Async(true),
		colly.UserAgent(cfg.UserAgent),
	)
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.RequestTimeout)

	return &StructuredFetcher{
		baseCollector: base,
		logger:        logger,
	}
}

// Scrape fetches the URL and returns the first Recipe node found in its
// ld+json markup. Returns ErrNoRecipe when the page has none.
func (f *StructuredFetcher) Scrape(ctx context.Context, rawURL string) (catalog.RawRecipe, error) {
	collector := f.baseCollector.Clone()

	var (
		mu      sync.Mutex
		scripts []string
		fetched error
	)
	collector.OnHTML(`script[type="application/ld+json"]`, func(e *colly.HTMLElement) {
		mu.Lock()
		scripts = append(scripts, e.Text)
		mu.Unlock()
	})
	collector.OnError(func(_ *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		mu.Lock()
		fetched = err
		mu.Unlock()
	})

	if err := collector.Visit(rawURL); err != nil {
		return catalog.RawRecipe{}, err
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return catalog.RawRecipe{}, err
	}
	if fetched != nil {
		return catalog.RawRecipe{}, fetched
	}

	raw, ok := extractRecipe(scripts)
	if !ok {
		f.logger.Debug("no ld+json recipe in page", zap.String("url", rawURL))
		return catalog.RawRecipe{}, ErrNoRecipe
	}
	return raw, nil
}
