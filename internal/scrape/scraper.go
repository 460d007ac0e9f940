package scrape

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/tenvelde/receptenapi/internal/apperror"
	"github.com/tenvelde/receptenapi/internal/catalog"
)

// fetcher is the shared shape of the structured and headless paths.
type fetcher interface {
	Scrape(ctx context.Context, rawURL string) (catalog.RawRecipe, error)
}

// Scraper tries the cheap structured fetch first and falls back to
// headless rendering when the page yields no instructions. It implements
// catalog.Scraper.
type Scraper struct {
	structured fetcher
	headless   fetcher
	logger     *zap.Logger
}

// NewScraper wires the two paths together. headless may be nil when the
// fallback is disabled.
func NewScraper(structured fetcher, headless fetcher, logger *zap.Logger) *Scraper {
	return &Scraper{
		structured: structured,
		headless:   headless,
		logger:     logger,
	}
}

// Scrape extracts raw recipe data from the URL. A structured result
// without instructions triggers the headless fallback; if the fallback
// is unavailable or fails, the partial structured result is returned.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (catalog.RawRecipe, error) {
	if err := validateURL(rawURL); err != nil {
		return catalog.RawRecipe{}, err
	}

	raw, structuredErr := s.structured.Scrape(ctx, rawURL)
	if structuredErr == nil && raw.RecipeInstructions.Kind != catalog.InstructionsAbsent {
		s.logger.Info("scraped via structured fetch", zap.String("url", rawURL))
		return raw, nil
	}

	if s.headless == nil {
		if structuredErr != nil {
			return catalog.RawRecipe{}, apperror.Upstream("scrape failed", structuredErr)
		}
		s.logger.Warn("structured result has no instructions and headless is disabled",
			zap.String("url", rawURL))
		return raw, nil
	}

	s.logger.Info("falling back to headless render", zap.String("url", rawURL))
	rendered, headlessErr := s.headless.Scrape(ctx, rawURL)
	if headlessErr == nil {
		return rendered, nil
	}
	if structuredErr == nil {
		s.logger.Warn("headless render failed, keeping partial structured result",
			zap.String("url", rawURL), zap.Error(headlessErr))
		return raw, nil
	}
	return catalog.RawRecipe{}, apperror.Upstream("scrape failed", headlessErr)
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return apperror.Validation("url is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return apperror.Validation("url must be absolute")
	}
	return nil
}
