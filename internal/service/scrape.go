package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tenvelde/receptenapi/internal/catalog"
)

// defaultScrapeTimeout bounds one scrape-and-save round trip, headless
// rendering included.
const defaultScrapeTimeout = 30 * time.Second

// recipeSaver is the slice of RecipeService a scrape needs.
type recipeSaver interface {
	Save(ctx context.Context, raw catalog.RawRecipe) (catalog.Recipe, error)
}

// ScrapeService fetches a recipe from an external URL and stores it.
type ScrapeService struct {
	scraper catalog.Scraper
	recipes recipeSaver
	timeout time.Duration
	logger  *zap.Logger
}

// NewScrapeService constructs a ScrapeService. A non-positive timeout
// falls back to the default.
func NewScrapeService(
	scraper catalog.Scraper,
	recipes recipeSaver,
	timeout time.Duration,
	logger *zap.Logger,
) *ScrapeService {
	if timeout <= 0 {
		timeout = defaultScrapeTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScrapeService{
		scraper: scraper,
		recipes: recipes,
		timeout: timeout,
		logger:  logger,
	}
}

// ScrapeAndSave scrapes the URL and persists the normalized result. The
// whole operation, rendering fallback included, is bounded by the
// configured timeout.
func (s *ScrapeService) ScrapeAndSave(ctx context.Context, url string) (catalog.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.scraper.Scrape(ctx, url)
	if err != nil {
		return catalog.Recipe{}, err
	}
	recipe, err := s.recipes.Save(ctx, raw)
	if err != nil {
		return catalog.Recipe{}, err
	}
	s.logger.Info("scraped and saved recipe",
		zap.String("url", url), zap.String("recipe_id", recipe.ID))
	return recipe, nil
}
