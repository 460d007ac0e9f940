package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tenvelde/receptenapi/internal/apperror"
	"github.com/tenvelde/receptenapi/internal/catalog"
)

// DateLinkService manages the association between calendar days and
// recipes.
type DateLinkService struct {
	recipes catalog.RecipeStore
	links   catalog.DateLinkStore
	clock   catalog.Clock
	logger  *zap.Logger
}

// NewDateLinkService constructs a DateLinkService.
func NewDateLinkService(
	recipes catalog.RecipeStore,
	links catalog.DateLinkStore,
	clock catalog.Clock,
	logger *zap.Logger,
) *DateLinkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DateLinkService{recipes: recipes, links: links, clock: clock, logger: logger}
}

// Link associates a recipe with a calendar day. The date is truncated to
// UTC midnight before storage so equality comparisons are consistent. At
// most one link may exist per (date, recipe) pair.
func (s *DateLinkService) Link(ctx context.Context, date time.Time, recipeID string) (catalog.DateLink, error) {
	day := catalog.DayStart(date)

	if _, err := s.recipes.FindByID(ctx, recipeID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return catalog.DateLink{}, apperror.NotFound("recipe", recipeID)
		}
		return catalog.DateLink{}, apperror.Internal("look up recipe", err)
	}

	_, err := s.links.Find(ctx, day, recipeID)
	switch {
	case err == nil:
		return catalog.DateLink{}, apperror.Conflict("recipe already linked to this date")
	case !errors.Is(err, apperror.ErrNotFound):
		return catalog.DateLink{}, apperror.Internal("look up date link", err)
	}

	link := catalog.DateLink{
		Date:      day,
		RecipeID:  recipeID,
		CreatedAt: s.clock.Now(),
	}
	id, err := s.links.Insert(ctx, link)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return catalog.DateLink{}, apperror.Conflict("recipe already linked to this date")
		}
		return catalog.DateLink{}, apperror.Internal("create date link", err)
	}
	link.ID = id
	return link, nil
}

// Unlink removes the link between a recipe and a calendar day.
func (s *DateLinkService) Unlink(ctx context.Context, date time.Time, recipeID string) (catalog.DateLink, error) {
	link, err := s.links.Delete(ctx, catalog.DayStart(date), recipeID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return catalog.DateLink{}, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: "recipe not linked to this date",
			}
		}
		return catalog.DateLink{}, apperror.Internal("delete date link", err)
	}
	return link, nil
}

// DatesWithRecipes returns every linked day with its recipes, days
// ascending.
func (s *DateLinkService) DatesWithRecipes(ctx context.Context) ([]catalog.DateGroup, error) {
	groups, err := s.links.GroupedSince(ctx, time.Time{})
	if err != nil {
		return nil, apperror.Internal("list dates with recipes", err)
	}
	return groups, nil
}

// FirstRecipeForToday returns the recipe id of the earliest-created link
// whose date falls on the given day, or the empty string when the day
// has no links.
func (s *DateLinkService) FirstRecipeForToday(ctx context.Context, date time.Time) (string, error) {
	from := catalog.DayStart(date)
	to := from.AddDate(0, 0, 1)
	link, err := s.links.FirstInWindow(ctx, from, to)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", nil
		}
		return "", apperror.Internal("look up today's recipe", err)
	}
	return link.RecipeID, nil
}
