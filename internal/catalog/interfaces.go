package catalog

import (
	"context"
	"time"
)

// RecipeStore persists canonical recipes as documents.
type RecipeStore interface {
	FindByID(ctx context.Context, id string) (Recipe, error)
	FindByName(ctx context.Context, name string) (Recipe, error)
	List(ctx context.Context) ([]Recipe, error)
	Search(ctx context.Context, query string) ([]Recipe, error)
	Insert(ctx context.Context, recipe Recipe) (string, error)
	Update(ctx context.Context, recipe Recipe) error
	Delete(ctx context.Context, id string) error
}

// DateLinkStore persists day-to-recipe links.
type DateLinkStore interface {
	Find(ctx context.Context, date time.Time, recipeID string) (DateLink, error)
	Insert(ctx context.Context, link DateLink) (string, error)
	Delete(ctx context.Context, date time.Time, recipeID string) (DateLink, error)
	DeleteByRecipe(ctx context.Context, recipeID string) error
	// GroupedSince returns links with date >= since joined to their recipes,
	// grouped per day, days ascending.
	GroupedSince(ctx context.Context, since time.Time) ([]DateGroup, error)
	// FirstInWindow returns the earliest-created link whose date falls in
	// [from, to).
	FirstInWindow(ctx context.Context, from, to time.Time) (DateLink, error)
}

// ImageStore persists raw recipe image bytes.
type ImageStore interface {
	Get(ctx context.Context, recipeID string) (RecipeImage, error)
	Upsert(ctx context.Context, image RecipeImage) error
	Delete(ctx context.Context, recipeID string) error
}

// Scraper extracts raw recipe data from a URL.
type Scraper interface {
	Scrape(ctx context.Context, url string) (RawRecipe, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces record IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
