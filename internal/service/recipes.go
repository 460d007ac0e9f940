// Package service implements the application operations on top of the
// persistence stores, wrapping failures into the apperror taxonomy.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/tenvelde/receptenapi/internal/apperror"
	"github.com/tenvelde/receptenapi/internal/catalog"
)

// MaxImageBytes caps image downloads and uploads.
const MaxImageBytes = 10 << 20

// RecipeService handles recipe CRUD, search and image management.
type RecipeService struct {
	recipes    catalog.RecipeStore
	images     catalog.ImageStore
	links      catalog.DateLinkStore
	normalizer *catalog.Normalizer
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRecipeService constructs a RecipeService. The httpClient is used for
// outbound image fetches and must carry a timeout so one slow remote
// host cannot stall a request.
func NewRecipeService(
	recipes catalog.RecipeStore,
	images catalog.ImageStore,
	links catalog.DateLinkStore,
	normalizer *catalog.Normalizer,
	httpClient *http.Client,
	logger *zap.Logger,
) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{
		recipes:    recipes,
		images:     images,
		links:      links,
		normalizer: normalizer,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Save normalizes raw input and persists it. Lookup by id takes
// precedence over lookup by name for duplicate resolution; when neither
// matches, a new document is inserted and assigned its identity.
// Two concurrent saves for the same unseen name can race into duplicate
// documents; that is accepted, not guarded.
func (s *RecipeService) Save(ctx context.Context, raw catalog.RawRecipe) (catalog.Recipe, error) {
	recipe := s.normalizer.Normalize(raw)

	existingID, err := s.resolveExisting(ctx, recipe)
	if err != nil {
		return catalog.Recipe{}, err
	}

	if existingID == "" {
		id, err := s.recipes.Insert(ctx, recipe)
		if err != nil {
			return catalog.Recipe{}, apperror.Internal("save recipe", err)
		}
		recipe.ID = id
		return recipe, nil
	}

	recipe.ID = existingID
	if err := s.recipes.Update(ctx, recipe); err != nil {
		return catalog.Recipe{}, apperror.Internal("update recipe", err)
	}
	return recipe, nil
}

func (s *RecipeService) resolveExisting(ctx context.Context, recipe catalog.Recipe) (string, error) {
	if recipe.ID != "" {
		existing, err := s.recipes.FindByID(ctx, recipe.ID)
		switch {
		case err == nil:
			return existing.ID, nil
		case !errors.Is(err, apperror.ErrNotFound):
			return "", apperror.Internal("look up recipe by id", err)
		}
	}
	existing, err := s.recipes.FindByName(ctx, recipe.Name)
	switch {
	case err == nil:
		return existing.ID, nil
	case errors.Is(err, apperror.ErrNotFound):
		return "", nil
	default:
		return "", apperror.Internal("look up recipe by name", err)
	}
}

// Get returns one recipe by id.
func (s *RecipeService) Get(ctx context.Context, id string) (catalog.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return catalog.Recipe{}, apperror.NotFound("recipe", id)
		}
		return catalog.Recipe{}, apperror.Internal("get recipe", err)
	}
	return recipe, nil
}

// List returns all recipes.
func (s *RecipeService) List(ctx context.Context) ([]catalog.Recipe, error) {
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, apperror.Internal("list recipes", err)
	}
	return recipes, nil
}

// Search returns recipes matching the query case-insensitively across
// name, description, ingredients, keywords and author name.
func (s *RecipeService) Search(ctx context.Context, query string) ([]catalog.Recipe, error) {
	recipes, err := s.recipes.Search(ctx, query)
	if err != nil {
		return nil, apperror.Internal("search recipes", err)
	}
	return recipes, nil
}

// Delete removes a recipe and cascades its date links and stored image,
// so no dangling references surface in the calendar feed.
func (s *RecipeService) Delete(ctx context.Context, id string) error {
	if err := s.recipes.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NotFound("recipe", id)
		}
		return apperror.Internal("delete recipe", err)
	}
	if err := s.links.DeleteByRecipe(ctx, id); err != nil {
		return apperror.Internal("delete recipe date links", err)
	}
	if err := s.images.Delete(ctx, id); err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return apperror.Internal("delete recipe image", err)
	}
	return nil
}

// SetImageByURL downloads the image at url and stores it for the recipe.
func (s *RecipeService) SetImageByURL(ctx context.Context, recipeID, url string) error {
	if url == "" {
		return apperror.Validation("image url is required")
	}
	if _, err := s.Get(ctx, recipeID); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperror.Validation(fmt.Sprintf("invalid image url: %v", err))
	}
	// Some image hosts reject requests without browser-looking headers.
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Referer", url)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return apperror.Upstream("image fetch failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			s.logger.Warn("close image response body", zap.Error(closeErr))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return apperror.Upstream("image fetch failed",
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes))
	if err != nil {
		return apperror.Upstream("image fetch failed", err)
	}

	return s.SetImageFromBytes(ctx, recipeID, data, resp.Header.Get("Content-Type"))
}

// SetImageFromBytes stores uploaded image bytes for the recipe.
func (s *RecipeService) SetImageFromBytes(ctx context.Context, recipeID string, data []byte, contentType string) error {
	if len(data) == 0 {
		return apperror.Validation("image data is required")
	}
	if len(data) > MaxImageBytes {
		return apperror.Validation("image exceeds the 10MB limit")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	err := s.images.Upsert(ctx, catalog.RecipeImage{
		RecipeID:    recipeID,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return apperror.Internal("store recipe image", err)
	}
	return nil
}

// GetImage returns the stored image for a recipe. A missing image
// degrades to the embedded placeholder rather than an error, so clients
// always have something to render.
func (s *RecipeService) GetImage(ctx context.Context, recipeID string) (catalog.RecipeImage, error) {
	image, err := s.images.Get(ctx, recipeID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return placeholderImage(recipeID), nil
		}
		return catalog.RecipeImage{}, apperror.Internal("get recipe image", err)
	}
	return image, nil
}
