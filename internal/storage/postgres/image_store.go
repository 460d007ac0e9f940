package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tenvelde/receptenapi/internal/apperror"
	"github.com/tenvelde/receptenapi/internal/catalog"
)

// ImageStore persists raw recipe image bytes.
type ImageStore struct {
	pool Pool
}

// NewImageStore constructs an ImageStore on an existing pool.
func NewImageStore(pool Pool) (*ImageStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &ImageStore{pool: pool}, nil
}

// Get returns the stored image for a recipe.
func (s *ImageStore) Get(ctx context.Context, recipeID string) (catalog.RecipeImage, error) {
	image := catalog.RecipeImage{RecipeID: recipeID}
	err := s.pool.QueryRow(ctx,
		`SELECT content_type, image FROM recipe_images WHERE recipe_id = $1`, recipeID).
		Scan(&image.ContentType, &image.Data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.RecipeImage{}, apperror.NotFound("recipe image", recipeID)
		}
		return catalog.RecipeImage{}, fmt.Errorf("get recipe image: %w", err)
	}
	return image, nil
}

// Upsert stores or replaces the image for a recipe.
func (s *ImageStore) Upsert(ctx context.Context, image catalog.RecipeImage) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO recipe_images (recipe_id, content_type, image) VALUES ($1, $2, $3)
		 ON CONFLICT (recipe_id) DO UPDATE SET content_type = $2, image = $3`,
		image.RecipeID, image.ContentType, image.Data)
	if err != nil {
		return fmt.Errorf("upsert recipe image: %w", err)
	}
	return nil
}

// Delete removes the image for a recipe.
func (s *ImageStore) Delete(ctx context.Context, recipeID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM recipe_images WHERE recipe_id = $1`, recipeID)
	if err != nil {
		return fmt.Errorf("delete recipe image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("recipe image", recipeID)
	}
	return nil
}
