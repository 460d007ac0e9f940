package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tenvelde/receptenapi/internal/apperror"
	"github.com/tenvelde/receptenapi/internal/catalog"
)

// RecipeStore persists canonical recipes as JSONB documents.
type RecipeStore struct {
	pool  Pool
	idGen catalog.IDGenerator
}

// NewRecipeStore constructs a RecipeStore on an existing pool.
func NewRecipeStore(pool Pool, idGen catalog.IDGenerator) (*RecipeStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if idGen == nil {
		return nil, fmt.Errorf("id generator is required")
	}
	return &RecipeStore{pool: pool, idGen: idGen}, nil
}

// FindByID returns the recipe stored under id.
func (s *RecipeStore) FindByID(ctx context.Context, id string) (catalog.Recipe, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, doc FROM recipes WHERE id = $1`, id)
	return scanRecipe(row)
}

// FindByName returns the first recipe with an exactly matching name.
func (s *RecipeStore) FindByName(ctx context.Context, name string) (catalog.Recipe, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, doc FROM recipes WHERE doc->>'name' = $1 ORDER BY created_at LIMIT 1`, name)
	return scanRecipe(row)
}

// List returns all recipes ordered by name.
func (s *RecipeStore) List(ctx context.Context) ([]catalog.Recipe, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, doc FROM recipes ORDER BY doc->>'name'`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return collectRecipes(rows)
}

// searchQuery matches the query case-insensitively as a substring of the
// name, description or author name, or of any ingredient or keyword.
const searchQuery = `
SELECT id, doc FROM recipes
WHERE doc->>'name' ILIKE $1
   OR doc->>'description' ILIKE $1
   OR doc->'author'->>'name' ILIKE $1
   OR EXISTS (
	SELECT 1 FROM jsonb_array_elements_text(doc->'recipeIngredient') AS ingredient
	WHERE ingredient ILIKE $1
   )
   OR EXISTS (
	SELECT 1 FROM jsonb_array_elements_text(doc->'keywords') AS keyword
	WHERE keyword ILIKE $1
   )
ORDER BY doc->>'name'`

// Search returns recipes matching the query.
func (s *RecipeStore) Search(ctx context.Context, query string) ([]catalog.Recipe, error) {
	rows, err := s.pool.Query(ctx, searchQuery, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	return collectRecipes(rows)
}

// Insert stores a new recipe and returns its assigned id.
func (s *RecipeStore) Insert(ctx context.Context, recipe catalog.Recipe) (string, error) {
	id, err := s.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate recipe id: %w", err)
	}
	recipe.ID = id
	doc, err := json.Marshal(recipe)
	if err != nil {
		return "", fmt.Errorf("marshal recipe: %w", err)
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO recipes (id, doc) VALUES ($1, $2)`, id, doc); err != nil {
		return "", fmt.Errorf("insert recipe: %w", err)
	}
	return id, nil
}

// Update replaces the stored document for recipe.ID.
func (s *RecipeStore) Update(ctx context.Context, recipe catalog.Recipe) error {
	doc, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("marshal recipe: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE recipes SET doc = $2, updated_at = NOW() WHERE id = $1`, recipe.ID, doc)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("recipe", recipe.ID)
	}
	return nil
}

// Delete removes the recipe document.
func (s *RecipeStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("recipe", id)
	}
	return nil
}

func scanRecipe(row pgx.Row) (catalog.Recipe, error) {
	var (
		id  string
		doc []byte
	)
	if err := row.Scan(&id, &doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Recipe{}, apperror.NotFound("recipe", "")
		}
		return catalog.Recipe{}, fmt.Errorf("scan recipe: %w", err)
	}
	return decodeRecipe(id, doc)
}

func collectRecipes(rows pgx.Rows) ([]catalog.Recipe, error) {
	defer rows.Close()
	recipes := []catalog.Recipe{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan recipe row: %w", err)
		}
		recipe, err := decodeRecipe(id, doc)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return recipes, nil
}

func decodeRecipe(id string, doc []byte) (catalog.Recipe, error) {
	var recipe catalog.Recipe
	if err := json.Unmarshal(doc, &recipe); err != nil {
		return catalog.Recipe{}, fmt.Errorf("decode recipe %s: %w", id, err)
	}
	// The id column is authoritative over whatever the document carries.
	recipe.ID = id
	return recipe, nil
}
