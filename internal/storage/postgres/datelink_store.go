package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tenvelde/receptenapi/internal/apperror"
	"github.com/tenvelde/receptenapi/internal/catalog"
)

// DateLinkStore persists day-to-recipe links.
type DateLinkStore struct {
	pool  Pool
	idGen catalog.IDGenerator
}

// NewDateLinkStore constructs a DateLinkStore on an existing pool.
func NewDateLinkStore(pool Pool, idGen catalog.IDGenerator) (*DateLinkStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if idGen == nil {
		return nil, fmt.Errorf("id generator is required")
	}
	return &DateLinkStore{pool: pool, idGen: idGen}, nil
}

// Find returns the link for the exact (date, recipe) pair.
func (s *DateLinkStore) Find(ctx context.Context, date time.Time, recipeID string) (catalog.DateLink, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, date, recipe_id, created_at FROM date_links WHERE date = $1 AND recipe_id = $2`,
		date, recipeID)
	return scanDateLink(row)
}

// Insert stores a new link and returns its assigned id. A duplicate
// (date, recipe) pair maps the unique constraint onto Conflict.
func (s *DateLinkStore) Insert(ctx context.Context, link catalog.DateLink) (string, error) {
	id, err := s.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate date link id: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO date_links (id, date, recipe_id, created_at) VALUES ($1, $2, $3, $4)`,
		id, link.Date, link.RecipeID, link.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return "", apperror.Conflict("recipe already linked to this date")
		}
		return "", fmt.Errorf("insert date link: %w", err)
	}
	return id, nil
}

// Delete removes and returns the link for the (date, recipe) pair.
func (s *DateLinkStore) Delete(ctx context.Context, date time.Time, recipeID string) (catalog.DateLink, error) {
	row := s.pool.QueryRow(ctx,
		`DELETE FROM date_links WHERE date = $1 AND recipe_id = $2
		 RETURNING id, date, recipe_id, created_at`,
		date, recipeID)
	return scanDateLink(row)
}

// DeleteByRecipe removes every link referencing the recipe. Used when a
// recipe is deleted so the feed never sees dangling references.
func (s *DateLinkStore) DeleteByRecipe(ctx context.Context, recipeID string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM date_links WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("delete date links for recipe: %w", err)
	}
	return nil
}

// GroupedSince returns links dated on or after since joined with their
// recipes, grouped per day, days ascending. The join is a left join:
// a dangling link surfaces as a zero-value recipe so callers can decide
// how to degrade.
func (s *DateLinkStore) GroupedSince(ctx context.Context, since time.Time) ([]catalog.DateGroup, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT l.date, r.id, r.doc
		 FROM date_links l
		 LEFT JOIN recipes r ON r.id = l.recipe_id
		 WHERE l.date >= $1
		 ORDER BY l.date, l.created_at`,
		since)
	if err != nil {
		return nil, fmt.Errorf("query grouped date links: %w", err)
	}
	defer rows.Close()

	groups := []catalog.DateGroup{}
	for rows.Next() {
		var (
			date time.Time
			id   *string
			doc  []byte
		)
		if err := rows.Scan(&date, &id, &doc); err != nil {
			return nil, fmt.Errorf("scan grouped date link: %w", err)
		}
		recipe := catalog.Recipe{}
		if id != nil && doc != nil {
			if err := json.Unmarshal(doc, &recipe); err != nil {
				return nil, fmt.Errorf("decode recipe %s: %w", *id, err)
			}
			recipe.ID = *id
		}
		if n := len(groups); n > 0 && groups[n-1].Date.Equal(date) {
			groups[n-1].Recipes = append(groups[n-1].Recipes, recipe)
		} else {
			groups = append(groups, catalog.DateGroup{Date: date, Recipes: []catalog.Recipe{recipe}})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grouped date links: %w", err)
	}
	return groups, nil
}

// FirstInWindow returns the earliest-created link dated within [from, to).
func (s *DateLinkStore) FirstInWindow(ctx context.Context, from, to time.Time) (catalog.DateLink, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, date, recipe_id, created_at FROM date_links
		 WHERE date >= $1 AND date < $2
		 ORDER BY created_at LIMIT 1`,
		from, to)
	return scanDateLink(row)
}

func scanDateLink(row pgx.Row) (catalog.DateLink, error) {
	var link catalog.DateLink
	if err := row.Scan(&link.ID, &link.Date, &link.RecipeID, &link.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.DateLink{}, apperror.NotFound("date link", "")
		}
		return catalog.DateLink{}, fmt.Errorf("scan date link: %w", err)
	}
	return link, nil
}
