package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/tenvelde/receptenapi/internal/apperror"
	"github.com/tenvelde/receptenapi/internal/catalog"
)

type apiFakeRecipeStore struct {
	recipes map[string]catalog.Recipe
	nextID  int
}

func newAPIFakeRecipeStore() *apiFakeRecipeStore {
	return &apiFakeRecipeStore{recipes: map[string]catalog.Recipe{}}
}

func (f *apiFakeRecipeStore) FindByID(_ context.Context, id string) (catalog.Recipe, error) {
	if r, ok := f.recipes[id]; ok {
		return r, nil
	}
	return catalog.Recipe{}, apperror.NotFound("recipe", id)
}

func (f *apiFakeRecipeStore) FindByName(_ context.Context, name string) (catalog.Recipe, error) {
	for _, r := range f.recipes {
		if r.Name == name {
			return r, nil
		}
	}
	return catalog.Recipe{}, apperror.NotFound("recipe", name)
}

func (f *apiFakeRecipeStore) List(context.Context) ([]catalog.Recipe, error) {
	out := []catalog.Recipe{}
	for _, r := range f.recipes {
		out = append(out, r)
	}
	return out, nil
}

func (f *apiFakeRecipeStore) Search(context.Context, string) ([]catalog.Recipe, error) {
	return f.List(context.Background())
}

func (f *apiFakeRecipeStore) Insert(_ context.Context, recipe catalog.Recipe) (string, error) {
	f.nextID++
	id := "r" + strconv.Itoa(f.nextID)
	recipe.ID = id
	f.recipes[id] = recipe
	return id, nil
}

func (f *apiFakeRecipeStore) Update(_ context.Context, recipe catalog.Recipe) error {
	if _, ok := f.recipes[recipe.ID]; !ok {
		return apperror.NotFound("recipe", recipe.ID)
	}
	f.recipes[recipe.ID] = recipe
	return nil
}

func (f *apiFakeRecipeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.recipes[id]; !ok {
		return apperror.NotFound("recipe", id)
	}
	delete(f.recipes, id)
	return nil
}

type apiFakeLinkStore struct {
	links  []catalog.DateLink
	nextID int
}

func (f *apiFakeLinkStore) Find(_ context.Context, date time.Time, recipeID string) (catalog.DateLink, error) {
	for _, l := range f.links {
		if l.Date.Equal(date) && l.RecipeID == recipeID {
			return l, nil
		}
	}
	return catalog.DateLink{}, apperror.NotFound("date link", recipeID)
}

func (f *apiFakeLinkStore) Insert(_ context.Context, link catalog.DateLink) (string, error) {
	f.nextID++
	link.ID = "l" + strconv.Itoa(f.nextID)
	f.links = append(f.links, link)
	return link.ID, nil
}

func (f *apiFakeLinkStore) Delete(_ context.Context, date time.Time, recipeID string) (catalog.DateLink, error) {
	for i, l := range f.links {
		if l.Date.Equal(date) && l.RecipeID == recipeID {
			f.links = append(f.links[:i], f.links[i+1:]...)
			return l, nil
		}
	}
	return catalog.DateLink{}, apperror.NotFound("date link", recipeID)
}

func (f *apiFakeLinkStore) DeleteByRecipe(_ context.Context, recipeID string) error {
	kept := f.links[:0]
	for _, l := range f.links {
		if l.RecipeID != recipeID {
			kept = append(kept, l)
		}
	}
	f.links = kept
	return nil
}

func (f *apiFakeLinkStore) GroupedSince(_ context.Context, since time.Time) ([]catalog.DateGroup, error) {
	byDate := map[time.Time][]catalog.Recipe{}
	for _, l := range f.links {
		if l.Date.Before(since) {
			continue
		}
		byDate[l.Date] = append(byDate[l.Date], catalog.Recipe{ID: l.RecipeID, Name: "recipe " + l.RecipeID})
	}
	groups := []catalog.DateGroup{}
	for date, recipes := range byDate {
		groups = append(groups, catalog.DateGroup{Date: date, Recipes: recipes})
	}
	return groups, nil
}

func (f *apiFakeLinkStore) FirstInWindow(_ context.Context, from, to time.Time) (catalog.DateLink, error) {
	var best *catalog.DateLink
	for i, l := range f.links {
		if l.Date.Before(from) || !l.Date.Before(to) {
			continue
		}
		if best == nil || l.CreatedAt.Before(best.CreatedAt) {
			best = &f.links[i]
		}
	}
	if best == nil {
		return catalog.DateLink{}, apperror.NotFound("date link", "")
	}
	return *best, nil
}

type apiFakeImageStore struct {
	images map[string]catalog.RecipeImage
}

func newAPIFakeImageStore() *apiFakeImageStore {
	return &apiFakeImageStore{images: map[string]catalog.RecipeImage{}}
}

func (f *apiFakeImageStore) Get(_ context.Context, recipeID string) (catalog.RecipeImage, error) {
	if img, ok := f.images[recipeID]; ok {
		return img, nil
	}
	return catalog.RecipeImage{}, apperror.NotFound("recipe image", recipeID)
}

func (f *apiFakeImageStore) Upsert(_ context.Context, image catalog.RecipeImage) error {
	f.images[image.RecipeID] = image
	return nil
}

func (f *apiFakeImageStore) Delete(_ context.Context, recipeID string) error {
	if _, ok := f.images[recipeID]; !ok {
		return apperror.NotFound("recipe image", recipeID)
	}
	delete(f.images, recipeID)
	return nil
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

type apiFakeScraper struct {
	raw catalog.RawRecipe
	err error
}

func (f *apiFakeScraper) Scrape(context.Context, string) (catalog.RawRecipe, error) {
	if f.err != nil {
		return catalog.RawRecipe{}, f.err
	}
	return f.raw, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error {
	return f.err
}

var errDBDown = errors.New("connection refused")
