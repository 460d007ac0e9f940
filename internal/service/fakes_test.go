package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/tenvelde/receptenapi/internal/apperror"
	"github.com/tenvelde/receptenapi/internal/catalog"
)

type fakeRecipeStore struct {
	recipes map[string]catalog.Recipe
	nextID  int
}

func newFakeRecipeStore() *fakeRecipeStore {
	return &fakeRecipeStore{recipes: map[string]catalog.Recipe{}}
}

func (f *fakeRecipeStore) FindByID(_ context.Context, id string) (catalog.Recipe, error) {
	r, ok := f.recipes[id]
	if !ok {
		return catalog.Recipe{}, apperror.NotFound("recipe", id)
	}
	return r, nil
}

func (f *fakeRecipeStore) FindByName(_ context.Context, name string) (catalog.Recipe, error) {
	for _, r := range f.recipes {
		if r.Name == name {
			return r, nil
		}
	}
	return catalog.Recipe{}, apperror.NotFound("recipe", name)
}

func (f *fakeRecipeStore) List(_ context.Context) ([]catalog.Recipe, error) {
	out := make([]catalog.Recipe, 0, len(f.recipes))
	for _, r := range f.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRecipeStore) Search(_ context.Context, _ string) ([]catalog.Recipe, error) {
	return f.List(context.Background())
}

func (f *fakeRecipeStore) Insert(_ context.Context, recipe catalog.Recipe) (string, error) {
	f.nextID++
	id := "r" + strconv.Itoa(f.nextID)
	recipe.ID = id
	f.recipes[id] = recipe
	return id, nil
}

func (f *fakeRecipeStore) Update(_ context.Context, recipe catalog.Recipe) error {
	if _, ok := f.recipes[recipe.ID]; !ok {
		return apperror.NotFound("recipe", recipe.ID)
	}
	f.recipes[recipe.ID] = recipe
	return nil
}

func (f *fakeRecipeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.recipes[id]; !ok {
		return apperror.NotFound("recipe", id)
	}
	delete(f.recipes, id)
	return nil
}

type fakeLinkStore struct {
	links  []catalog.DateLink
	nextID int
}

func (f *fakeLinkStore) Find(_ context.Context, date time.Time, recipeID string) (catalog.DateLink, error) {
	for _, l := range f.links {
		if l.Date.Equal(date) && l.RecipeID == recipeID {
			return l, nil
		}
	}
	return catalog.DateLink{}, apperror.NotFound("date link", recipeID)
}

func (f *fakeLinkStore) Insert(_ context.Context, link catalog.DateLink) (string, error) {
	f.nextID++
	id := "l" + strconv.Itoa(f.nextID)
	link.ID = id
	f.links = append(f.links, link)
	return id, nil
}

func (f *fakeLinkStore) Delete(_ context.Context, date time.Time, recipeID string) (catalog.DateLink, error) {
	for i, l := range f.links {
		if l.Date.Equal(date) && l.RecipeID == recipeID {
			f.links = append(f.links[:i], f.links[i+1:]...)
			return l, nil
		}
	}
	return catalog.DateLink{}, apperror.NotFound("date link", recipeID)
}

func (f *fakeLinkStore) DeleteByRecipe(_ context.Context, recipeID string) error {
	kept := f.links[:0]
	for _, l := range f.links {
		if l.RecipeID != recipeID {
			kept = append(kept, l)
		}
	}
	f.links = kept
	return nil
}

func (f *fakeLinkStore) GroupedSince(_ context.Context, since time.Time) ([]catalog.DateGroup, error) {
	byDate := map[time.Time][]catalog.Recipe{}
	for _, l := range f.links {
		if l.Date.Before(since) {
			continue
		}
		byDate[l.Date] = append(byDate[l.Date], catalog.Recipe{ID: l.RecipeID})
	}
	groups := make([]catalog.DateGroup, 0, len(byDate))
	for date, recipes := range byDate {
		groups = append(groups, catalog.DateGroup{Date: date, Recipes: recipes})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date.Before(groups[j].Date) })
	return groups, nil
}

func (f *fakeLinkStore) FirstInWindow(_ context.Context, from, to time.Time) (catalog.DateLink, error) {
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
		return catalog.DateLink{}, apperror.NotFound("date link", "window")
	}
	return *best, nil
}

type fakeImageStore struct {
	images map[string]catalog.RecipeImage
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{images: map[string]catalog.RecipeImage{}}
}

func (f *fakeImageStore) Get(_ context.Context, recipeID string) (catalog.RecipeImage, error) {
	img, ok := f.images[recipeID]
	if !ok {
		return catalog.RecipeImage{}, apperror.NotFound("recipe image", recipeID)
	}
	return img, nil
}

func (f *fakeImageStore) Upsert(_ context.Context, image catalog.RecipeImage) error {
	f.images[image.RecipeID] = image
	return nil
}

func (f *fakeImageStore) Delete(_ context.Context, recipeID string) error {
	if _, ok := f.images[recipeID]; !ok {
		return apperror.NotFound("recipe image", recipeID)
	}
	delete(f.images, recipeID)
	return nil
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }
