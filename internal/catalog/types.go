// Package catalog defines the canonical recipe model shared across subsystems.
package catalog

import "time"

// Step is one normalized instruction unit. Canonical recipes only ever
// contain flat step lists; section nodes are resolved during normalization.
type Step struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Author describes the recipe source attribution.
type Author struct {
	Name string `json:"name"`
}

// Video points at an optional recipe video.
type Video struct {
	URL string `json:"url"`
}

// Nutrition holds numeric-as-string nutrition facts, mirroring
// schema.org NutritionInformation.
type Nutrition struct {
	Calories              string `json:"calories,omitempty"`
	CarbohydrateContent   string `json:"carbohydrateContent,omitempty"`
	ProteinContent        string `json:"proteinContent,omitempty"`
	FatContent            string `json:"fatContent,omitempty"`
	SaturatedFatContent   string `json:"saturatedFatContent,omitempty"`
	TransFatContent       string `json:"transFatContent,omitempty"`
	CholesterolContent    string `json:"cholesterolContent,omitempty"`
	SodiumContent         string `json:"sodiumContent,omitempty"`
	FiberContent          string `json:"fiberContent,omitempty"`
	SugarContent          string `json:"sugarContent,omitempty"`
	UnsaturatedFatContent string `json:"unsaturatedFatContent,omitempty"`
	ServingSize           string `json:"servingSize,omitempty"`
}

// Recipe is the canonical normalized record. Every list field is always
// present (possibly empty), never nil after normalization.
type Recipe struct {
	ID                 string     `json:"id,omitempty"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	URL                string     `json:"url,omitempty"`
	Keywords           []string   `json:"keywords"`
	RecipeCategory     []string   `json:"recipeCategory"`
	RecipeCuisine      []string   `json:"recipeCuisine"`
	Images             []string   `json:"images"`
	RecipeIngredient   []string   `json:"recipeIngredient"`
	RecipeInstructions []Step     `json:"recipeInstructions"`
	CookTime           string     `json:"cookTime"`
	PrepTime           string     `json:"prepTime"`
	TotalTime          string     `json:"totalTime"`
	RecipeYield        string     `json:"recipeYield,omitempty"`
	AggregateRating    string     `json:"aggregateRating,omitempty"`
	Author             *Author    `json:"author,omitempty"`
	Video              *Video     `json:"video,omitempty"`
	Nutrition          *Nutrition `json:"nutrition,omitempty"`
}

// DateLink associates one calendar day (UTC midnight) with exactly one recipe.
type DateLink struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	RecipeID  string    `json:"recipeId"`
	CreatedAt time.Time `json:"createdAt"`
}

// DateGroup is one feed bucket: a calendar day plus every recipe linked to it.
type DateGroup struct {
	Date    time.Time `json:"date"`
	Recipes []Recipe  `json:"recipes"`
}

// RecipeImage stores raw image bytes for one recipe.
type RecipeImage struct {
	RecipeID    string `json:"recipeId"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// DayStart truncates t to UTC midnight. Dates are stored and compared at
// day granularity, always in UTC, so link equality is unambiguous.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
