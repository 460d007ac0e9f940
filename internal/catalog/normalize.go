package catalog

import (
	"strings"

	"go.uber.org/zap"
)

// Normalizer coerces any admissible raw input into the canonical Recipe
// form. Normalization is pure data transformation and never fails:
// malformed pieces degrade to type-correct defaults instead of aborting
// a save.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer builds a Normalizer. Soft failures (unrecognized duration
// text) are logged through the provided logger.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Normalize converts raw input into the canonical Recipe. Every field is
// filled with a type-correct default before raw overrides apply, so a
// recipe submitted with only a name still carries empty-but-present
// collections everywhere else.
func (n *Normalizer) Normalize(raw RawRecipe) Recipe {
	recipe := Recipe{
		ID:                 firstNonEmpty(raw.ID, raw.IDAlias),
		Name:               raw.Name,
		Description:        raw.Description,
		URL:                raw.URL,
		Keywords:           splitJoined(raw.Keywords),
		RecipeCategory:     splitJoined(raw.RecipeCategory),
		RecipeCuisine:      splitJoined(raw.RecipeCuisine),
		Images:             dropEmpty(coalesceList(raw.Images, raw.Image)),
		RecipeIngredient:   defaultList(raw.RecipeIngredient),
		RecipeInstructions: normalizeInstructions(raw.RecipeInstructions),
		CookTime:           raw.CookTime,
		PrepTime:           raw.PrepTime,
		TotalTime:          raw.TotalTime,
		RecipeYield:        string(raw.RecipeYield),
		AggregateRating:    string(raw.AggregateRating),
		Nutrition:          raw.Nutrition,
	}

	if raw.Author.Name != "" {
		recipe.Author = &Author{Name: raw.Author.Name}
	}
	// An empty video string means absent, not a video with no URL.
	if raw.Video.URL != "" {
		recipe.Video = &Video{URL: raw.Video.URL}
	}

	// The legacy ingredients field wins over recipeIngredient when present.
	if raw.Ingredients != nil {
		recipe.RecipeIngredient = append([]string(nil), raw.Ingredients...)
	}

	recipe.CookTime = n.convertDuration("cookTime", recipe.CookTime)
	recipe.TotalTime = n.convertDuration("totalTime", recipe.TotalTime)
	recipe.PrepTime = n.convertDuration("prepTime", recipe.PrepTime)

	return recipe
}

func (n *Normalizer) convertDuration(field, value string) string {
	if !NeedsConversion(value) {
		return value
	}
	converted, ok := ToDuration(value)
	if !ok {
		n.logger.Warn("duration conversion failed, keeping original",
			zap.String("field", field),
			zap.String("value", value),
		)
	}
	return converted
}

// splitJoined repairs sources that serialize a multi-value field as one
// comma-joined string: a single element containing commas becomes
// multiple elements. Already-split lists pass through untouched.
func splitJoined(list StringList) []string {
	if len(list) == 1 && strings.Contains(list[0], ",") {
		return strings.Split(list[0], ",")
	}
	return defaultList(list)
}

func coalesceList(primary, fallback StringList) StringList {
	if len(primary) > 0 {
		return primary
	}
	return fallback
}

func dropEmpty(list StringList) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func defaultList(list []string) []string {
	if list == nil {
		return []string{}
	}
	return append([]string(nil), list...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
