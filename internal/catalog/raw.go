package catalog

import (
	"encoding/json"
	"strconv"
)

// RawRecipe is the admissible input shape for normalization. It accepts the
// loose schema.org-flavored JSON produced by structured-data markup, the
// parser library, and free-form user submissions. Fields that are
// polymorphic at the source (string vs list vs tree) are modeled as
// explicit variants with their own unmarshalling.
type RawRecipe struct {
	ID                 string          `json:"_id"`
	IDAlias            string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	URL                string          `json:"url"`
	Keywords           StringList      `json:"keywords"`
	RecipeCategory     StringList      `json:"recipeCategory"`
	RecipeCuisine      StringList      `json:"recipeCuisine"`
	Image              StringList      `json:"image"`
	Images             StringList      `json:"images"`
	RecipeIngredient   []string        `json:"recipeIngredient"`
	Ingredients        []string        `json:"ingredients"`
	RecipeInstructions RawInstructions `json:"recipeInstructions"`
	CookTime           string          `json:"cookTime"`
	PrepTime           string          `json:"prepTime"`
	TotalTime          string          `json:"totalTime"`
	RecipeYield        FlexString      `json:"recipeYield"`
	AggregateRating    FlexString      `json:"aggregateRating"`
	Author             RawAuthor       `json:"author"`
	Video              RawVideo        `json:"video"`
	Nutrition          *Nutrition      `json:"nutrition"`
}

func isJSONNull(data []byte) bool {
	return string(data) == "null"
}

// StringList accepts either a bare string or a list of strings.
// Non-string list elements are dropped.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringList) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*s = nil
		return nil
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		var v string
		if err := json.Unmarshal(item, &v); err == nil {
			out = append(out, v)
		}
	}
	*s = out
	return nil
}

// FlexString accepts a string or a JSON number and holds it as a string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err == nil {
		*f = FlexString(v)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	*f = ""
	return nil
}

// InstructionKind tags the RawInstructions variant.
type InstructionKind int

// Instruction input variants.
const (
	InstructionsAbsent InstructionKind = iota
	InstructionsText
	InstructionsFlat
	InstructionsTree
)

// InstructionNode is one element of a nested instruction tree: either a
// step ("HowToStep") or a one-level section ("HowToSection") carrying
// child steps in ItemListElement.
type InstructionNode struct {
	Type            string            `json:"@type"`
	Name            string            `json:"name"`
	Text            string            `json:"text"`
	ItemListElement []InstructionNode `json:"itemListElement"`
}

// RawInstructions is the tagged union over the instruction shapes observed
// in the wild: a free-text blob, a flat list of strings, or a tree of
// typed nodes.
type RawInstructions struct {
	Kind InstructionKind
	Text string
	Flat []string
	Tree []InstructionNode
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawInstructions) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		*r = RawInstructions{}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*r = RawInstructions{Kind: InstructionsText, Text: text}
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*r = RawInstructions{}
		return nil
	}
	flat := make([]string, 0, len(items))
	allStrings := true
	for _, item := range items {
		var v string
		if err := json.Unmarshal(item, &v); err != nil {
			allStrings = false
			break
		}
		flat = append(flat, v)
	}
	if allStrings {
		*r = RawInstructions{Kind: InstructionsFlat, Flat: flat}
		return nil
	}
	tree := make([]InstructionNode, 0, len(items))
	for _, item := range items {
		var node InstructionNode
		if err := json.Unmarshal(item, &node); err == nil {
			tree = append(tree, node)
		}
	}
	*r = RawInstructions{Kind: InstructionsTree, Tree: tree}
	return nil
}

// RawAuthor accepts a bare name string or a schema.org author object.
type RawAuthor struct {
	Name string
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *RawAuthor) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		a.Name = name
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		a.Name = obj.Name
		return nil
	}
	// Some sites publish author as a one-element list of objects.
	var list []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
		a.Name = list[0].Name
	}
	return nil
}

// RawVideo accepts a bare URL string or a schema.org VideoObject.
type RawVideo struct {
	URL string
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *RawVideo) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}
	var u string
	if err := json.Unmarshal(data, &u); err == nil {
		v.URL = u
		return nil
	}
	var obj struct {
		ContentURL string `json:"contentUrl"`
		URL        string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.ContentURL != "" {
			v.URL = obj.ContentURL
		} else {
			v.URL = obj.URL
		}
	}
	return nil
}
