package scrape

import (
	"encoding/json"
	"strings"

	"github.com/tenvelde/receptenapi/internal/catalog"
)

// ldNode is the minimal probe for a schema.org JSON-LD node: enough to
// identify a Recipe and to descend into an @graph wrapper.
type ldNode struct {
	Type  catalog.StringList `json:"@type"`
	Graph []json.RawMessage  `json:"@graph"`
}

func (n ldNode) isRecipe() bool {
	for _, t := range n.Type {
		if strings.EqualFold(t, "Recipe") {
			return true
		}
	}
	return false
}

// extractRecipe scans the payloads of ld+json script blocks for a Recipe
// node, either top level, inside a top-level array, or inside an @graph
// array. Malformed payloads are skipped. Returns false when no script
// carries a Recipe.
func extractRecipe(scripts []string) (catalog.RawRecipe, bool) {
	for _, script := range scripts {
		script = strings.TrimSpace(script)
		if script == "" {
			continue
		}
		candidates := []json.RawMessage{json.RawMessage(script)}
		var list []json.RawMessage
		if err := json.Unmarshal([]byte(script), &list); err == nil {
			candidates = list
		}
		for _, candidate := range candidates {
			if raw, ok := recipeFromNode(candidate); ok {
				return raw, true
			}
		}
	}
	return catalog.RawRecipe{}, false
}

func recipeFromNode(data json.RawMessage) (catalog.RawRecipe, bool) {
	var node ldNode
	if err := json.Unmarshal(data, &node); err != nil {
		return catalog.RawRecipe{}, false
	}
	if node.isRecipe() {
		var raw catalog.RawRecipe
		if err := json.Unmarshal(data, &raw); err != nil {
			return catalog.RawRecipe{}, false
		}
		return raw, true
	}
	for _, item := range node.Graph {
		if raw, ok := recipeFromNode(item); ok {
			return raw, true
		}
	}
	return catalog.RawRecipe{}, false
}
