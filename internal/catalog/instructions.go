package catalog

import "strings"

// Schema.org type tags recognized in instruction trees.
const (
	nodeTypeStep    = "HowToStep"
	nodeTypeSection = "HowToSection"
)

// normalizeInstructions resolves any admissible instruction input into a
// flat ordered step list. A free-text blob is split on periods into
// sentence-like steps; a flat string list wraps each entry as a step; a
// tree contributes section children (one level, in order) and passes
// bare steps through. Anything else is dropped.
func normalizeInstructions(raw RawInstructions) []Step {
	switch raw.Kind {
	case InstructionsText:
		return splitTextSteps(raw.Text)
	case InstructionsFlat:
		steps := make([]Step, 0, len(raw.Flat))
		for _, text := range raw.Flat {
			steps = append(steps, Step{Name: text, Text: text})
		}
		return steps
	case InstructionsTree:
		return flattenTree(raw.Tree)
	default:
		return []Step{}
	}
}

func splitTextSteps(text string) []Step {
	fragments := strings.Split(text, ".")
	steps := make([]Step, 0, len(fragments))
	for _, fragment := range fragments {
		// A trailing period leaves an empty final fragment; skip it.
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		steps = append(steps, Step{Name: fragment, Text: fragment})
	}
	return steps
}

func flattenTree(nodes []InstructionNode) []Step {
	steps := make([]Step, 0, len(nodes))
	for _, node := range nodes {
		switch node.Type {
		case nodeTypeSection:
			for _, child := range node.ItemListElement {
				if child.Type == nodeTypeStep {
					steps = append(steps, Step{Name: child.Name, Text: child.Text})
				}
			}
		case nodeTypeStep:
			steps = append(steps, Step{Name: node.Name, Text: node.Text})
		}
		// Untyped or unknown nodes are dropped. Sections nested inside
		// sections do not occur in observed markup and are ignored.
	}
	return steps
}
