package engine

import (
	"sort"
	"strings"

	"github.com/mesh-intelligence/argbind/pkg/types"
)

const (
	maxSuggestions        = 3
	maxSuggestionDistance = 3
)

// suggestCommands returns up to maxSuggestions child names of node that
// are within maxSuggestionDistance edits of input, closest first and
// alphabetical within equal distance.
func suggestCommands(input string, node *types.Command) []string {
	type candidate struct {
		name     string
		distance int
	}

	var candidates []candidate
	for _, name := range node.ChildNames() {
		d := editDistance(input, name)
		if d > 0 && d <= maxSuggestionDistance {
			candidates = append(candidates, candidate{name: name, distance: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

// editDistance is the case-folded Levenshtein distance between a and b.
func editDistance(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
