package view

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// suggestionThreshold is the lowest Jaro-Winkler similarity reported as a match.
const suggestionThreshold = 0.8

// maxSuggestions caps how many names Suggest returns.
const maxSuggestions = 3

// Suggest returns the catalog names and group tokens closest to name, most
// similar first. It is used to print "did you mean" hints for selections
// that plan nothing.
func Suggest(name string, c *Catalog) []string {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return nil
	}

	type candidate struct {
		name       string
		similarity float64
	}
	candidates := make([]candidate, 0, c.Len()+3)
	for _, n := range append([]string{TokenAll, TokenPreLogin, TokenPostLogin}, c.Names()...) {
		sim := matchr.JaroWinkler(target, n, false)
		if sim >= suggestionThreshold {
			candidates = append(candidates, candidate{name: n, similarity: sim})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	out := make([]string, len(candidates))
	for i, cand := range candidates {
		out[i] = cand.name
	}
	return out
}
