package ecology

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to limit species names that look like name, closest first.
// Comparison is case-insensitive; an exact match is never suggested.
func (e *Ecosystem) Suggest(name string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil
	}

	type candidate struct {
		name string
		dist int
	}
	var cands []candidate
	for _, s := range e.species {
		if s.name == name {
			continue
		}
		cand := strings.ToLower(s.name)
		dist := levenshtein.ComputeDistance(query, cand)
		if dist > distanceLimit(len(cand)) && !strings.HasPrefix(cand, query) {
			continue
		}
		cands = append(cands, candidate{name: s.name, dist: dist})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].name < cands[j].name
		}
		return cands[i].dist < cands[j].dist
	})

	if len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.name
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
