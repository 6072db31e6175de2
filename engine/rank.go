package engine

import (
	"sort"
	"strings"
)

// ============================================================================
// CATEGORICAL RANK ORDERING — business display order for category values
// ============================================================================
// Branch names (and similar categories) are displayed in a fixed business
// sequence, not alphabetically. The sequence is expressed as an ordered list
// of keyword substrings; a value's rank is the index of the first keyword it
// contains. Values matching nothing rank after everything.
//
// Matching is case-sensitive substring containment, first match by list
// order. A keyword that happens to be a substring of an unrelated value will
// claim it — known limitation, the keyword list is curated to avoid it.
// ============================================================================

// Rank returns the priority rank of value under the ordered keyword list.
// The result is in [0, len(keywords)]; len(keywords) means no keyword matched.
func Rank(value string, keywords []string) int {
	for i, kw := range keywords {
		if kw != "" && strings.Contains(value, kw) {
			return i
		}
	}
	return len(keywords)
}

// SortByRank orders values by (rank, value): the keyword sequence first,
// alphabetical within equal ranks and for unmatched values.
func SortByRank(values []string, keywords []string) {
	sort.SliceStable(values, func(i, j int) bool {
		ri, rj := Rank(values[i], keywords), Rank(values[j], keywords)
		if ri != rj {
			return ri < rj
		}
		return values[i] < values[j]
	})
}
