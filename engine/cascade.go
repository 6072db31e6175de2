package engine

import "sort"

// ============================================================================
// CASCADING FILTER SET — dependent hierarchy selections
// ============================================================================
// The hierarchy selectors depend on each other top-down: the branches worth
// offering are only those under the chosen headquarters, the accounts only
// those under the chosen branches. Resolution walks the levels in order and,
// at each level:
//
//   1. computes the valid candidates among rows passing the upper levels'
//      resolved selections,
//   2. drops user-selected values that are no longer valid (a stale lower
//      selection after an upstream change must not silently empty the view),
//   3. falls back to the full candidate set when nothing valid remains
//      selected — "nothing selected" always means "show everything".
//
// A level whose dimension the view does not expose is unconstrained: it
// resolves empty and upstream-valid rows pass through untouched.
// ============================================================================

// ResolveCascade resolves the dependent selection sets for the given levels,
// top to bottom. The returned slice is parallel to levels.
//
// Invariant: Selected is non-empty whenever Candidates is non-empty, and
// Candidates is empty only when no rows survive the upper levels (or the
// dimension is missing from the view).
func ResolveCascade(view RecordView, levels []Level) []ResolvedSelection {
	resolved := make([]ResolvedSelection, 0, len(levels))
	upper := make(map[string][]string)

	for _, lvl := range levels {
		if !HasDimension(view, lvl.Dimension) {
			resolved = append(resolved, ResolvedSelection{Dimension: lvl.Dimension})
			continue
		}

		scope := ApplySelections(view, upper)
		candidates := UniqueValues(scope, lvl.Dimension)
		sort.Strings(candidates)

		keep := intersect(lvl.Selected, candidates)
		fellBack := false
		if len(keep) == 0 {
			keep = append([]string(nil), candidates...)
			fellBack = true
		}

		resolved = append(resolved, ResolvedSelection{
			Dimension:  lvl.Dimension,
			Candidates: candidates,
			Selected:   keep,
			FellBack:   fellBack,
		})

		if len(keep) > 0 {
			upper[lvl.Dimension] = keep
		}
	}
	return resolved
}

// SelectionMap flattens resolved selections into the map ApplySelections
// consumes. Unconstrained levels (no candidates) are omitted.
func SelectionMap(resolved []ResolvedSelection) map[string][]string {
	m := make(map[string][]string, len(resolved))
	for _, r := range resolved {
		if len(r.Selected) > 0 {
			m[r.Dimension] = r.Selected
		}
	}
	return m
}

// intersect keeps the elements of selected that appear in candidates,
// preserving candidate order so the result is stable across calls.
func intersect(selected, candidates []string) []string {
	if len(selected) == 0 {
		return nil
	}
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}
	var out []string
	for _, c := range candidates {
		if want[c] {
			out = append(out, c)
		}
	}
	return out
}
