package engine

import "strings"

// ============================================================================
// FILTERS — hierarchy membership + boolean toggles
// ============================================================================
// Single-pass filters over a RecordView; each returns a SubView (index list
// into the parent) — zero data copy. Membership is exact and case-sensitive:
// selection values come from the dataset itself via the cascade, never from
// free-form input.
// ============================================================================

// ApplySelections returns a view of rows whose dimensions are members of the
// corresponding selection sets. Dimensions are AND-combined; values within a
// dimension are OR-combined. An empty or missing set leaves that dimension
// unconstrained.
func ApplySelections(view RecordView, selections map[string][]string) RecordView {
	sets := make(map[string]map[string]bool)
	for dim, allowed := range selections {
		if len(allowed) > 0 {
			set := make(map[string]bool, len(allowed))
			for _, v := range allowed {
				set[v] = true
			}
			sets[dim] = set
		}
	}
	if len(sets) == 0 {
		return view
	}

	indices := make([]int, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		pass := true
		for dim, set := range sets {
			if !set[view.Dimension(i, dim)] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// ApplyToggles returns a view of rows passing every toggle predicate.
// Toggles on dimensions the view does not expose pass everything — a missing
// source column must never raise or filter the dashboard empty.
func ApplyToggles(view RecordView, toggles []Toggle) RecordView {
	var active []Toggle
	for _, t := range toggles {
		if HasDimension(view, t.Dimension) {
			active = append(active, t)
		}
	}
	if len(active) == 0 {
		return view
	}

	indices := make([]int, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		pass := true
		for _, t := range active {
			val := view.Dimension(i, t.Dimension)
			if t.Contains != "" && !strings.Contains(val, t.Contains) {
				pass = false
				break
			}
			if t.Contains == "" && val == t.NotEqual {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}
