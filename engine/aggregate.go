package engine

import "sort"

// ============================================================================
// AGGREGATION — grouping, the mode triple, and sorting
// ============================================================================
// Pipeline per summary: group → aggregate (via the pass's AggTriple) → sort.
// Grouping produces SubViews; the aggregate is written into Group.Value
// before SortGroups runs, so sorting can never reference a source column
// that aggregation has already consumed.
// ============================================================================

// SortSpec selects how grouped results are ordered.
type SortSpec struct {
	By           string   // "period", "rank", "value_desc", "value_asc", "alpha", "" = grouping order
	CutoffYear   int      // required for By == "period"
	RankKeywords []string // required for By == "rank"
}

// GroupAndAggregate groups a view by one or two dimensions, aggregates each
// group with the resolved triple, and sorts. Two group-by dimensions nest:
// the second becomes SubGroups of the first.
func GroupAndAggregate(view RecordView, groupBy []string, triple AggTriple, sortSpec SortSpec) []Group {
	if view.Len() == 0 || len(groupBy) == 0 {
		return nil
	}

	groups := groupBySingle(view, groupBy[0])
	if len(groupBy) > 1 {
		for i := range groups {
			groups[i].SubGroups = groupBySingle(groups[i].View, groupBy[1])
		}
	}

	for i := range groups {
		aggregateGroup(&groups[i], triple)
		for j := range groups[i].SubGroups {
			aggregateGroup(&groups[i].SubGroups[j], triple)
		}
	}

	SortGroups(groups, sortSpec)
	for i := range groups {
		SortGroups(groups[i].SubGroups, sortSpec)
	}
	return groups
}

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

func aggregateGroup(group *Group, triple AggTriple) {
	group.Count = group.View.Len()
	group.Value = triple.Aggregate(group.View)
}

// SortGroups orders groups in place per the sort spec.
func SortGroups(groups []Group, spec SortSpec) {
	switch spec.By {
	case "period":
		sort.SliceStable(groups, func(i, j int) bool {
			return PeriodSortKey(groups[i].Key, spec.CutoffYear).Before(PeriodSortKey(groups[j].Key, spec.CutoffYear))
		})
	case "rank":
		sort.SliceStable(groups, func(i, j int) bool {
			ri, rj := Rank(groups[i].Key, spec.RankKeywords), Rank(groups[j].Key, spec.RankKeywords)
			if ri != rj {
				return ri < rj
			}
			return groups[i].Key < groups[j].Key
		})
	case "value_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case "value_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case "alpha":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	default:
		// keep grouping order
	}
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// UniqueValues returns distinct non-empty values of a dimension across a
// view, in first-seen order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < view.Len(); i++ {
		v := view.Dimension(i, dimension)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
