package engine

// ============================================================================
// TABLE BUILDER — Groups → render-ready TableData
// ============================================================================
// All values are formatted with the pass's AggTriple: the same table layout
// serves both aggregation modes, only the value column's content and heading
// change.
// ============================================================================

// BuildGroupTable renders grouped results as a summary table. The value
// column always carries the fixed key "value" regardless of the source
// measure, so callers sort and reference it by that one name.
func BuildGroupTable(title, groupLabel string, groups []Group, triple AggTriple) *TableData {
	columns := []Column{
		{Key: "group", Label: groupLabel, Type: "text", Align: "left"},
		{Key: "value", Label: triple.Label, Type: "number", Align: "right"},
		{Key: "count", Label: "건수", Type: "number", Align: "center"},
	}

	rows := make([][]string, 0, len(groups))
	var totalValue float64
	var totalCount int
	for _, g := range groups {
		rows = append(rows, []string{
			g.Label,
			triple.Format(g.Value),
			FormatInt(g.Count),
		})
		totalValue += g.Value
		totalCount += g.Count
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: "합계",
			Values: map[string]string{
				"value": triple.Format(totalValue),
				"count": FormatInt(totalCount),
			},
		},
	}
}
