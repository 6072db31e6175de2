package engine

// ============================================================================
// CHART BUILDER — Groups → render-ready ChartConfig
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildChart renders grouped results as a chart of the given type. Nested
// groups (two-level group-by) become one series per sub-group key; flat
// groups become a single series.
func BuildChart(title, chartType string, groups []Group, xAxis, yAxis string) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}

	config := &ChartConfig{
		ChartType:  chartType,
		Title:      title,
		XAxis:      xAxis,
		YAxis:      yAxis,
		ShowLegend: true,
		ShowGrid:   chartType != "pie",
	}

	if hasSubGroups(groups) {
		config.Series = buildNestedSeries(groups)
	} else {
		config.Series = buildFlatSeries(groups, yAxis)
	}
	config.Colors = assignColors(len(config.Series))
	return config
}

func buildFlatSeries(groups []Group, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Value"
	}
	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{Label: g.Label, Value: g.Value})
	}
	return []ChartSeries{{Name: seriesName, Data: points}}
}

// buildNestedSeries pivots sub-groups into series: one series per distinct
// sub-group key, one point per primary group. Missing combinations plot as
// zero so every series spans the full axis.
func buildNestedSeries(groups []Group) []ChartSeries {
	var subKeys []string
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, sg := range g.SubGroups {
			if !seen[sg.Key] {
				seen[sg.Key] = true
				subKeys = append(subKeys, sg.Key)
			}
		}
	}

	series := make([]ChartSeries, 0, len(subKeys))
	for i, key := range subKeys {
		points := make([]ChartPoint, 0, len(groups))
		for _, g := range groups {
			var val float64
			for _, sg := range g.SubGroups {
				if sg.Key == key {
					val = sg.Value
					break
				}
			}
			points = append(points, ChartPoint{Label: g.Label, Value: val})
		}
		series = append(series, ChartSeries{
			Name:  key,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}
	return series
}

func hasSubGroups(groups []Group) bool {
	for _, g := range groups {
		if len(g.SubGroups) > 0 {
			return true
		}
	}
	return false
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
