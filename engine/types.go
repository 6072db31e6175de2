package engine

// ============================================================================
// ENGINE TYPES — Hierarchical Filter + Dual-Mode Aggregation
// ============================================================================
// The engine is the computational core of the contract dashboard: it resolves
// cascading hierarchy filters, buckets event dates into reporting periods,
// applies the business branch ordering, and produces grouped summaries that
// are uniform across the two aggregation modes (contract count vs. revenue).
//
// The presentation layer (widgets, charts, styling) lives elsewhere; the
// engine only emits render-ready structures.
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// The dataset package binds typed contracts into this shape via DomainAdapter.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// CASCADE TYPES
// ============================================================================

// Level is one stage of the hierarchy cascade (e.g. hq → branch → account),
// carrying the raw, possibly stale, user selection for that stage.
type Level struct {
	Dimension string   `json:"dimension"`
	Selected  []string `json:"selected"`
}

// ResolvedSelection is the outcome of resolving one cascade level.
// Selected is always a non-empty subset of Candidates whenever Candidates is
// non-empty: an empty or fully-invalidated user selection falls back to the
// full candidate set rather than filtering everything out.
type ResolvedSelection struct {
	Dimension  string   `json:"dimension"`
	Candidates []string `json:"candidates"`
	Selected   []string `json:"selected"`
	FellBack   bool     `json:"fellBack"`
}

// Toggle is a boolean row filter applied on top of the hierarchy cascade.
// Exactly one of Contains / NotEqual is set.
type Toggle struct {
	Dimension string `json:"dimension"`
	Contains  string `json:"contains,omitempty"` // row passes if value contains this substring
	NotEqual  string `json:"notEqual,omitempty"` // row passes if value differs from this sentinel
}

// ============================================================================
// GROUP — intermediate aggregation result
// ============================================================================

// Group is one bucket of a grouped aggregate. The aggregate always lands in
// Value before any sort runs, so sorting never depends on a source column
// that no longer exists after aggregation.
type Group struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Value     float64    `json:"value"`
	Count     int        `json:"count"`
	SubGroups []Group    `json:"subGroups,omitempty"`
	View      RecordView `json:"-"`
}

// ============================================================================
// RENDER OUTPUT TYPES
// ============================================================================

// KPISet is the headline metric block of one render pass.
// Headline is formatted with the pass's aggregation mode; the count fields
// are mode-independent.
type KPISet struct {
	Headline         string  `json:"headline"`
	TotalRecords     int     `json:"totalRecords"`
	DistinctPeriods  int     `json:"distinctPeriods"`
	DistinctBranches int     `json:"distinctBranches"`
	DelinquentCount  int     `json:"delinquentCount"`
	RiskRatio        float64 `json:"riskRatio"` // delinquent / total, 0 when the filtered set is empty
}

// RenderBlock pairs a summary table with its chart form.
type RenderBlock struct {
	Title string       `json:"title"`
	Table *TableData   `json:"table,omitempty"`
	Chart *ChartConfig `json:"chart,omitempty"`
}

// TableData is a render-ready summary table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column describes one table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary carries table footer totals.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ChartConfig describes how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"` // "line", "bar", "stacked_bar", "pie"
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries is one data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint is a single labelled value.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
