package engine

import (
	"fmt"
	"log"
	"strings"
)

// ============================================================================
// RENDER PASS — one synchronous recomputation, dataset → render-ready output
// ============================================================================
// Every user interaction (selection change, toggle, mode switch) triggers one
// full pass:
//
//   1. resolve the cascade → option lists per level
//   2. filter: hierarchy memberships AND boolean toggles
//   3. KPI block (incl. risk ratio, 0 on an empty set)
//   4. grouped summaries — trend by period, hq/branch breakdown, one pie per
//      category field — all parameterized by the ONE resolved AggTriple
//
// The pass is pure over its input view: no shared state, a stale result is
// simply replaced by the next pass.
// ============================================================================

// PassConfig is the static shape of a render pass: which dimensions form the
// hierarchy, which columns feed the metrics, and the display ordering rules.
type PassConfig struct {
	Levels       []string // hierarchy dimension keys, top to bottom (hq, branch, account)
	MeasureKey   string   // monetary measure for Revenue mode
	CutoffYear   int      // period bucketing cutoff
	RankKeywords []string // business branch display order
	FlagKey      string   // delinquency flag dimension
	ArrearsKey   string   // arrears dimension
	Sentinel     string   // "not applicable" value, typically "-"
	TargetMarker string   // substring marking target-flagged rows
	CategoryKeys []string // extra categorical breakdown dimensions
}

// PassInput is the per-interaction state a session feeds into a pass.
// GroupBy requests one extra summary over caller-chosen dimensions (at most
// two) on top of the standard blocks.
type PassInput struct {
	Selections     map[string][]string `json:"selections"`
	Mode           AggregationMode     `json:"mode"`
	DelinquentOnly bool                `json:"delinquentOnly"`
	ArrearsOnly    bool                `json:"arrearsOnly"`
	TargetOnly     bool                `json:"targetOnly"`
	GroupBy        []string            `json:"groupBy,omitempty"`
}

// PassResult is everything the presentation layer needs from one pass.
// View is the filtered record set, retained for grid rendering and export.
type PassResult struct {
	Options    []ResolvedSelection `json:"options"`
	KPIs       KPISet              `json:"kpis"`
	Trend      *RenderBlock        `json:"trend,omitempty"`
	Hierarchy  *RenderBlock        `json:"hierarchy,omitempty"`
	Categories []RenderBlock       `json:"categories,omitempty"`
	Custom     *RenderBlock        `json:"custom,omitempty"`
	Mode       AggregationMode     `json:"mode"`
	View       RecordView          `json:"-"`
}

// RunPass executes one full render pass over the dataset view.
func RunPass(view RecordView, cfg PassConfig, in PassInput) (*PassResult, error) {
	if view == nil {
		return nil, fmt.Errorf("render pass: nil dataset view")
	}

	triple := ResolveMode(in.Mode, cfg.MeasureKey)

	// 1. Cascade
	levels := make([]Level, len(cfg.Levels))
	for i, dim := range cfg.Levels {
		levels[i] = Level{Dimension: dim, Selected: in.Selections[dim]}
	}
	resolved := ResolveCascade(view, levels)
	for _, r := range resolved {
		// option widgets follow the business ordering, not the alphabet
		SortByRank(r.Candidates, cfg.RankKeywords)
	}

	// 2. Filter
	filtered := ApplySelections(view, SelectionMap(resolved))
	filtered = ApplyToggles(filtered, activeToggles(cfg, in))

	log.Printf("render pass: %d of %d rows after filters, mode=%s", filtered.Len(), view.Len(), triple.Mode)

	result := &PassResult{
		Options: resolved,
		KPIs:    buildKPIs(filtered, cfg, triple),
		Mode:    triple.Mode,
		View:    filtered,
	}

	if filtered.Len() == 0 {
		return result, nil
	}

	// 3. Summaries — every one reads the same triple
	result.Trend = trendBlock(filtered, cfg, triple)
	result.Hierarchy = hierarchyBlock(filtered, cfg, triple)
	result.Categories = categoryBlocks(filtered, cfg, triple)
	result.Custom = customBlock(filtered, cfg, triple, in.GroupBy)
	return result, nil
}

// customBlock computes the caller-requested summary, if any. Period grouping
// sorts chronologically, everything else by the business rank order.
func customBlock(filtered RecordView, cfg PassConfig, triple AggTriple, groupBy []string) *RenderBlock {
	var dims []string
	for _, d := range groupBy {
		if HasDimension(filtered, d) {
			dims = append(dims, d)
		}
	}
	if len(dims) == 0 {
		return nil
	}
	if len(dims) > 2 {
		dims = dims[:2]
	}

	spec := SortSpec{By: "rank", RankKeywords: cfg.RankKeywords}
	if dims[0] == "period" {
		spec = SortSpec{By: "period", CutoffYear: cfg.CutoffYear}
	}
	groups := GroupAndAggregate(filtered, dims, triple, spec)
	if len(groups) == 0 {
		return nil
	}

	title := strings.Join(dims, "/") + " 요약"
	chartType := "bar"
	if len(dims) > 1 {
		chartType = "stacked_bar"
	}
	return &RenderBlock{
		Title: title,
		Table: BuildGroupTable(title, dims[0], groups, triple),
		Chart: BuildChart(title, chartType, groups, dims[0], triple.Label),
	}
}

func activeToggles(cfg PassConfig, in PassInput) []Toggle {
	var toggles []Toggle
	if in.DelinquentOnly && cfg.FlagKey != "" {
		toggles = append(toggles, Toggle{Dimension: cfg.FlagKey, NotEqual: cfg.Sentinel})
	}
	if in.ArrearsOnly && cfg.ArrearsKey != "" {
		toggles = append(toggles, Toggle{Dimension: cfg.ArrearsKey, NotEqual: cfg.Sentinel})
	}
	if in.TargetOnly && cfg.FlagKey != "" && cfg.TargetMarker != "" {
		toggles = append(toggles, Toggle{Dimension: cfg.FlagKey, Contains: cfg.TargetMarker})
	}
	return toggles
}

func buildKPIs(filtered RecordView, cfg PassConfig, triple AggTriple) KPISet {
	kpis := KPISet{
		Headline:        triple.Format(triple.Aggregate(filtered)),
		TotalRecords:    filtered.Len(),
		DistinctPeriods: len(UniqueValues(filtered, "period")),
	}
	if len(cfg.Levels) > 1 {
		kpis.DistinctBranches = len(UniqueValues(filtered, cfg.Levels[1]))
	}
	if cfg.FlagKey != "" && HasDimension(filtered, cfg.FlagKey) {
		for i := 0; i < filtered.Len(); i++ {
			if filtered.Dimension(i, cfg.FlagKey) != cfg.Sentinel {
				kpis.DelinquentCount++
			}
		}
	}
	// risk ratio is defined as 0 over an empty set, never a division fault
	if kpis.TotalRecords > 0 {
		kpis.RiskRatio = float64(kpis.DelinquentCount) / float64(kpis.TotalRecords)
	}
	return kpis
}

func trendBlock(filtered RecordView, cfg PassConfig, triple AggTriple) *RenderBlock {
	groups := GroupAndAggregate(filtered, []string{"period"}, triple,
		SortSpec{By: "period", CutoffYear: cfg.CutoffYear})
	if len(groups) == 0 {
		return nil
	}
	return &RenderBlock{
		Title: "기간별 추이",
		Table: BuildGroupTable("기간별 추이", "기간", groups, triple),
		Chart: BuildChart("기간별 추이", "line", groups, "기간", triple.Label),
	}
}

func hierarchyBlock(filtered RecordView, cfg PassConfig, triple AggTriple) *RenderBlock {
	if len(cfg.Levels) < 2 {
		return nil
	}
	groups := GroupAndAggregate(filtered, cfg.Levels[:2], triple,
		SortSpec{By: "rank", RankKeywords: cfg.RankKeywords})
	if len(groups) == 0 {
		return nil
	}
	return &RenderBlock{
		Title: "본부/지사 분포",
		Table: BuildGroupTable("본부/지사 분포", "본부", groups, triple),
		Chart: BuildChart("본부/지사 분포", "stacked_bar", groups, "본부", triple.Label),
	}
}

func categoryBlocks(filtered RecordView, cfg PassConfig, triple AggTriple) []RenderBlock {
	keys := make([]string, 0, len(cfg.CategoryKeys)+2)
	if cfg.ArrearsKey != "" {
		keys = append(keys, cfg.ArrearsKey)
	}
	if cfg.FlagKey != "" {
		keys = append(keys, cfg.FlagKey)
	}
	keys = append(keys, cfg.CategoryKeys...)

	var blocks []RenderBlock
	for _, key := range keys {
		if !HasDimension(filtered, key) {
			continue
		}
		groups := GroupAndAggregate(filtered, []string{key}, triple, SortSpec{By: "value_desc"})
		if len(groups) == 0 {
			continue
		}
		blocks = append(blocks, RenderBlock{
			Title: key + " 분포",
			Table: BuildGroupTable(key+" 분포", key, groups, triple),
			Chart: BuildChart(key+" 분포", "pie", groups, "", triple.Label),
		})
	}
	return blocks
}
