// Package tessera provides the core of a hierarchical contract analytics
// dashboard: cascading headquarters → branch → account filters with
// fallback-to-all semantics, period bucketing with a pre-cutoff collapse,
// business-ordered categories, and count/revenue dual-mode aggregation.
//
// Usage:
//
//	snap, _ := loader.Snapshot()
//	result, _ := engine.RunPass(snap.View, passCfg, engine.PassInput{
//	    Selections: map[string][]string{"hq": {"수도권본부"}},
//	    Mode:       engine.Revenue,
//	})
//
// The engine never renders anything — it emits option lists, KPI blocks, and
// grouped tables/charts for whatever presentation layer sits on top. The
// server package wraps one render pass per HTTP request with per-session
// filter state.
package tessera
