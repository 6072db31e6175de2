package engine

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================================
// AGGREGATION MODE — contract count vs. revenue
// ============================================================================
// The dashboard toggles every derived number between two readings of the
// same rows: how many contracts, or how much money. The mode is resolved
// ONCE per render pass into an AggTriple, and that one triple parameterizes
// every KPI, table, and chart of the pass. Nothing downstream re-derives the
// aggregator — mixing modes within one render is a defect.
// ============================================================================

// AggregationMode selects what the aggregates of a render pass measure.
type AggregationMode string

const (
	// Volume counts contracts.
	Volume AggregationMode = "volume"
	// Revenue sums the monetary measure.
	Revenue AggregationMode = "revenue"
)

// ParseMode normalizes a mode string from the presentation layer.
// Unknown input defaults to Volume, the dashboard's opening state.
func ParseMode(s string) AggregationMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Revenue), "sum", "amount":
		return Revenue
	default:
		return Volume
	}
}

// AggTriple is a resolved aggregation mode: which column feeds the
// aggregate, how rows collapse into one number, and how that number is
// displayed. One triple per render pass.
type AggTriple struct {
	Mode      AggregationMode
	ValueKey  string // source column: "record_count" for Volume, the measure key for Revenue
	Aggregate func(RecordView) float64
	Format    func(float64) string
	Label     string // axis / column heading
}

// ResolveMode builds the AggTriple for a mode over the named monetary
// measure.
func ResolveMode(mode AggregationMode, measureKey string) AggTriple {
	if mode == Revenue {
		return AggTriple{
			Mode:     Revenue,
			ValueKey: measureKey,
			Aggregate: func(v RecordView) float64 {
				return SumMeasure(v, measureKey)
			},
			Format: FormatRevenue,
			Label:  "매출",
		}
	}
	return AggTriple{
		Mode:     Volume,
		ValueKey: "record_count",
		Aggregate: func(v RecordView) float64 {
			return float64(v.Len())
		},
		Format: FormatCount,
		Label:  "건수",
	}
}

// FormatCount renders a contract count: thousands separators plus the 건
// counter suffix.
func FormatCount(v float64) string {
	return FormatInt(int(math.Round(v))) + "건"
}

// FormatRevenue renders a monetary amount scaled to a readable unit:
// hundred-millions (억) with one decimal, millions (백만) with one decimal,
// or thousands (천) with none.
func FormatRevenue(v float64) string {
	neg := ""
	if v < 0 {
		neg = "-"
		v = -v
	}
	switch {
	case v >= 1e8:
		return fmt.Sprintf("%s%.1f억", neg, v/1e8)
	case v >= 1e6:
		return fmt.Sprintf("%s%.1f백만", neg, v/1e6)
	default:
		return neg + FormatInt(int(math.Round(v/1e3))) + "천"
	}
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}
