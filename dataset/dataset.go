// Package dataset loads the contract table from CSV or SQL, normalizes it
// into typed records, and exposes it to the engine as a RecordView.
//
// Column names in the source are locale-specific (the operational exports use
// Korean headings); ColumnMap translates them to the engine's dimension keys.
// Missing columns never fail a load — absent values become the "-" sentinel,
// matching how the upstream exports mark not-applicable fields.
package dataset

import (
	"time"

	"github.com/tessera-analytics/tessera/engine"
)

// Sentinel marks a missing or not-applicable value, as in the source exports.
const Sentinel = "-"

// Contract is one row of the source dataset in typed form. Extra holds the
// variable categorical columns that differ across dataset exports.
type Contract struct {
	HQ        string
	Branch    string
	Account   string
	EventDate time.Time // zero when missing or unparseable
	Amount    float64
	Period    engine.PeriodBucket
	Extra     map[string]string
}

// ColumnMap names the source columns carrying the core fields.
type ColumnMap struct {
	HQ        string
	Branch    string
	Account   string
	EventDate string
	Amount    string
}

// DefaultColumns matches the operational CSV exports.
func DefaultColumns() ColumnMap {
	return ColumnMap{
		HQ:        "본부",
		Branch:    "지사",
		Account:   "상호",
		EventDate: "이벤트시작일",
		Amount:    "청구금액",
	}
}

// NewView binds contracts into a RecordView. Core fields map to the fixed
// dimension keys the engine's render pass expects ("hq", "branch", "account",
// "period") plus the "amount" measure; each extra category column becomes a
// dimension under its source column name.
func NewView(contracts []Contract, extraKeys []string) engine.RecordView {
	adapter := engine.NewDomainAdapter[Contract]().
		Dimension("hq", func(c Contract) string { return c.HQ }).
		Dimension("branch", func(c Contract) string { return c.Branch }).
		Dimension("account", func(c Contract) string { return c.Account }).
		Dimension("period", func(c Contract) string { return c.Period.Label }).
		Measure("amount", func(c Contract) float64 { return c.Amount })

	for _, key := range extraKeys {
		key := key
		adapter.Dimension(key, func(c Contract) string {
			if v, ok := c.Extra[key]; ok && v != "" {
				return v
			}
			return Sentinel
		})
	}
	return adapter.Bind(contracts)
}
