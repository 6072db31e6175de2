package engine

import (
	"testing"
	"time"
)

func passConfig() PassConfig {
	return PassConfig{
		Levels:       []string{"hq", "branch", "account"},
		MeasureKey:   "amount",
		CutoffYear:   2025,
		RankKeywords: []string{"서울", "부산"},
		FlagKey:      "flag",
		Sentinel:     "-",
	}
}

func annotated(hq, branch, account string, eventDate time.Time, flag string, amount float64) Record {
	bucket := Bucketize(eventDate, 2025)
	return Record{
		Dimensions: map[string]string{
			"hq":      hq,
			"branch":  branch,
			"account": account,
			"period":  bucket.Label,
			"flag":    flag,
		},
		Measures: map[string]float64{"amount": amount},
	}
}

func TestRunPassPreCutoffCollapse(t *testing.T) {
	// two 2024 contracts in different months land in one shared bucket
	view := NewSliceView([]Record{
		annotated("A", "X", "a1", date(2024, time.March, 1), "-", 100),
		annotated("A", "X", "a2", date(2024, time.November, 1), "-", 200),
	})

	result, err := RunPass(view, passConfig(), PassInput{Mode: Volume})
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if result.Trend == nil {
		t.Fatal("expected a trend block")
	}
	assertEqual(t, len(result.Trend.Table.Rows), 1, "single pre-cutoff bucket")
	assertEqual(t, result.Trend.Table.Rows[0][0], "2024 and earlier", "bucket label")
	assertEqual(t, result.Trend.Table.Rows[0][2], "2", "both records counted")
}

func TestRunPassMonthlyBucketsSorted(t *testing.T) {
	view := NewSliceView([]Record{
		annotated("A", "X", "a1", date(2025, time.February, 1), "-", 100),
		annotated("A", "X", "a2", date(2025, time.January, 15), "-", 200),
	})

	result, err := RunPass(view, passConfig(), PassInput{Mode: Volume})
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	rows := result.Trend.Table.Rows
	assertEqual(t, len(rows), 2, "two monthly buckets")
	assertEqual(t, rows[0][0], "'25.1", "january first")
	assertEqual(t, rows[1][0], "'25.2", "february second")
}

func TestRunPassModeSwitchKeepsFilteredCount(t *testing.T) {
	view := testView()
	in := PassInput{Selections: map[string][]string{"hq": {"A"}}}

	in.Mode = Volume
	volume, err := RunPass(view, passConfig(), in)
	if err != nil {
		t.Fatalf("RunPass volume: %v", err)
	}
	in.Mode = Revenue
	revenue, err := RunPass(view, passConfig(), in)
	if err != nil {
		t.Fatalf("RunPass revenue: %v", err)
	}

	// same rows, different numbers
	assertEqual(t, volume.KPIs.TotalRecords, revenue.KPIs.TotalRecords, "filtered count unchanged")
	assertEqual(t, volume.View.Len(), revenue.View.Len(), "filtered view unchanged")
	if volume.KPIs.Headline == revenue.KPIs.Headline {
		t.Errorf("headline should change with mode, both %q", volume.KPIs.Headline)
	}
	if volume.Trend.Table.Rows[0][1] == revenue.Trend.Table.Rows[0][1] {
		t.Errorf("trend values should change with mode")
	}
}

func TestRunPassKPIs(t *testing.T) {
	result, err := RunPass(testView(), passConfig(), PassInput{Mode: Volume})
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	assertEqual(t, result.KPIs.TotalRecords, 5, "total")
	assertEqual(t, result.KPIs.DistinctPeriods, 4, "periods")
	assertEqual(t, result.KPIs.DistinctBranches, 4, "branches")
	assertEqual(t, result.KPIs.DelinquentCount, 2, "delinquent")
	assertEqual(t, result.KPIs.RiskRatio, 0.4, "risk ratio")
	assertEqual(t, result.KPIs.Headline, "5건", "volume headline")
}

func TestRunPassEmptyFilterNoFault(t *testing.T) {
	view := NewSliceView(nil)
	result, err := RunPass(view, passConfig(), PassInput{Mode: Revenue})
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	assertEqual(t, result.KPIs.TotalRecords, 0, "no rows")
	assertEqual(t, result.KPIs.RiskRatio, 0.0, "risk ratio defined as 0 on empty set")
	if result.Trend != nil {
		t.Error("no trend block on empty view")
	}
}

func TestRunPassDelinquentToggle(t *testing.T) {
	result, err := RunPass(testView(), passConfig(), PassInput{Mode: Volume, DelinquentOnly: true})
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	assertEqual(t, result.KPIs.TotalRecords, 2, "only flagged rows")
	assertEqual(t, result.KPIs.RiskRatio, 1.0, "all remaining rows are delinquent")
}

func TestRunPassCustomGroupBy(t *testing.T) {
	result, err := RunPass(testView(), passConfig(), PassInput{
		Mode:    Revenue,
		GroupBy: []string{"branch"},
	})
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if result.Custom == nil {
		t.Fatal("expected a custom block")
	}
	assertEqual(t, len(result.Custom.Table.Rows), 4, "one row per branch")

	result, err = RunPass(testView(), passConfig(), PassInput{
		Mode:    Volume,
		GroupBy: []string{"period"},
	})
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if result.Custom == nil {
		t.Fatal("expected a custom block")
	}
	var labels []string
	for _, row := range result.Custom.Table.Rows {
		labels = append(labels, row[0])
	}
	assertStrings(t, labels, []string{"2024 and earlier", "'25.1", "'25.2", UnclassifiedLabel}, "period groups in chronological order")
}

func TestRunPassCustomGroupByUnknownDimension(t *testing.T) {
	result, err := RunPass(testView(), passConfig(), PassInput{
		Mode:    Volume,
		GroupBy: []string{"no_such_column"},
	})
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	if result.Custom != nil {
		t.Error("unknown dimensions must not produce a block")
	}
}

func TestRunPassOptionsFollowRankOrder(t *testing.T) {
	view := NewSliceView([]Record{
		annotated("A", "기타지사", "a", date(2025, time.January, 1), "-", 1),
		annotated("A", "서울지사", "b", date(2025, time.January, 1), "-", 1),
		annotated("A", "부산지사", "c", date(2025, time.January, 1), "-", 1),
	})
	result, err := RunPass(view, passConfig(), PassInput{Mode: Volume})
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}
	assertStrings(t, result.Options[1].Candidates, []string{"서울지사", "부산지사", "기타지사"}, "branch options in business order")
}
