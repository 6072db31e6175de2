package engine

import "testing"

// Shared fixtures for the engine tests: a small contract dataset spanning
// two headquarters, four branches, and dates on both sides of the 2025
// cutoff.

func testRecord(hq, branch, account, period, flag string, amount float64) Record {
	return Record{
		Dimensions: map[string]string{
			"hq":      hq,
			"branch":  branch,
			"account": account,
			"period":  period,
			"flag":    flag,
		},
		Measures: map[string]float64{"amount": amount},
	}
}

func testView() RecordView {
	return NewSliceView([]Record{
		testRecord("A", "X", "acct1", "'25.1", "-", 100),
		testRecord("A", "X", "acct2", "'25.1", "부실", 250),
		testRecord("A", "Y", "acct3", "'25.2", "-", 400),
		testRecord("B", "P", "acct4", "2024 and earlier", "-", 1000),
		testRecord("B", "Q", "acct5", "unclassified", "부실", 50),
	})
}

func assertEqual[T comparable](t *testing.T, got, want T, msg string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

func assertStrings(t *testing.T, got, want []string, msg string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %v, want %v", msg, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: got %v, want %v", msg, got, want)
		}
	}
}
