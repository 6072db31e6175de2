package engine

import "testing"

func TestResolveModeVolumeCounts(t *testing.T) {
	triple := ResolveMode(Volume, "amount")
	assertEqual(t, triple.Aggregate(testView()), 5.0, "volume counts records")
	assertEqual(t, triple.ValueKey, "record_count", "volume value key")
}

func TestResolveModeRevenueSums(t *testing.T) {
	triple := ResolveMode(Revenue, "amount")
	assertEqual(t, triple.Aggregate(testView()), 1800.0, "revenue sums amounts")
	assertEqual(t, triple.ValueKey, "amount", "revenue value key")
}

func TestParseMode(t *testing.T) {
	assertEqual(t, ParseMode("revenue"), Revenue, "revenue")
	assertEqual(t, ParseMode("  Revenue "), Revenue, "trimmed, case-insensitive")
	assertEqual(t, ParseMode("sum"), Revenue, "sum alias")
	assertEqual(t, ParseMode("volume"), Volume, "volume")
	assertEqual(t, ParseMode(""), Volume, "empty defaults to volume")
	assertEqual(t, ParseMode("nonsense"), Volume, "unknown defaults to volume")
}

func TestFormatCount(t *testing.T) {
	assertEqual(t, FormatCount(0), "0건", "zero")
	assertEqual(t, FormatCount(1234), "1,234건", "thousands separator")
	assertEqual(t, FormatCount(1234567), "1,234,567건", "millions")
}

func TestFormatRevenueScaling(t *testing.T) {
	assertEqual(t, FormatRevenue(250_000_000), "2.5억", "hundred-millions unit")
	assertEqual(t, FormatRevenue(100_000_000), "1.0억", "threshold exactly 1e8")
	assertEqual(t, FormatRevenue(3_500_000), "3.5백만", "millions unit")
	assertEqual(t, FormatRevenue(1_000_000), "1.0백만", "threshold exactly 1e6")
	assertEqual(t, FormatRevenue(850_000), "850천", "thousands unit, no decimals")
	assertEqual(t, FormatRevenue(0), "0천", "zero")
	assertEqual(t, FormatRevenue(-3_500_000), "-3.5백만", "negative")
}
