package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// PERIOD BUCKETIZER — event dates → reporting periods
// ============================================================================
// Trend reporting does not want one bucket per historical month forever:
// everything before the cutoff year collapses into a single "N and earlier"
// bucket, months from the cutoff year onward get one bucket each, and rows
// without a usable event date land in a shared "unclassified" bucket.
//
// The sort keys encode the display order: pre-cutoff bucket, then the monthly
// buckets chronologically, then "unclassified" at the very end. (Placing
// unclassified last is a deliberate choice; operators scan trends left to
// right and junk data should not lead the axis.)
// ============================================================================

// UnclassifiedLabel is the bucket for rows with a missing or unparseable
// event date.
const UnclassifiedLabel = "unclassified"

// unclassifiedSortKey sorts after every real period.
var unclassifiedSortKey = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// PeriodBucket is the derived reporting period of one row.
type PeriodBucket struct {
	Label   string    `json:"label"`
	SortKey time.Time `json:"sortKey"`
}

// PreCutoffLabel is the shared label for all rows dated before the cutoff
// year, e.g. "2024 and earlier" for cutoff 2025.
func PreCutoffLabel(cutoffYear int) string {
	return fmt.Sprintf("%d and earlier", cutoffYear-1)
}

// Bucketize maps an event date to its reporting period. A zero time means
// the date was missing or unparseable and routes to the unclassified bucket.
//
// All pre-cutoff rows share one bucket regardless of their month — that
// collapse is intentional, old activity is only interesting in aggregate.
func Bucketize(eventDate time.Time, cutoffYear int) PeriodBucket {
	if eventDate.IsZero() {
		return PeriodBucket{Label: UnclassifiedLabel, SortKey: unclassifiedSortKey}
	}
	if eventDate.Year() < cutoffYear {
		return PeriodBucket{
			Label:   PreCutoffLabel(cutoffYear),
			SortKey: time.Date(cutoffYear-1, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	}
	return PeriodBucket{
		Label:   fmt.Sprintf("'%02d.%d", eventDate.Year()%100, int(eventDate.Month())),
		SortKey: time.Date(eventDate.Year(), eventDate.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
}

// PeriodSortKey recovers the sort key from a bucket label, so grouped results
// keyed by label can be ordered without carrying the key alongside.
// Unknown labels sort with the unclassified bucket.
func PeriodSortKey(label string, cutoffYear int) time.Time {
	switch {
	case label == UnclassifiedLabel:
		return unclassifiedSortKey
	case label == PreCutoffLabel(cutoffYear):
		return time.Date(cutoffYear-1, time.December, 31, 0, 0, 0, 0, time.UTC)
	case strings.HasPrefix(label, "'"):
		// "'25.3" → 2025-03-01
		parts := strings.SplitN(strings.TrimPrefix(label, "'"), ".", 2)
		if len(parts) != 2 {
			break
		}
		yy, err1 := strconv.Atoi(parts[0])
		mm, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || mm < 1 || mm > 12 {
			break
		}
		return time.Date(2000+yy, time.Month(mm), 1, 0, 0, 0, 0, time.UTC)
	}
	return unclassifiedSortKey
}
