package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tessera-analytics/tessera/engine"
)

// ============================================================================
// CSV LOADER — source exports → []Contract
// ============================================================================
// Loading is forgiving by design: a missing expected column fills with the
// sentinel, an unparseable date routes to the unclassified bucket, a
// non-numeric amount coerces to zero. Only an unreadable file or a missing
// header row is fatal.
//
// Headers not named in the ColumnMap are classified: mostly-numeric columns
// are skipped (no categorical meaning), the rest become extra category
// dimensions for the breakdown charts.
// ============================================================================

// accepted event date layouts, most common first
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006.01.02",
	"2006/01/02",
	"20060102",
}

// ParseCSV reads the contract table from r. It returns the typed rows and
// the extra category column names discovered in the header.
func ParseCSV(r io.Reader, cols ColumnMap, cutoffYear int) ([]Contract, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	idx := columnIndex(headers)
	core := map[string]bool{
		cols.HQ: true, cols.Branch: true, cols.Account: true,
		cols.EventDate: true, cols.Amount: true,
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}

	extraKeys := classifyExtraColumns(headers, rows, core)

	contracts := make([]Contract, 0, len(rows))
	for _, row := range rows {
		c := Contract{
			HQ:      cell(row, idx, cols.HQ),
			Branch:  cell(row, idx, cols.Branch),
			Account: cell(row, idx, cols.Account),
			Amount:  parseAmount(cell(row, idx, cols.Amount)),
		}
		c.EventDate = parseDate(cell(row, idx, cols.EventDate))
		c.Period = engine.Bucketize(c.EventDate, cutoffYear)

		if len(extraKeys) > 0 {
			c.Extra = make(map[string]string, len(extraKeys))
			for _, key := range extraKeys {
				if v := cell(row, idx, key); v != Sentinel {
					c.Extra[key] = v
				}
			}
		}
		contracts = append(contracts, c)
	}
	return contracts, extraKeys, nil
}

func columnIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

// cell returns the sentinel for absent columns and blank values — a missing
// source column must never fail the load.
func cell(row []string, idx map[string]int, column string) string {
	i, ok := idx[column]
	if !ok || i >= len(row) {
		return Sentinel
	}
	v := strings.TrimSpace(row[i])
	if v == "" {
		return Sentinel
	}
	return v
}

func parseDate(v string) time.Time {
	if v == Sentinel {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseAmount(v string) float64 {
	if v == Sentinel {
		return 0
	}
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// classifyExtraColumns decides which unmapped headers are categorical.
// A column whose sampled values are mostly numeric carries no grouping
// meaning and is skipped; everything else becomes a breakdown dimension.
func classifyExtraColumns(headers []string, rows [][]string, core map[string]bool) []string {
	const sampleLimit = 200

	var extras []string
	for i, h := range headers {
		if h == "" || core[h] {
			continue
		}
		numeric, nonEmpty := 0, 0
		for r, row := range rows {
			if r >= sampleLimit {
				break
			}
			if i >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[i])
			if v == "" || v == Sentinel {
				continue
			}
			nonEmpty++
			if _, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err == nil {
				numeric++
			}
		}
		if nonEmpty > 0 && numeric*5 >= nonEmpty*4 {
			continue // ≥80% numeric — not a category
		}
		extras = append(extras, h)
	}
	return extras
}
