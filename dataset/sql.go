package dataset

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tessera-analytics/tessera/engine"
)

// ============================================================================
// SQL LOADER — alternative source next to CSV
// ============================================================================
// The dashboard can read the same table out of a database instead of a file.
// This service owns no schema: it selects from an externally managed table
// and applies the exact same coercion rules as the CSV path.
// ============================================================================

// OpenSQLite opens a sqlite database with sensible defaults.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return db, nil
}

// FetchContracts reads every row of table into typed contracts, using the
// same column mapping and sentinel rules as the CSV loader.
func FetchContracts(db *sql.DB, table string, cols ColumnMap, cutoffYear int) ([]Contract, []string, error) {
	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return nil, nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read columns: %w", err)
	}

	var raw [][]string
	values := make([]sql.NullString, len(columns))
	scan := make([]any, len(columns))
	for i := range values {
		scan[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			continue // skip unreadable rows, same stance as malformed CSV lines
		}
		row := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		raw = append(raw, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	idx := columnIndex(columns)
	core := map[string]bool{
		cols.HQ: true, cols.Branch: true, cols.Account: true,
		cols.EventDate: true, cols.Amount: true,
	}
	extraKeys := classifyExtraColumns(columns, raw, core)

	contracts := make([]Contract, 0, len(raw))
	for _, row := range raw {
		c := Contract{
			HQ:      cell(row, idx, cols.HQ),
			Branch:  cell(row, idx, cols.Branch),
			Account: cell(row, idx, cols.Account),
			Amount:  parseAmount(cell(row, idx, cols.Amount)),
		}
		c.EventDate = parseSQLDate(cell(row, idx, cols.EventDate))
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

// parseSQLDate accepts the CSV layouts plus RFC 3339, which sqlite drivers
// commonly emit for datetime columns.
func parseSQLDate(v string) time.Time {
	if t := parseDate(v); !t.IsZero() {
		return t
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	return time.Time{}
}
