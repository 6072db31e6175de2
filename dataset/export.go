package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tessera-analytics/tessera/engine"
)

// WriteCSV serializes a view back to CSV, one column per dimension plus the
// measures. The output starts with a UTF-8 BOM so spreadsheet tools detect
// the encoding of the Korean headings.
func WriteCSV(w io.Writer, view engine.RecordView) error {
	if _, err := w.Write([]byte("\ufeff")); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	dims := view.DimensionKeys()
	meas := view.MeasureKeys()

	header := make([]string, 0, len(dims)+len(meas))
	header = append(header, dims...)
	header = append(header, meas...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for i := 0; i < view.Len(); i++ {
		for j, d := range dims {
			row[j] = view.Dimension(i, d)
		}
		for j, m := range meas {
			row[len(dims)+j] = strconv.FormatFloat(view.Measure(i, m), 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
