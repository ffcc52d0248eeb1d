package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/scanworks/passport-scanner/internal/normalize"
)

// WriteCSV renders records as CSV with CRLF line endings, header row first.
// Fields containing commas or quotes are quoted per RFC 4180; the writer
// handles that, the caller never pre-escapes.
func WriteCSV(records []normalize.NormalizedRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(Headers); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	for i, r := range records {
		if err := w.Write(rowStrings(r)); err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}
