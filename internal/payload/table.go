// Package payload turns one raw per-second payload into its derived
// artifacts: a byte-for-byte raw copy, a formatted copy with normalized
// labels and typed timestamps, and a units manifest.
package payload

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Table is a schema-less view of a tabular payload: the header labels, the
// units row when the payload carries one, and the data rows. Labels are
// kept verbatim; normalization is a separate transform.
type Table struct {
	Labels []string
	Units  []string // nil when the payload has no units row
	Rows   [][]string
}

// Parse reads a payload text blob of the wire shape: a header row, an
// optional units row, then data rows. Payloads differ in their column
// sets, so no particular labels are required here.
func Parse(raw string) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse payload: no header row")
	}

	table := &Table{Labels: records[0]}
	rest := records[1:]

	if len(rest) > 0 && isUnitsRow(rest[0]) {
		table.Units = rest[0]
		rest = rest[1:]
	}
	table.Rows = rest
	return table, nil
}

// isUnitsRow reports whether row is the units annotation row: every
// non-empty cell parenthesized, like "(psi)" or "(none)", and at least one
// such cell present. Data rows start with a timestamp and never match.
func isUnitsRow(row []string) bool {
	seen := false
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if !strings.HasPrefix(cell, "(") || !strings.HasSuffix(cell, ")") {
			return false
		}
		seen = true
	}
	return seen
}
