package payload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/welldatalabs/wellsync/internal/core/domain"
	"github.com/welldatalabs/wellsync/internal/metrics"
)

const (
	// TimeLabel is the designated job-time column after normalization.
	TimeLabel = "job_time"

	// Timestamps arrive as two-digit month/day/year with 24-hour time.
	wireTimeLayout = "01/02/06 15:04:05"

	// Formatted artifacts re-serialize timestamps in an inference-friendly
	// layout.
	outTimeLayout = "2006-01-02 15:04:05"
)

var (
	// ErrMissingTimeColumn means the payload has no job-time column after
	// normalization. This is a contract violation, not a skippable row.
	ErrMissingTimeColumn = errors.New("payload has no " + TimeLabel + " column")

	// ErrNoUnitsRow means a units manifest was requested for a payload
	// without a units row.
	ErrNoUnitsRow = errors.New("payload has no units row")
)

// Derive produces the requested artifacts from one raw payload. Artifacts
// are independent: deriving or writing one may fail without blocking the
// others, and each gets its own WriteResult. A target equal to the skip
// sentinel (empty path) short-circuits before any parsing work.
func Derive(raw string, targets domain.ArtifactTargets) []domain.WriteResult {
	// The table is only parsed when an enabled artifact needs it.
	var table *Table
	var parseErr error
	parsed := false
	parse := func() (*Table, error) {
		if !parsed {
			table, parseErr = Parse(raw)
			parsed = true
		}
		return table, parseErr
	}

	results := []domain.WriteResult{
		deriveRaw(raw, targets.Raw),
		deriveFormatted(parse, targets.Formatted),
		deriveUnits(parse, targets.Units),
	}

	for _, res := range results {
		if res.Skipped {
			continue
		}
		result := "ok"
		if res.Err != nil {
			result = "error"
		}
		metrics.ArtifactWritesTotal.WithLabelValues(string(res.Kind), result).Inc()
	}
	return results
}

func deriveRaw(raw string, target string) domain.WriteResult {
	res := domain.WriteResult{Kind: domain.ArtifactRaw, Path: target}
	if target == "" {
		res.Skipped = true
		return res
	}
	res.Err = writeFile(target, []byte(raw))
	return res
}

func deriveFormatted(parse func() (*Table, error), target string) domain.WriteResult {
	res := domain.WriteResult{Kind: domain.ArtifactFormatted, Path: target}
	if target == "" {
		res.Skipped = true
		return res
	}

	table, err := parse()
	if err != nil {
		res.Err = err
		return res
	}

	labels := NormalizeLabels(table.Labels)
	timeCol := -1
	for i, label := range labels {
		if label == TimeLabel {
			timeCol = i
			break
		}
	}
	if timeCol < 0 {
		res.Err = ErrMissingTimeColumn
		return res
	}

	out := make([][]string, 0, len(table.Rows)+1)
	out = append(out, labels)
	for i, row := range table.Rows {
		formatted := make([]string, len(row))
		copy(formatted, row)
		if timeCol < len(row) && strings.TrimSpace(row[timeCol]) != "" {
			ts, err := time.Parse(wireTimeLayout, row[timeCol])
			if err != nil {
				res.Err = fmt.Errorf("row %d: parse %s %q: %w", i, TimeLabel, row[timeCol], err)
				return res
			}
			formatted[timeCol] = ts.Format(outTimeLayout)
		}
		out = append(out, formatted)
	}

	res.Err = writeCSV(target, out)
	return res
}

func deriveUnits(parse func() (*Table, error), target string) domain.WriteResult {
	res := domain.WriteResult{Kind: domain.ArtifactUnits, Path: target}
	if target == "" {
		res.Skipped = true
		return res
	}

	table, err := parse()
	if err != nil {
		res.Err = err
		return res
	}
	if table.Units == nil {
		res.Err = ErrNoUnitsRow
		return res
	}

	units := make([]string, len(table.Units))
	for i, unit := range table.Units {
		units[i] = StripUnitParens(unit)
	}

	res.Err = writeCSV(target, [][]string{NormalizeLabels(table.Labels), units})
	return res
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}
