package sources

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// table is a CSV file read fully into memory with a header index.
type table struct {
	name     string
	header   []string
	colIndex map[string]int
	records  [][]string
}

func readTable(r io.Reader, name string, required ...string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}
	for _, col := range required {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("%s: %w %q", name, ErrMissingColumn, col)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &table{name: name, header: header, colIndex: colIndex, records: records}, nil
}

// getField returns the trimmed value of col, or "" when the row is short.
func (t *table) getField(record []string, col string) string {
	idx, ok := t.colIndex[col]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func (t *table) has(col string) bool {
	_, ok := t.colIndex[col]
	return ok
}

// rowError describes a bad value at a 1-based data line (header is line 1).
func (t *table) rowError(i int, col, value string, cause error) error {
	err := fmt.Errorf("%w: %s line %d column %q value %q", ErrInvalidRow, t.name, i+2, col, value)
	if cause != nil {
		return errors.Join(err, cause)
	}
	return err
}

// isMissing reports the spellings used for empty cells across sources.
func isMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "na", "n/a", "..", "null":
		return true
	}
	return false
}

// parseOptional parses a float cell; missing spellings yield (0, false, nil).
func parseOptional(s string) (float64, bool, error) {
	if isMissing(s) {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) {
		return 0, false, nil
	}
	return v, true, nil
}

func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		return int(f), nil
	}
	return 0, fmt.Errorf("not a year: %q", s)
}

// yearColumn is the World Bank wide-format column name for year.
func yearColumn(year int) string {
	return fmt.Sprintf("%d [YR%d]", year, year)
}

// yearColumns returns every World Bank year column present in the header.
func (t *table) yearColumns() map[int]string {
	out := make(map[int]string)
	for _, col := range t.header {
		col = strings.TrimSpace(col)
		var y int
		if _, err := fmt.Sscanf(col, "%d [YR", &y); err == nil && col == yearColumn(y) {
			out[y] = col
		}
	}
	return out
}
