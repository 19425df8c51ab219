package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// table is a CSV file indexed by normalized header name.
type table struct {
	source string
	index  map[string]int
	rows   [][]string
}

func readTable(r io.Reader, source string, required ...string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file", source)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", source, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[normalizeHeader(h)] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", source, col)
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return &table{source: source, index: index, rows: rows}, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

// cell returns the trimmed value of col in row, or "" when absent.
func (t *table) cell(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) float(row []string, line int, col string) (float64, error) {
	v, err := strconv.ParseFloat(t.cell(row, col), 64)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: column %s: %w", t.source, line, col, err)
	}
	return v, nil
}

func (t *table) int(row []string, line int, col string) (int, error) {
	raw := t.cell(row, col)
	v, err := strconv.Atoi(raw)
	if err != nil {
		// Some exports write counts as 123.0
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return 0, fmt.Errorf("%s line %d: column %s: %w", t.source, line, col, err)
		}
		v = int(f)
	}
	return v, nil
}

func openTable(path string, required ...string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return readTable(f, path, required...)
}

// splitCodes expands "NS1/EW24" into its individual station codes.
func splitCodes(raw string) []string {
	parts := strings.Split(raw, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
