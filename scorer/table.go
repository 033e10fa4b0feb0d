// Package scorer provides feature-set scorers over boolean datasets.
package scorer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrEmptyTable        = errors.New("scorer: table has no rows")
	ErrUnknownColumn     = errors.New("scorer: unknown column")
	ErrBadCell           = errors.New("scorer: cell is not boolean")
	ErrFeatureOutOfRange = errors.New("scorer: feature index out of range")
)

// Table is a boolean dataset: feature columns plus one target column.
type Table struct {
	Names      []string
	TargetName string
	Rows       [][]bool
	Target     []bool
}

func (t *Table) NumFeatures() int { return len(t.Names) }

func (t *Table) NumRows() int { return len(t.Rows) }

// LoadCSV reads a table with a header row. target names the output column;
// empty selects the last column. Cells hold 0/1 or true/false.
func LoadCSV(r io.Reader, target string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	targetCol := len(header) - 1
	if target != "" {
		targetCol = -1
		for i, name := range header {
			if strings.TrimSpace(name) == target {
				targetCol = i
				break
			}
		}
		if targetCol < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, target)
		}
	}

	t := &Table{TargetName: strings.TrimSpace(header[targetCol])}
	for i, name := range header {
		if i != targetCol {
			t.Names = append(t.Names, strings.TrimSpace(name))
		}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		row := make([]bool, 0, len(t.Names))
		for i, cell := range record {
			v, err := parseBool(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %q", ErrBadCell, line, strings.TrimSpace(header[i]), cell)
			}
			if i == targetCol {
				t.Target = append(t.Target, v)
			} else {
				row = append(row, v)
			}
		}
		t.Rows = append(t.Rows, row)
	}

	if len(t.Rows) == 0 {
		return nil, ErrEmptyTable
	}
	return t, nil
}

func parseBool(cell string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "1", "true", "t":
		return true, nil
	case "0", "false", "f":
		return false, nil
	default:
		return false, ErrBadCell
	}
}
