package matrix

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadCSV parses a headerless numeric CSV table from r into raw rows.
// The result is unvalidated; pass it to Validate before running metrics.
func ReadCSV(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // shape is Validate's job

	var rows [][]float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading csv: %v", ErrMalformedTable, err)
		}

		row := make([]float64, len(record))
		for j, field := range record {
			w, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d, column %d: %q is not numeric",
					ErrMalformedTable, len(rows), j, field)
			}
			row[j] = w
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadCSV reads a connectivity table from a CSV file on disk.
func LoadCSV(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening connectome csv: %w", err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
