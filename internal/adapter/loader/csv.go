package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// CSVLoader renders each row as "header: value" lines, rows separated
// by blank lines, so tabular data chunks along row boundaries.
type CSVLoader struct{}

func (l *CSVLoader) Load(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}

	header := rows[0]
	var b strings.Builder
	for _, row := range rows[1:] {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		for i, field := range row {
			name := fmt.Sprintf("column_%d", i+1)
			if i < len(header) {
				name = header[i]
			}
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(field)
		}
	}
	return b.String(), nil
}
