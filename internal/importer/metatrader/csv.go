package metatrader

import (
	"encoding/csv"
	"fmt"
	"strings"

	enc "github.com/tradebookhq/tradebook/internal/encoding"
)

// ParseCSV parses a MetaTrader history report exported as CSV. The terminal
// uses the same section layout as the spreadsheet export, with either
// semicolons or commas depending on the system locale.
func ParseCSV(data []byte) (*Report, error) {
	content, err := enc.DecodeBytes(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = detectDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return parseRows(rows)
}

// detectDelimiter picks the separator from the first line that carries one.
func detectDelimiter(content string) rune {
	for _, line := range strings.Split(content, "\n") {
		semis := strings.Count(line, ";")
		commas := strings.Count(line, ",")

		if semis == 0 && commas == 0 {
			continue
		}

		if semis >= commas {
			return ';'
		}

		return ','
	}

	return ','
}
