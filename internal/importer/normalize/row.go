package normalize

import (
	"strconv"
	"strings"
)

// Cell is one raw statement value. Spreadsheet cells can carry either text or
// a native number; both are kept so locale parsing only runs on text.
type Cell struct {
	Text   string
	Number float64
	IsNum  bool
}

func TextCell(s string) Cell {
	return Cell{Text: strings.TrimSpace(s)}
}

func NumberCell(f float64) Cell {
	return Cell{Number: f, IsNum: true}
}

// String returns the cell as text, formatting native numbers plainly.
func (c Cell) String() string {
	if c.IsNum {
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}

	return c.Text
}

// Row is one raw statement row keyed by normalized header name.
type Row map[string]Cell

// Get returns the cell for a header, tolerating missing columns.
func (r Row) Get(header string) Cell {
	if header == "" {
		return Cell{}
	}

	return r[header]
}
