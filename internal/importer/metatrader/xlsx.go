package metatrader

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	enc "github.com/tradebookhq/tradebook/internal/encoding"
)

// ErrHTMLReport signals that a file named .xlsx is actually an HTML report.
// Some MetaTrader builds write HTML regardless of the chosen extension; the
// caller should reroute the same bytes to ParseHTML.
var ErrHTMLReport = errors.New("relatório HTML disfarçado de XLSX")

// ParseXLSX parses a MetaTrader history report saved as an XLSX workbook.
func ParseXLSX(data []byte) (*Report, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("o arquivo está vazio")
	}

	// A real XLSX is a ZIP container. Anything else named .xlsx is either an
	// HTML report in disguise or a broken export the user must re-save.
	if !enc.LooksLikeZIP(data) {
		text, err := enc.DecodeBytes(data)
		if err == nil && enc.LooksLikeHTML(text) {
			return nil, ErrHTMLReport
		}

		return nil, fmt.Errorf("o arquivo não é um XLSX válido. Abra o relatório no Excel e salve-o novamente como .xlsx")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("não foi possível abrir o XLSX. Abra o relatório no Excel e salve-o novamente: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("o arquivo XLSX não contém planilhas")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("não foi possível ler a planilha: %w", err)
	}

	return parseRows(rows)
}
