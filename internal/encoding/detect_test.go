package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/tradebookhq/tradebook/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with Portuguese characters should pass through unchanged.
	input := "Ativo;Comissão\nWINFUT;12,50\nOperação;-3,00\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// Windows-1252 encoded "Comissão;Lucro\n".
	// In Windows-1252: ã = 0xE3
	latin1Bytes := []byte{
		'C', 'o', 'm', 'i', 's', 's', 0xE3, 'o', ';',
		'L', 'u', 'c', 'r', 'o', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Comissão;Lucro\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// UTF-8 BOM (0xEF 0xBB 0xBF) should be stripped.
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("symbol,pnl\nNQZ5,$255.00\n")
	input := append(bom, content...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "symbol,pnl\nNQZ5,$255.00\n", string(got))
}

func TestDecodeBytes_UTF16LE(t *testing.T) {
	// Tradovate exports from Windows are frequently UTF-16LE with a BOM.
	content := "symbol,pnl\nNQZ5,$255.00\n"

	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	utf16Bytes, err := encoder.Bytes([]byte(content))
	require.NoError(t, err)

	got, err := encoding.DecodeBytes(utf16Bytes)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestDecodeBytes_UTF16BE(t *testing.T) {
	content := "symbol,pnl\nESU5,$(115.00)\n"

	encoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	utf16Bytes, err := encoder.Bytes([]byte(content))
	require.NoError(t, err)

	got, err := encoding.DecodeBytes(utf16Bytes)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestDecodeBytes_Empty(t *testing.T) {
	_, err := encoding.DecodeBytes(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "vazio")
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        encoding.Kind
	}{
		{"csv extension", "report.csv", "application/octet-stream", encoding.KindCSV},
		{"csv mime", "report", "text/csv", encoding.KindCSV},
		{"html extension", "ReportHistory.html", "", encoding.KindHTML},
		{"htm extension", "report.htm", "", encoding.KindHTML},
		{"html mime with charset", "report", "text/html; charset=utf-8", encoding.KindHTML},
		{"pdf extension", "Performance.pdf", "", encoding.KindPDF},
		{"pdf mime", "statement", "application/pdf", encoding.KindPDF},
		{"xlsx default", "ReportHistory.xlsx", "application/octet-stream", encoding.KindXLSX},
		{"unknown defaults to xlsx", "export.bin", "", encoding.KindXLSX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encoding.Sniff(tt.filename, tt.contentType))
		})
	}
}

func TestLooksLikeZIP(t *testing.T) {
	assert.True(t, encoding.LooksLikeZIP([]byte("PK\x03\x04rest-of-container")))
	assert.False(t, encoding.LooksLikeZIP([]byte("<html><body>")))
	assert.False(t, encoding.LooksLikeZIP(nil))
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, encoding.LooksLikeHTML("<html><head>"))
	assert.True(t, encoding.LooksLikeHTML("\n<!DOCTYPE html>\n<html>"))
	assert.False(t, encoding.LooksLikeHTML("symbol,pnl\nNQZ5,$255.00"))
}
