package encoding

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Kind is the container format an uploaded statement should be parsed as.
type Kind string

const (
	KindCSV  Kind = "csv"
	KindHTML Kind = "html"
	KindXLSX Kind = "xlsx"
	KindPDF  Kind = "pdf"
)

// zipSignature is the ZIP local-file-header magic. Real XLSX files are ZIP
// containers; anything named .xlsx without it is something else in disguise.
var zipSignature = []byte("PK\x03\x04")

// Sniff routes an upload to a container format using the declared name and
// MIME type. Extensions win over MIME types because browsers frequently send
// application/octet-stream for spreadsheet exports.
func Sniff(name, contentType string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	mime := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))

	switch ext {
	case ".csv":
		return KindCSV
	case ".html", ".htm":
		return KindHTML
	case ".pdf":
		return KindPDF
	}

	switch mime {
	case "text/csv", "application/csv":
		return KindCSV
	case "text/html":
		return KindHTML
	case "application/pdf":
		return KindPDF
	}

	return KindXLSX
}

// LooksLikeZIP reports whether the buffer starts with the ZIP magic bytes.
func LooksLikeZIP(data []byte) bool {
	return bytes.HasPrefix(data, zipSignature)
}

// LooksLikeHTML reports whether decoded text begins with HTML markers.
// MetaTrader "Save as XLSX" from some terminals actually writes an HTML
// report, so this check backs the XLSX→HTML reroute.
func LooksLikeHTML(text string) bool {
	head := strings.ToLower(text)
	if len(head) > 1024 {
		head = head[:1024]
	}

	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}
