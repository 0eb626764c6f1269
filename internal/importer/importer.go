package importer

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradebookhq/tradebook/internal/trade"
)

// Options carries the caller-supplied context for one import.
type Options struct {
	// AccountID is attached uniformly to every trade in the batch.
	AccountID uuid.UUID
	// Timezone is the IANA name of the statement's source timezone.
	// Empty means the timestamps are taken as-is.
	Timezone string
}

// Result is one import's output: normalized trades plus the statement's own
// total, kept so the UI can cross-check the imported sum against the
// broker's reported figure.
type Result struct {
	Trades   []trade.CreateParams
	Rows     int
	TotalPnL float64
}

// File is an uploaded statement. The pipeline never touches the filesystem;
// callers hand over the whole file as a buffer.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// sourceLocation resolves the declared timezone, falling back to nil (no
// conversion) when the runtime has no data for it.
func sourceLocation(name string) *time.Location {
	if name == "" {
		return nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil
	}

	return loc
}
