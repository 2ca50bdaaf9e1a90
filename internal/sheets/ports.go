// Package sheets defines the spreadsheet ledger export port.
package sheets

import (
	"context"
	"strconv"
	"time"

	"memorizer/internal/core"
)

// LedgerRow is one exported ledger event.
// Columns: Timestamp, Event, ID, Date, Subject, Cost.
type LedgerRow struct {
	Timestamp time.Time
	Event     string
	ID        int64
	Date      string
	Subject   string
	Cost      core.Rubles
}

// Values renders the row for a RAW append. A zero id is left blank.
func (r LedgerRow) Values() []any {
	id := ""
	if r.ID != 0 {
		id = strconv.FormatInt(r.ID, 10)
	}
	return []any{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.Event,
		id,
		r.Date,
		r.Subject,
		int64(r.Cost),
	}
}

// LedgerAppender is an outbound port: it appends a row and returns a row reference.
type LedgerAppender interface {
	AppendRow(ctx context.Context, row LedgerRow) (rowRef string, err error)
}
