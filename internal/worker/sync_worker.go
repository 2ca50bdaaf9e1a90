// Package worker exports ledger events to the spreadsheet ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"memorizer/internal/amqp"
	"memorizer/internal/sheets"
)

// SyncWorker appends one spreadsheet row per consumed ledger event.
type SyncWorker struct {
	sheet sheets.LedgerAppender
}

func NewSyncWorker(sheet sheets.LedgerAppender) *SyncWorker {
	return &SyncWorker{sheet: sheet}
}

// HandleEvent is the AMQP consumer callback. An error makes the consumer requeue the message.
func (w *SyncWorker) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	if ev == nil {
		return errors.New("nil ledger event")
	}
	if !ev.Type.Valid() {
		return fmt.Errorf("unknown event type %q", ev.Type)
	}

	slog.InfoContext(ctx, "Processing ledger event",
		"type", ev.Type,
		"id", ev.ID,
		"cost", int64(ev.Cost))

	ref, err := w.sheet.AppendRow(ctx, RowFromEvent(ev))
	if err != nil {
		return fmt.Errorf("append %s event: %w", ev.Type, err)
	}

	slog.InfoContext(ctx, "Ledger event exported",
		"type", ev.Type,
		"id", ev.ID,
		"row_ref", ref)
	return nil
}

// RowFromEvent maps an event onto the export columns.
func RowFromEvent(ev *amqp.LedgerEvent) sheets.LedgerRow {
	return sheets.LedgerRow{
		Timestamp: ev.Timestamp,
		Event:     string(ev.Type),
		ID:        ev.ID,
		Date:      ev.Date,
		Subject:   ev.Subject,
		Cost:      ev.Cost,
	}
}
