// Package ledger defines the storage ports for shifts, songs and earnings.
package ledger

import (
	"context"
	"errors"

	"memorizer/internal/core"
)

// ErrNotFound is returned when an entry id does not exist.
var ErrNotFound = errors.New("entry not found")

type (
	// ShiftStore persists shifts. List returns them in insertion order.
	ShiftStore interface {
		ListShifts(ctx context.Context) ([]core.Shift, error)
		CreateShift(ctx context.Context, s core.Shift) (core.Shift, error)
		DeleteShift(ctx context.Context, id int64) error
	}

	// SongStore persists songs. List returns them in insertion order.
	SongStore interface {
		ListSongs(ctx context.Context) ([]core.Song, error)
		CreateSong(ctx context.Context, s core.Song) (core.Song, error)
		DeleteSong(ctx context.Context, id int64) error
	}

	StatsStore interface {
		Earnings(ctx context.Context) (core.EarningsStats, error)
		// Payout marks every unpaid entry as paid, atomically.
		Payout(ctx context.Context) (PayoutResult, error)
	}

	Store interface {
		ShiftStore
		SongStore
		StatsStore
	}

	// PayoutResult describes what a payout settled.
	PayoutResult struct {
		Shifts int         `json:"shifts"`
		Songs  int         `json:"songs"`
		Amount core.Rubles `json:"amount"`
	}
)
