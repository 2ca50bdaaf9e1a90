// Package services orchestrates ledger operations across storage and event publishing.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"memorizer/internal/amqp"
	"memorizer/internal/core"
	"memorizer/internal/ledger"
)

// EventPublisher is satisfied by *amqp.Client.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error
}

// LedgerService assigns costs, persists entries and publishes ledger events.
// Publishing is best effort: a saved entry is never rolled back because an event failed.
type LedgerService struct {
	store     ledger.Store
	publisher EventPublisher

	// publishTimeout bounds the time a mutation spends handing its event to the broker.
	publishTimeout time.Duration
}

const defaultPublishTimeout = 2 * time.Second

// NewLedgerService accepts a nil publisher when messaging is disabled.
func NewLedgerService(store ledger.Store, publisher EventPublisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher, publishTimeout: defaultPublishTimeout}
}

func (s *LedgerService) ListShifts(ctx context.Context) ([]core.Shift, error) {
	shifts, err := s.store.ListShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return shifts, nil
}

func (s *LedgerService) ListSongs(ctx context.Context) ([]core.Song, error) {
	songs, err := s.store.ListSongs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	return songs, nil
}

// Entries loads shifts and songs concurrently.
func (s *LedgerService) Entries(ctx context.Context) ([]core.Shift, []core.Song, error) {
	var (
		shifts []core.Shift
		songs  []core.Song
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		shifts, err = s.ListShifts(gctx)
		return err
	})
	g.Go(func() (err error) {
		songs, err = s.ListSongs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return shifts, songs, nil
}

// CreateShift ignores any client-supplied id, cost or paid flag.
func (s *LedgerService) CreateShift(ctx context.Context, in core.Shift) (core.Shift, error) {
	if err := in.Validate(); err != nil {
		return core.Shift{}, err
	}
	in.ID, in.Paid = 0, false
	in.Cost = core.ShiftCost(in.Date)

	created, err := s.store.CreateShift(ctx, in)
	if err != nil {
		return core.Shift{}, fmt.Errorf("save shift: %w", err)
	}
	s.publish(ctx, amqp.NewShiftCreated(created))
	return created, nil
}

func (s *LedgerService) DeleteShift(ctx context.Context, id int64) error {
	if err := s.store.DeleteShift(ctx, id); err != nil {
		return fmt.Errorf("delete shift %d: %w", id, err)
	}
	s.publish(ctx, amqp.NewDeleted(amqp.ShiftDeleted, id))
	return nil
}

func (s *LedgerService) CreateSong(ctx context.Context, in core.Song) (core.Song, error) {
	if err := in.Validate(); err != nil {
		return core.Song{}, err
	}
	in.ID, in.Paid = 0, false
	in.Cost = core.SongCost()

	created, err := s.store.CreateSong(ctx, in)
	if err != nil {
		return core.Song{}, fmt.Errorf("save song: %w", err)
	}
	s.publish(ctx, amqp.NewSongCreated(created))
	return created, nil
}

func (s *LedgerService) DeleteSong(ctx context.Context, id int64) error {
	if err := s.store.DeleteSong(ctx, id); err != nil {
		return fmt.Errorf("delete song %d: %w", id, err)
	}
	s.publish(ctx, amqp.NewDeleted(amqp.SongDeleted, id))
	return nil
}

func (s *LedgerService) Earnings(ctx context.Context) (core.EarningsStats, error) {
	stats, err := s.store.Earnings(ctx)
	if err != nil {
		return core.EarningsStats{}, fmt.Errorf("earnings: %w", err)
	}
	return stats, nil
}

func (s *LedgerService) Payout(ctx context.Context) (ledger.PayoutResult, error) {
	res, err := s.store.Payout(ctx)
	if err != nil {
		return ledger.PayoutResult{}, fmt.Errorf("payout: %w", err)
	}
	s.publish(ctx, amqp.NewPayout(res))
	return res, nil
}

func (s *LedgerService) publish(ctx context.Context, ev *amqp.LedgerEvent) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping ledger event", "type", ev.Type)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()
	if err := s.publisher.PublishLedgerEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"type", ev.Type, "id", ev.ID, "error", err)
	}
}

// Close closes the store and the publisher when they hold resources.
func (s *LedgerService) Close() error {
	var errs []error
	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
