package client

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"memorizer/internal/core"
	"memorizer/internal/view"
)

// LedgerAPI is the subset of the REST API the dashboard drives; *Client implements it.
type LedgerAPI interface {
	ListShifts(ctx context.Context) ([]core.Shift, error)
	CreateShift(ctx context.Context, in NewShift) (core.Shift, error)
	DeleteShift(ctx context.Context, id int64) error
	ListSongs(ctx context.Context) ([]core.Song, error)
	CreateSong(ctx context.Context, in NewSong) (core.Song, error)
	DeleteSong(ctx context.Context, id int64) error
	Earnings(ctx context.Context) (core.EarningsStats, error)
	Payout(ctx context.Context) error
}

// Dashboard keeps no state between calls: every action ends with a full Refresh.
type Dashboard struct {
	api    LedgerAPI
	layout view.Layout
}

func NewDashboard(api LedgerAPI, layout view.Layout) *Dashboard {
	return &Dashboard{api: api, layout: layout}
}

// Refresh fetches shifts and songs in parallel, then the stats, and renders a new page.
func (d *Dashboard) Refresh(ctx context.Context) (view.Page, error) {
	var (
		shifts []core.Shift
		songs  []core.Song
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		shifts, err = d.api.ListShifts(gctx)
		return err
	})
	g.Go(func() (err error) {
		songs, err = d.api.ListSongs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return view.Page{}, fmt.Errorf("load entries: %w", err)
	}

	stats, err := d.api.Earnings(ctx)
	if err != nil {
		return view.Page{}, fmt.Errorf("load stats: %w", err)
	}
	return view.Render(d.layout, shifts, songs, stats), nil
}

// Stats re-fetches only the summary.
func (d *Dashboard) Stats(ctx context.Context) (view.Stats, error) {
	stats, err := d.api.Earnings(ctx)
	if err != nil {
		return view.Stats{}, fmt.Errorf("load stats: %w", err)
	}
	return view.RenderStats(stats), nil
}

// AddShift creates the shift and reloads. A failed create returns before any reload.
func (d *Dashboard) AddShift(ctx context.Context, in NewShift) (core.Shift, view.Page, error) {
	created, err := d.api.CreateShift(ctx, in)
	if err != nil {
		return core.Shift{}, view.Page{}, err
	}
	page, err := d.Refresh(ctx)
	return created, page, err
}

func (d *Dashboard) AddSong(ctx context.Context, in NewSong) (core.Song, view.Page, error) {
	created, err := d.api.CreateSong(ctx, in)
	if err != nil {
		return core.Song{}, view.Page{}, err
	}
	page, err := d.Refresh(ctx)
	return created, page, err
}

// Delete removes one entry of kind. Confirmation happens before the call, in the caller.
func (d *Dashboard) Delete(ctx context.Context, kind core.EntryKind, id int64) (view.Page, error) {
	var err error
	switch kind {
	case core.KindShift:
		err = d.api.DeleteShift(ctx, id)
	case core.KindSong:
		err = d.api.DeleteSong(ctx, id)
	default:
		err = fmt.Errorf("unknown entry type %q", kind)
	}
	if err != nil {
		return view.Page{}, err
	}
	return d.Refresh(ctx)
}

// Payout settles the balance and reloads; callers show view.PayoutMessage on success.
func (d *Dashboard) Payout(ctx context.Context) (view.Page, error) {
	if err := d.api.Payout(ctx); err != nil {
		return view.Page{}, err
	}
	return d.Refresh(ctx)
}
