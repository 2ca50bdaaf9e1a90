// Package view turns ledger collections into display items for the browser and the terminal.
package view

import (
	"fmt"

	"memorizer/internal/core"
)

const (
	ShiftTitle      = "📅 Смена"
	SongTitle       = "🎵 Песня"
	SongSubtitle    = "Вне очереди"
	AccentPrimary   = "primary"
	AccentSecondary = "secondary"

	ConfirmDeleteShift = "Удалить смену?"
	ConfirmDeleteSong  = "Удалить эту песню?"
	ConfirmPayout      = "Вы уверены, что хотите забрать зарплату? Это обнулит текущий счетчик."
	PayoutMessage      = "💰 Зарплата выдана! Банк обнулен."

	// Stats slots the page updates in place.
	SlotLifetime = "lifetime-earnings"
	SlotBalance  = "current-balance"
)

type Layout string

const (
	LayoutMerged Layout = "merged"
	LayoutSplit  Layout = "split"
)

// ParseLayout falls back to merged for anything unknown.
func ParseLayout(s string) Layout {
	if Layout(s) == LayoutSplit {
		return LayoutSplit
	}
	return LayoutMerged
}

// Item is one rendered list entry with its delete action.
type Item struct {
	Kind     core.EntryKind
	ID       int64
	Title    string
	Subtitle string
	Badge    string
	Accent   string
	Paid     bool
	Confirm  string
}

// DeletePath is the UI route that removes the entry.
func (it Item) DeletePath() string {
	return fmt.Sprintf("/ui/%ss/%d", it.Kind, it.ID)
}

type Stats struct {
	Lifetime string
	Balance  string
}

// Page is a full rebuild of the list and stats; nothing is carried over between renders.
type Page struct {
	Layout Layout
	// Items holds every entry for the merged layout: shifts first, then songs.
	Items  []Item
	Shifts []Item
	Songs  []Item
	Stats  Stats
}

func (p Page) Empty() bool {
	return len(p.Shifts) == 0 && len(p.Songs) == 0
}

func ShiftItem(s core.Shift) Item {
	return Item{
		Kind:     core.KindShift,
		ID:       s.ID,
		Title:    ShiftTitle,
		Subtitle: fmt.Sprintf("%s (%s)", s.Date, core.ShortWeekday(s.Date)),
		Badge:    s.Cost.String(),
		Accent:   AccentPrimary,
		Paid:     s.Paid,
		Confirm:  ConfirmDeleteShift,
	}
}

func SongItem(s core.Song) Item {
	return Item{
		Kind:     core.KindSong,
		ID:       s.ID,
		Title:    SongTitle,
		Subtitle: SongSubtitle,
		Badge:    s.Cost.String(),
		Accent:   AccentSecondary,
		Paid:     s.Paid,
		Confirm:  ConfirmDeleteSong,
	}
}

// Render keeps API order within each kind.
func Render(layout Layout, shifts []core.Shift, songs []core.Song, stats core.EarningsStats) Page {
	p := Page{
		Layout: layout,
		Shifts: make([]Item, 0, len(shifts)),
		Songs:  make([]Item, 0, len(songs)),
		Stats:  RenderStats(stats),
	}
	for _, s := range shifts {
		p.Shifts = append(p.Shifts, ShiftItem(s))
	}
	for _, s := range songs {
		p.Songs = append(p.Songs, SongItem(s))
	}
	p.Items = make([]Item, 0, len(p.Shifts)+len(p.Songs))
	p.Items = append(p.Items, p.Shifts...)
	p.Items = append(p.Items, p.Songs...)
	return p
}

func RenderStats(s core.EarningsStats) Stats {
	return Stats{
		Lifetime: s.LifetimeEarnings.String(),
		Balance:  s.CurrentBalance.String(),
	}
}
