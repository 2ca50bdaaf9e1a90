package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"memorizer/internal/core"
)

func parserFor(t *testing.T, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ui/entries", strings.NewReader(body))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestRequestBodyParser(t *testing.T) {
	t.Run("form", func(t *testing.T) {
		p := parserFor(t, "type=song&title=%20A%01B%20")
		if p.IsJSON() {
			t.Error("form body reported as JSON")
		}
		if got := p.Get("title"); got != "AB" {
			t.Errorf("Get(title) = %q, want %q", got, "AB")
		}
		if got := p.Get("missing"); got != "" {
			t.Errorf("Get(missing) = %q, want empty", got)
		}
	})

	t.Run("json", func(t *testing.T) {
		p := parserFor(t, `{"type":"shift","n":3,"ok":true}`)
		if !p.IsJSON() {
			t.Error("JSON body not detected")
		}
		if p.Get("type") != "shift" || p.Get("n") != "3" || p.Get("ok") != "true" {
			t.Errorf("unexpected values %q %q %q", p.Get("type"), p.Get("n"), p.Get("ok"))
		}
	})

	t.Run("empty", func(t *testing.T) {
		p := parserFor(t, "")
		if p.Get("type") != "" {
			t.Error("empty body should yield empty values")
		}
	})

	t.Run("broken json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/ui/entries", strings.NewReader(`{"type":`))
		p := NewRequestBodyParser(req)
		if err := p.Parse(); err == nil {
			t.Error("expected parse error")
		}
		if err := p.Parse(); err == nil {
			t.Error("second Parse should return the same error")
		}
	})
}

func TestParseQuickEntry(t *testing.T) {
	today := core.NewDate(2024, 2, 10)

	tests := []struct {
		name    string
		body    string
		check   func(t *testing.T, e QuickEntry)
		wantErr error
	}{
		{
			name: "shift defaults",
			body: "date=2024-01-01&type=shift",
			check: func(t *testing.T, e QuickEntry) {
				want := core.QuickShift(core.NewDate(2024, 1, 1))
				if e.Kind != core.KindShift || e.Shift.WorkerName != want.WorkerName ||
					e.Shift.StartTime != want.StartTime || e.Shift.EndTime != want.EndTime ||
					!e.Shift.Date.Equal(want.Date.Time) {
					t.Errorf("got %+v, want %+v", e.Shift, want)
				}
			},
		},
		{
			name: "shift overrides",
			body: "date=2024-01-01&type=shift&workerName=Anna&startTime=09:00&endTime=17:30",
			check: func(t *testing.T, e QuickEntry) {
				if e.Shift.WorkerName != "Anna" || e.Shift.StartTime.String() != "09:00" || e.Shift.EndTime.String() != "17:30" {
					t.Errorf("overrides not applied: %+v", e.Shift)
				}
			},
		},
		{
			name: "empty date is today",
			body: "type=song",
			check: func(t *testing.T, e QuickEntry) {
				if e.Song.Title != "Песня (2024-02-10)" || e.Song.Artist != core.DefaultSongArtist || e.Song.AddedBy != core.DefaultAddedBy {
					t.Errorf("unexpected song %+v", e.Song)
				}
			},
		},
		{
			name: "song overrides",
			body: "type=song&title=Hit&artist=Band&addedBy=Me",
			check: func(t *testing.T, e QuickEntry) {
				if e.Song.Title != "Hit" || e.Song.Artist != "Band" || e.Song.AddedBy != "Me" {
					t.Errorf("overrides not applied: %+v", e.Song)
				}
			},
		},
		{name: "missing type", body: "date=2024-01-01", wantErr: ErrUnknownEntryKind},
		{name: "unknown type", body: "type=expense", wantErr: ErrUnknownEntryKind},
		{name: "bad date", body: "type=shift&date=2024-02-30", wantErr: core.ErrInvalidDate},
		{name: "bad time", body: "type=shift&startTime=9am", wantErr: core.ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ParseQuickEntry(parserFor(t, tt.body), today)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, e)
		})
	}
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	got := Today(time.Date(2024, 3, 1, 23, 30, 0, 0, loc))
	if got.String() != "2024-03-01" {
		t.Errorf("Today() = %s, want 2024-03-01", got)
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("42"); err != nil || id != 42 {
		t.Errorf("ParseID(42) = %d, %v", id, err)
	}
	for _, raw := range []string{"", "0", "-1", "abc", "1.5"} {
		if _, err := ParseID(raw); !errors.Is(err, ErrInvalidID) {
			t.Errorf("ParseID(%q) error = %v, want ErrInvalidID", raw, err)
		}
	}
}
