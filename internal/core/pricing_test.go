package core

import "testing"

func TestShiftCost(t *testing.T) {
	cases := []struct {
		name string
		d    Date
		want Rubles
	}{
		{"new year monday", NewDate(2024, 1, 1), 3000},
		{"holiday friday", NewDate(2024, 1, 5), 3000},
		{"holiday saturday", NewDate(2024, 1, 6), 3000},
		{"last holiday day", NewDate(2025, 1, 12), 3000},
		{"first saturday after holidays", NewDate(2024, 1, 13), 4000},
		{"friday", NewDate(2024, 3, 1), 4000},
		{"saturday", NewDate(2024, 3, 2), 4000},
		{"sunday", NewDate(2024, 3, 3), 3000},
		{"monday", NewDate(2024, 3, 4), 3000},
		{"december friday", NewDate(2023, 12, 29), 4000},
	}
	for _, tc := range cases {
		if got := ShiftCost(tc.d); got != tc.want {
			t.Errorf("%s (%s): got %d want %d", tc.name, tc.d, got, tc.want)
		}
	}
}

func TestSongCost(t *testing.T) {
	if SongCost() != 1000 {
		t.Fatalf("got %d", SongCost())
	}
}

func TestEarnings(t *testing.T) {
	shifts := []Shift{{Cost: 3000, Paid: true}, {Cost: 4000}}
	songs := []Song{{Cost: 1000}, {Cost: 1000, Paid: true}}
	got := Earnings(shifts, songs)
	if got.LifetimeEarnings != 9000 {
		t.Fatalf("lifetime: got %d", got.LifetimeEarnings)
	}
	if got.CurrentBalance != 5000 {
		t.Fatalf("balance: got %d", got.CurrentBalance)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEarningsEmpty(t *testing.T) {
	if got := Earnings(nil, nil); got != (EarningsStats{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}
}

func TestRublesString(t *testing.T) {
	if got := Rubles(3000).String(); got != "3000 ₽" {
		t.Fatalf("got %q", got)
	}
	if got := Rubles(0).String(); got != "0 ₽" {
		t.Fatalf("got %q", got)
	}
}

func TestShortWeekday(t *testing.T) {
	want := []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}
	for i, w := range want {
		d := NewDate(2024, 1, 1+i)
		if got := ShortWeekday(d); got != w {
			t.Errorf("%s: got %s want %s", d, got, w)
		}
	}
}
