package memory

import (
	"context"
	"testing"

	"memorizer/internal/sheets"
)

func TestStore_AppendRow(t *testing.T) {
	s := New()
	for i, ev := range []string{"shift.created", "payout"} {
		ref, err := s.AppendRow(context.Background(), sheets.LedgerRow{Event: ev})
		if err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
		if want := "mem:" + string(rune('1'+i)); ref != want {
			t.Errorf("ref = %q, want %q", ref, want)
		}
	}

	rows := s.Rows()
	if len(rows) != 2 || rows[1].Event != "payout" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	rows[0].Event = "changed"
	if s.Rows()[0].Event != "shift.created" {
		t.Error("Rows should return a copy")
	}
}

func TestLedgerRowValues(t *testing.T) {
	v := sheets.LedgerRow{Event: "payout", Cost: 7000}.Values()
	if v[2] != "" {
		t.Errorf("zero id should be blank, got %v", v[2])
	}
	if v[5] != int64(7000) {
		t.Errorf("cost = %v", v[5])
	}
}
