package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2024, 1, 1), true},
		{NewDate(2024, 12, 31), true},
		{Date{Time: time.Time{}}, false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-01-01" {
		t.Fatalf("got %q", d.String())
	}
	for _, bad := range []string{"", "2024-13-01", "2024-02-30", "01/01/2024"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestClockParseAndFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09:00", "09:00"},
		{"23:59", "23:59"},
		{"00:00:00", "00:00"},
		{"17:30:15", "17:30:15"},
	}
	for _, tc := range cases {
		c, err := ParseClock(tc.in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got := c.String(); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"24:00", "9", "ab:cd", ""} {
		if _, err := ParseClock(bad); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("%q: expected ErrInvalidTime, got %v", bad, err)
		}
	}
}

func TestShiftJSON(t *testing.T) {
	in := `{"workerName":"Я","date":"2024-01-01","startTime":"09:00","endTime":"17:00"}`
	var s Shift
	if err := json.Unmarshal([]byte(in), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !s.Date.Equal(NewDate(2024, 1, 1).Time) || s.StartTime != MustClock("09:00") || s.EndTime != MustClock("17:00") {
		t.Fatalf("unexpected shift %+v", s)
	}
	s.ID, s.Cost = 7, 3000
	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":7,"workerName":"Я","date":"2024-01-01","startTime":"09:00","endTime":"17:00","cost":3000,"paid":false}`
	if string(out) != want {
		t.Fatalf("got %s\nwant %s", out, want)
	}
}

func TestShiftValidate(t *testing.T) {
	good := Shift{WorkerName: "Я", Date: NewDate(2024, 1, 1), StartTime: MustClock("00:00"), EndTime: MustClock("23:59")}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Shift{
		{WorkerName: " ", Date: good.Date, StartTime: good.StartTime, EndTime: good.EndTime},
		{WorkerName: strings.Repeat("x", 101), Date: good.Date, StartTime: good.StartTime, EndTime: good.EndTime},
		{WorkerName: "Я", StartTime: good.StartTime, EndTime: good.EndTime},
		{WorkerName: "Я", Date: good.Date, StartTime: Clock{Hour: 25}, EndTime: good.EndTime},
	}
	for i, s := range bads {
		err := s.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !IsValidation(err) {
			t.Fatalf("case %d: %v should be a validation error", i, err)
		}
	}
}

func TestSongValidate(t *testing.T) {
	good := Song{Title: "Песня (2024-01-01)", Artist: "Вне очереди", AddedBy: "Гость"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	cases := []struct {
		s    Song
		want error
	}{
		{Song{Artist: "a", AddedBy: "b"}, ErrEmptyTitle},
		{Song{Title: "t", AddedBy: "b"}, ErrEmptyArtist},
		{Song{Title: "t", Artist: "a"}, ErrEmptyAddedBy},
		{Song{Title: strings.Repeat("t", 201), Artist: "a", AddedBy: "b"}, ErrValueTooLong},
	}
	for i, tc := range cases {
		if err := tc.s.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v want %v", i, err, tc.want)
		}
	}
}

func TestIsValidation(t *testing.T) {
	if IsValidation(errors.New("disk full")) {
		t.Fatal("plain error is not a validation error")
	}
	if !IsValidation(ErrEmptyTitle) {
		t.Fatal("ErrEmptyTitle is a validation error")
	}
}
