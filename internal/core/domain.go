package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	clockLayoutSeconds = "15:04:05"
)

type (
	// Date is a calendar day without a time zone, serialized as YYYY-MM-DD.
	Date struct {
		time.Time
	}

	// Clock is a time of day, serialized as HH:MM.
	Clock struct {
		Hour   int
		Minute int
		Second int
	}

	Shift struct {
		ID         int64  `json:"id"`
		WorkerName string `json:"workerName"`
		Date       Date   `json:"date"`
		StartTime  Clock  `json:"startTime"`
		EndTime    Clock  `json:"endTime"`
		Cost       Rubles `json:"cost"`
		Paid       bool   `json:"paid"`
	}

	Song struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		Artist  string `json:"artist"`
		AddedBy string `json:"addedBy"`
		Cost    Rubles `json:"cost"`
		Paid    bool   `json:"paid"`
	}

	// EarningsStats is recomputed by the backend on every request.
	EarningsStats struct {
		LifetimeEarnings Rubles `json:"lifetimeEarnings"`
		CurrentBalance   Rubles `json:"currentBalance"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTime      = errors.New("invalid time")
	ErrEmptyWorkerName  = errors.New("empty worker name")
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyArtist      = errors.New("empty artist")
	ErrEmptyAddedBy     = errors.New("empty added by")
	ErrValueTooLong     = errors.New("value too long")
	ErrNegativeEarnings = errors.New("negative earnings")
)

const (
	maxWorkerNameLen = 100
	maxSongFieldLen  = 200
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseClock accepts HH:MM and HH:MM:SS.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	layout := ClockLayout
	if strings.Count(s, ":") == 2 {
		layout = clockLayoutSeconds
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// MustClock is ParseClock for literals.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	if c.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
	}
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) Validate() error {
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 || c.Second < 0 || c.Second > 59 {
		return ErrInvalidTime
	}
	return nil
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTime, string(b))
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (s Shift) Validate() error {
	name := strings.TrimSpace(s.WorkerName)
	if name == "" {
		return ErrEmptyWorkerName
	}
	if utf8.RuneCountInString(name) > maxWorkerNameLen {
		return fmt.Errorf("%w: worker name (max %d characters)", ErrValueTooLong, maxWorkerNameLen)
	}
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if err := s.StartTime.Validate(); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	if err := s.EndTime.Validate(); err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	return nil
}

func (s Song) Validate() error {
	fields := []struct {
		value string
		empty error
		name  string
	}{
		{s.Title, ErrEmptyTitle, "title"},
		{s.Artist, ErrEmptyArtist, "artist"},
		{s.AddedBy, ErrEmptyAddedBy, "added by"},
	}
	for _, f := range fields {
		v := strings.TrimSpace(f.value)
		if v == "" {
			return f.empty
		}
		if utf8.RuneCountInString(v) > maxSongFieldLen {
			return fmt.Errorf("%w: %s (max %d characters)", ErrValueTooLong, f.name, maxSongFieldLen)
		}
	}
	return nil
}

func (e EarningsStats) Validate() error {
	if e.LifetimeEarnings < 0 || e.CurrentBalance < 0 {
		return ErrNegativeEarnings
	}
	return nil
}

// IsValidation reports whether err is one of the input validation errors above.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidDate, ErrInvalidTime, ErrEmptyWorkerName, ErrEmptyTitle,
		ErrEmptyArtist, ErrEmptyAddedBy, ErrValueTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
