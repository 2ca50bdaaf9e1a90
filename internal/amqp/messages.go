package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"memorizer/internal/core"
	"memorizer/internal/ledger"
)

// EventType names a ledger mutation.
type EventType string

const (
	ShiftCreated EventType = "shift.created"
	ShiftDeleted EventType = "shift.deleted"
	SongCreated  EventType = "song.created"
	SongDeleted  EventType = "song.deleted"
	Payout       EventType = "payout"
)

func (t EventType) Valid() bool {
	switch t {
	case ShiftCreated, ShiftDeleted, SongCreated, SongDeleted, Payout:
		return true
	}
	return false
}

// LedgerEvent is published after every successful mutation.
// Subject is the worker name for shifts and "title, artist" for songs.
type LedgerEvent struct {
	Type      EventType   `json:"type"`
	ID        int64       `json:"id,omitempty"`
	Cost      core.Rubles `json:"cost"`
	Date      string      `json:"date,omitempty"`
	Subject   string      `json:"subject,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewShiftCreated(s core.Shift) *LedgerEvent {
	return &LedgerEvent{
		Type:      ShiftCreated,
		ID:        s.ID,
		Cost:      s.Cost,
		Date:      s.Date.String(),
		Subject:   s.WorkerName,
		Timestamp: time.Now(),
	}
}

func NewSongCreated(s core.Song) *LedgerEvent {
	return &LedgerEvent{
		Type:      SongCreated,
		ID:        s.ID,
		Cost:      s.Cost,
		Subject:   s.Title + ", " + s.Artist,
		Timestamp: time.Now(),
	}
}

// NewDeleted builds a shift.deleted or song.deleted event.
func NewDeleted(t EventType, id int64) *LedgerEvent {
	return &LedgerEvent{Type: t, ID: id, Timestamp: time.Now()}
}

// NewPayout carries the amount the payout settled.
func NewPayout(res ledger.PayoutResult) *LedgerEvent {
	return &LedgerEvent{
		Type:      Payout,
		Cost:      res.Amount,
		Subject:   fmt.Sprintf("%d shifts, %d songs", res.Shifts, res.Songs),
		Timestamp: time.Now(),
	}
}

func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Type.Valid() {
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	return &msg, nil
}
