// Package memory is an in-process ledger store used for development and tests.
package memory

import (
	"context"
	"sync"

	"memorizer/internal/core"
	"memorizer/internal/ledger"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	shifts []core.Shift
	songs  []core.Song
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) ListShifts(_ context.Context) ([]core.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Shift{}, s.shifts...), nil
}

// CreateShift assigns the id and stores the shift unpaid.
func (s *Store) CreateShift(_ context.Context, sh core.Shift) (core.Shift, error) {
	if err := sh.Validate(); err != nil {
		return core.Shift{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh.ID = s.allocID()
	sh.Paid = false
	s.shifts = append(s.shifts, sh)
	return sh, nil
}

func (s *Store) DeleteShift(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shifts {
		if s.shifts[i].ID == id {
			s.shifts = append(s.shifts[:i], s.shifts[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) ListSongs(_ context.Context) ([]core.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Song{}, s.songs...), nil
}

func (s *Store) CreateSong(_ context.Context, sg core.Song) (core.Song, error) {
	if err := sg.Validate(); err != nil {
		return core.Song{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sg.ID = s.allocID()
	sg.Paid = false
	s.songs = append(s.songs, sg)
	return sg, nil
}

func (s *Store) DeleteSong(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.songs {
		if s.songs[i].ID == id {
			s.songs = append(s.songs[:i], s.songs[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (s *Store) Earnings(_ context.Context) (core.EarningsStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Earnings(s.shifts, s.songs), nil
}

func (s *Store) Payout(_ context.Context) (ledger.PayoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res ledger.PayoutResult
	for i := range s.shifts {
		if !s.shifts[i].Paid {
			s.shifts[i].Paid = true
			res.Shifts++
			res.Amount += s.shifts[i].Cost
		}
	}
	for i := range s.songs {
		if !s.songs[i].Paid {
			s.songs[i].Paid = true
			res.Songs++
			res.Amount += s.songs[i].Cost
		}
	}
	return res, nil
}

// allocID hands out ids shared by shifts and songs. Caller holds mu.
func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}
