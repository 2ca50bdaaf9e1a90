// Package memory keeps exported ledger rows in process, for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"memorizer/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []sheets.LedgerRow
}

var _ sheets.LedgerAppender = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendRow stores the row and returns a synthetic row reference.
func (s *Store) AppendRow(_ context.Context, row sheets.LedgerRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []sheets.LedgerRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.LedgerRow(nil), s.rows...)
}
