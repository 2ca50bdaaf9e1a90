package core

import "testing"

func TestQuickShift(t *testing.T) {
	s := QuickShift(NewDate(2024, 1, 1))
	if s.WorkerName != "Я" || s.StartTime.String() != "00:00" || s.EndTime.String() != "23:59" {
		t.Fatalf("unexpected shift %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("quick shift should validate: %v", err)
	}
}

func TestQuickSong(t *testing.T) {
	s := QuickSong(NewDate(2024, 2, 14))
	if s.Title != "Песня (2024-02-14)" || s.Artist != "Вне очереди" || s.AddedBy != "Гость" {
		t.Fatalf("unexpected song %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("quick song should validate: %v", err)
	}
}

func TestEntryKind(t *testing.T) {
	if !KindShift.Valid() || !KindSong.Valid() || EntryKind("expense").Valid() {
		t.Fatal("unexpected kind validity")
	}
}
