package core

// Quick-entry defaults used when the form only names a date and a type.
const (
	DefaultWorkerName = "Я"
	DefaultSongArtist = "Вне очереди"
	DefaultAddedBy    = "Гость"
)

// EntryKind is the quick-entry type selector.
type EntryKind string

const (
	KindShift EntryKind = "shift"
	KindSong  EntryKind = "song"
)

func (k EntryKind) Valid() bool {
	return k == KindShift || k == KindSong
}

// QuickShift is a whole-day shift on d.
func QuickShift(d Date) Shift {
	return Shift{
		WorkerName: DefaultWorkerName,
		Date:       d,
		StartTime:  Clock{Hour: 0, Minute: 0},
		EndTime:    Clock{Hour: 23, Minute: 59},
	}
}

// QuickSong folds d into the title; songs carry no date of their own.
func QuickSong(d Date) Song {
	return Song{
		Title:   "Песня (" + d.String() + ")",
		Artist:  DefaultSongArtist,
		AddedBy: DefaultAddedBy,
	}
}
