package core

import "time"

const (
	ShiftRate        Rubles = 3000
	WeekendShiftRate Rubles = 4000
	SongRate         Rubles = 1000

	// New Year holidays: January 1..12 are paid at the base rate.
	holidayLastDay = 12
)

// ShiftCost returns the pay for a shift on the given day.
//
// January 1-12 always pays ShiftRate, even on Friday or Saturday.
// Other Fridays and Saturdays pay WeekendShiftRate; everything else pays ShiftRate.
func ShiftCost(d Date) Rubles {
	if d.Month() == time.January && d.Day() <= holidayLastDay {
		return ShiftRate
	}
	switch d.Weekday() {
	case time.Friday, time.Saturday:
		return WeekendShiftRate
	default:
		return ShiftRate
	}
}

// SongCost returns the pay for one out-of-queue song.
func SongCost() Rubles {
	return SongRate
}

// Earnings totals shifts and songs: lifetime over everything, balance over unpaid entries.
func Earnings(shifts []Shift, songs []Song) EarningsStats {
	var stats EarningsStats
	for _, s := range shifts {
		stats.LifetimeEarnings += s.Cost
		if !s.Paid {
			stats.CurrentBalance += s.Cost
		}
	}
	for _, s := range songs {
		stats.LifetimeEarnings += s.Cost
		if !s.Paid {
			stats.CurrentBalance += s.Cost
		}
	}
	return stats
}
