package core

import "time"

var shortWeekdays = [...]string{
	time.Sunday:    "Вс",
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
}

// ShortWeekday returns the two-letter Russian label for the day of week.
func ShortWeekday(d Date) string {
	return shortWeekdays[d.Weekday()]
}
