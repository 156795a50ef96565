package domain

import "time"

// Week is a Monday..Sunday calendar window
type Week struct {
	Start time.Time // Monday 00:00
	End   time.Time // Sunday 00:00
}

// WeekOf returns the week containing t
func WeekOf(t time.Time) Week {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

// Until returns the exclusive upper bound of the window
func (w Week) Until() time.Time {
	return w.End.AddDate(0, 0, 1)
}

// Contains returns true if t falls into the window
func (w Week) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.Until())
}

// StartOfDay truncates t to midnight in its location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfYear returns the last instant of the year of t
func EndOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.December, 31, 23, 59, 59, 0, t.Location())
}

// IsSameDay проверяет, что две даты относятся к одному и тому же дню
func IsSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня
func IsDateInPast(date, now time.Time) bool {
	return StartOfDay(date).Before(StartOfDay(now))
}
