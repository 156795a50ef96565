// Package recurrence содержит чистые (без БД) вычисления календаря:
// проекцию недельной серии до конца года и поиск свободного времени в дне.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

var (
	// ErrNoSlotAvailable возвращается, когда в дне нет свободного времени после now
	ErrNoSlotAvailable = errors.New("recurrence: no slot available")

	// ErrInvalidRule возвращается, если rrule не удалось построить
	ErrInvalidRule = errors.New("recurrence: invalid rule")
)

// WeeklyOccurrences возвращает seed и все последующие даты того же дня недели
// с шагом 7 дней до 31 декабря года seed включительно. Время суток seed сохраняется.
func WeeklyOccurrences(seed time.Time) ([]time.Time, error) {
	return weeklyUntil(seed, domain.EndOfYear(seed))
}

// FollowingOccurrences то же, что WeeklyOccurrences, но без самого seed
func FollowingOccurrences(seed time.Time) ([]time.Time, error) {
	all, err := WeeklyOccurrences(seed)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return all, nil
	}
	return all[1:], nil
}

// WeeklyBetween возвращает даты серии seed, попадающие в [from, until]
// Используется годовым переносом серий: seed в прошлом году, окно - новый год
func WeeklyBetween(seed, from, until time.Time) ([]time.Time, error) {
	all, err := weeklyUntil(seed, until)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, len(all))
	for _, t := range all {
		if !t.Before(from) {
			out = append(out, t)
		}
	}
	return out, nil
}

func weeklyUntil(seed, until time.Time) ([]time.Time, error) {
	if until.Before(seed) {
		return []time.Time{}, nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: seed,
		Until:   until,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	return rule.All(), nil
}

// FirstFreeInstant ищет самое раннее время в дне day с шагом 15 минут
// в окне [08:00, 20:00), которое строго позже now и не пересекается
// ни с одним из существующих слотов длительностью duration
func FirstFreeInstant(day, now time.Time, existing []*domain.Slot, duration int) (time.Time, error) {
	start := domain.StartOfDay(day).Add(time.Duration(domain.SlotSearchStartHour) * time.Hour)
	end := domain.StartOfDay(day).Add(time.Duration(domain.SlotSearchEndHour) * time.Hour)

	for candidate := start; candidate.Before(end); candidate = candidate.Add(domain.SlotSearchStep) {
		if !candidate.After(now) {
			continue
		}
		if isOccupied(candidate, duration, existing) {
			continue
		}
		return candidate, nil
	}

	return time.Time{}, ErrNoSlotAvailable
}

func isOccupied(candidate time.Time, duration int, existing []*domain.Slot) bool {
	for _, s := range existing {
		if s.Overlaps(candidate, duration) {
			return true
		}
	}
	return false
}

// AtTimeOfDay переносит время суток source на дату date
func AtTimeOfDay(date, source time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, source.Hour(), source.Minute(), 0, 0, date.Location())
}

// WithHour заменяет час, сохраняя дату и минуты
func WithHour(t time.Time, hour int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, t.Minute(), 0, 0, t.Location())
}

// WithMinutes заменяет минуты, сохраняя дату и час
func WithMinutes(t time.Time, minute int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), minute, 0, 0, t.Location())
}

// ProjectTimeOfDay переносит время суток source на каждую из дат
func ProjectTimeOfDay(dates []time.Time, source time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		out = append(out, AtTimeOfDay(d, source))
	}
	return out
}
