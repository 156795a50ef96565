package calendarclient

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CalendarService/pkg/calendarclient/models"
)

type (
	Slot    = models.Slot
	Session = models.Session
)

// SlotsResult ответ add-slot, add-recurring-slot и set-slot-recurrence
type SlotsResult struct {
	Message string  `json:"-"`
	Seed    *Slot   `json:"seed"`
	Slots   []*Slot `json:"slots"`
	// CreatedIDs слоты, вставленные операцией
	CreatedIDs []string `json:"createdIds"`
	// AdoptedIDs существующие слоты, ставшие повторяющимися из-за операции
	AdoptedIDs []string `json:"adoptedIds"`
}

func (r *SlotsResult) validate() error {
	if err := r.Seed.Validate(); err != nil {
		return err
	}
	if err := models.ValidateSlots(r.Slots); err != nil {
		return err
	}
	if err := models.ValidateIDs("createdIds", r.CreatedIDs); err != nil {
		return err
	}
	if err := models.ValidateIDs("adoptedIds", r.AdoptedIDs); err != nil {
		return err
	}

	known := make(map[string]bool, len(r.Slots)+1)
	known[r.Seed.ID] = true
	for _, s := range r.Slots {
		known[s.ID] = true
	}
	for _, id := range append(append([]string{}, r.CreatedIDs...), r.AdoptedIDs...) {
		if !known[id] {
			return fmt.Errorf("%w: slot %s is not in slots", models.ErrInvalidShape, id)
		}
	}
	return nil
}

// RecurrenceRemoval ответ disable-slot-recurrence, undo-add-recurring-slot и revert-slot-series
type RecurrenceRemoval struct {
	Message  string  `json:"-"`
	Seed     *Slot   `json:"seed"` // nil, если seed удален
	Deleted  []*Slot `json:"deleted"`
	Detached []*Slot `json:"detached"`
	// UnflaggedIDs слоты, с которых операция сняла флаг повторения
	UnflaggedIDs []string `json:"unflaggedIds"`
}

func (r *RecurrenceRemoval) validate() error {
	if r.Seed != nil {
		if err := r.Seed.Validate(); err != nil {
			return err
		}
	}
	if err := models.ValidateSlots(r.Deleted); err != nil {
		return err
	}
	if err := models.ValidateSlots(r.Detached); err != nil {
		return err
	}
	return models.ValidateIDs("unflaggedIds", r.UnflaggedIDs)
}

// SeriesRestoreResult ответ restore-slot-series
type SeriesRestoreResult struct {
	Message string  `json:"-"`
	Slots   []*Slot `json:"slots"`
	Flagged []*Slot `json:"flagged"`
}

func (r *SeriesRestoreResult) validate() error {
	if err := models.ValidateSlots(r.Slots); err != nil {
		return err
	}
	return models.ValidateSlots(r.Flagged)
}

// SlotTimeResult ответ update-*-hour и update-*-minutes
type SlotTimeResult struct {
	Message         string  `json:"-"`
	PreviousHour    int     `json:"previousHour"`
	PreviousMinutes int     `json:"previousMinutes"`
	Slots           []*Slot `json:"slots"`
	Skipped         []*Slot `json:"skipped"`
}

func (r *SlotTimeResult) validate() error {
	if r.PreviousHour < 0 || r.PreviousHour > 23 {
		return fmt.Errorf("%w: previousHour %d", models.ErrInvalidShape, r.PreviousHour)
	}
	switch r.PreviousMinutes {
	case 0, 15, 30, 45:
	default:
		return fmt.Errorf("%w: previousMinutes %d", models.ErrInvalidShape, r.PreviousMinutes)
	}
	if err := models.ValidateSlots(r.Slots); err != nil {
		return err
	}
	return models.ValidateSlots(r.Skipped)
}

// RestoreResult ответ add-slots
type RestoreResult struct {
	Message string  `json:"-"`
	Slots   []*Slot `json:"slots"`
	Copies  []*Slot `json:"copies"`
}

func (r *RestoreResult) validate() error {
	if err := models.ValidateSlots(r.Slots); err != nil {
		return err
	}
	return models.ValidateSlots(r.Copies)
}

// DeleteResult ответ delete-slots
type DeleteResult struct {
	Message string  `json:"-"`
	Slots   []*Slot `json:"slots"`
	Removed []*Slot `json:"removed"`
}

func (r *DeleteResult) validate() error {
	if err := models.ValidateSlots(r.Slots); err != nil {
		return err
	}
	return models.ValidateSlots(r.Removed)
}

// DayResult ответ duplicate-day, set-recurring-day и disable-recurring-day
type DayResult struct {
	Message string   `json:"-"`
	Dates   []string `json:"dates"`
	Slots   []*Slot  `json:"slots"`
}

func (r *DayResult) validate() error {
	for i, d := range r.Dates {
		if err := models.ValidateDate(fmt.Sprintf("dates[%d]", i), d); err != nil {
			return err
		}
	}
	return models.ValidateSlots(r.Slots)
}

// SessionResult ответ book-session, delete-session и undo-delete-session
type SessionResult struct {
	Message string   `json:"-"`
	Session *Session `json:"session"`
	Slot    *Slot    `json:"slot"`
}

func (r *SessionResult) validate() error {
	if err := r.Session.Validate(); err != nil {
		return err
	}
	return r.Slot.Validate()
}

// RescheduleResult ответ update-session
type RescheduleResult struct {
	Message           string   `json:"-"`
	Session           *Session `json:"session"`
	PreviousSlotID    string   `json:"previousSlotId"`
	PreviousStartTime string   `json:"previousStartTime"`
	Released          *Slot    `json:"released"`
	Booked            *Slot    `json:"booked"`
}

func (r *RescheduleResult) validate() error {
	if err := r.Session.Validate(); err != nil {
		return err
	}
	if err := r.Released.Validate(); err != nil {
		return err
	}
	if err := r.Booked.Validate(); err != nil {
		return err
	}
	if _, err := time.Parse(models.TimestampFormat, r.PreviousStartTime); err != nil {
		return fmt.Errorf("%w: previousStartTime %q", models.ErrInvalidShape, r.PreviousStartTime)
	}
	if r.Released.ID != r.PreviousSlotID {
		return fmt.Errorf("%w: released slot %s is not previousSlotId %s", models.ErrInvalidShape, r.Released.ID, r.PreviousSlotID)
	}
	if r.Booked.ID != r.Session.SlotID {
		return fmt.Errorf("%w: booked slot %s is not session slot %s", models.ErrInvalidShape, r.Booked.ID, r.Session.SlotID)
	}
	return nil
}

// PreviousStart время прежнего слота
func (r *RescheduleResult) PreviousStart() time.Time {
	t, _ := time.Parse(models.TimestampFormat, r.PreviousStartTime)
	return t.UTC()
}

type weekSlots []*Slot

func (r *weekSlots) validate() error {
	return models.ValidateSlots(*r)
}

type weekSessions []*Session

func (r *weekSessions) validate() error {
	return models.ValidateSessions(*r)
}
