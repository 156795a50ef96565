package sessions

import (
	"context"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/service/sessions/models"
)

const productID = "-//SMC//CalendarService//EN"

// ExportWeek выгружает сессии недели в iCalendar: одно событие VEVENT на сессию,
// длительность берется из привязанного слота
func (s *Service) ExportWeek(ctx context.Context, req *models.ExportRequest) (string, error) {
	if req == nil || req.EmployeeID == uuid.Nil {
		return "", fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}
	if req.Start.IsZero() {
		return "", fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	week := req.Week()
	s.logger.Info("ExportWeek: employee=%s, week=%s", req.EmployeeID, week.Start.Format(domain.DateFormat))

	sessions, err := s.sessionRepo.ListViewsByRange(ctx, req.EmployeeID, week.Start, week.Until())
	if err != nil {
		s.logger.Error("ExportWeek: failed to list sessions: %v", err)
		return "", fmt.Errorf("%w: ExportWeek - list sessions: %v", ErrInternal, err)
	}

	slots, err := s.slotRepo.ListByRange(ctx, req.EmployeeID, week.Start, week.Until())
	if err != nil {
		s.logger.Error("ExportWeek: failed to list slots: %v", err)
		return "", fmt.Errorf("%w: ExportWeek - list slots: %v", ErrInternal, err)
	}

	durations := make(map[uuid.UUID]int, len(slots))
	for _, slot := range slots {
		durations[slot.ID] = slot.Duration
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(fmt.Sprintf("Sessions %s", week.Start.Format(domain.DateFormat)))

	stamp := s.timeProvider.Now()
	for _, session := range sessions {
		duration, ok := durations[session.SlotID]
		if !ok {
			duration = domain.DefaultSlotDuration
		}
		addSessionEvent(cal, session, duration, stamp)
	}

	s.logger.Info("ExportWeek: exported %d session(s) for employee=%s", len(sessions), req.EmployeeID)
	return cal.Serialize(), nil
}

func addSessionEvent(cal *ical.Calendar, session *domain.SessionView, duration int, stamp time.Time) {
	event := cal.AddEvent(session.ID.String())
	event.SetDtStampTime(stamp)
	event.SetStartAt(session.StartTime)
	event.SetEndAt(session.StartTime.Add(time.Duration(duration) * time.Minute))
	event.SetSummary(fmt.Sprintf("Session: %s", session.CustomerName))
	if session.Message != nil && *session.Message != "" {
		event.SetDescription(*session.Message)
	}
	if session.CustomerEmail != "" {
		event.AddAttendee(session.CustomerEmail)
	}
	if !session.CreatedAt.IsZero() {
		event.SetCreatedTime(session.CreatedAt)
	}
	if !session.UpdatedAt.IsZero() {
		event.SetModifiedAt(session.UpdatedAt)
	}
}
