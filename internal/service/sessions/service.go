package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/internal/service/sessions/models"
)

// Service сервис чтения сессий сотрудника
type Service struct {
	sessionRepo  SessionRepository
	slotRepo     SlotRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса сессий
func NewService(
	sessionRepo SessionRepository,
	slotRepo SlotRepository,
	logger Logger,
) *Service {
	return &Service{
		sessionRepo:  sessionRepo,
		slotRepo:     slotRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetWeekSessions получает сессии сотрудника за окно вместе с данными клиентов
func (s *Service) GetWeekSessions(ctx context.Context, req *models.WeekRequest) ([]*domain.SessionView, error) {
	if err := validateWeekRequest(req); err != nil {
		s.logger.Warn("GetWeekSessions: validation failed: %v", err)
		return nil, err
	}

	s.logger.Info("GetWeekSessions: employee=%s, window=%s..%s",
		req.EmployeeID, req.Start.Format(domain.DateFormat), req.End.Format(domain.DateFormat))

	sessions, err := s.sessionRepo.ListViewsByRange(ctx, req.EmployeeID, req.From(), req.Until())
	if err != nil {
		s.logger.Error("GetWeekSessions: repository error for employee=%s: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: GetWeekSessions - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetWeekSessions: fetched %d session(s) for employee=%s", len(sessions), req.EmployeeID)
	return sessions, nil
}

func validateWeekRequest(req *models.WeekRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.EmployeeID == uuid.Nil {
		return fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	span := req.Until().Sub(req.From())
	if span <= 0 {
		return fmt.Errorf("%w: end is before start", ErrInvalidTimeRange)
	}
	if span > time.Duration(models.MaxWeekSpan)*24*time.Hour {
		return fmt.Errorf("%w: window is longer than %d days", ErrInvalidTimeRange, models.MaxWeekSpan)
	}
	return nil
}
