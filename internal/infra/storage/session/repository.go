package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CalendarService/pkg/psqlbuilder"
)

const (
	table = "sessions"

	pgUniqueViolation = "23505"
)

var columns = []string{
	"id",
	"slot_id",
	"employee_id",
	"customer_id",
	"start_time",
	"message",
	"created_at",
	"updated_at",
}

const returningColumns = "RETURNING id, slot_id, employee_id, customer_id, start_time, message, created_at, updated_at"

// Repository репозиторий сессий (бронирований)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает сессию
// Если ID задан (восстановление после отмены), он сохраняется
func (r *Repository) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "slot_id", "employee_id", "customer_id", "start_time", "message").
		Values(
			session.ID.String(),
			session.SlotID.String(),
			session.EmployeeID.String(),
			session.CustomerID.String(),
			session.StartTime,
			session.Message,
		).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("%w: Create: %v", ErrSessionConflict, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// GetByID получает сессию по ID (FOR UPDATE внутри транзакции)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id.String()})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	session, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %v", ErrScanRow, err)
	}

	return session, nil
}

// Rebind перепривязывает сессию к другому слоту и обновляет start_time
func (r *Repository) Rebind(ctx context.Context, id, slotID uuid.UUID, startTime time.Time) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("slot_id", slotID.String()).
		Set("start_time", startTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String()}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Rebind - build update query: %v", ErrBuildQuery, err)
	}

	session, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Rebind - execute update: %v", ErrExecQuery, err)
	}

	return session, nil
}

// SyncStartTimes пересчитывает денормализованный start_time сессий,
// привязанных к указанным слотам
func (r *Repository) SyncStartTimes(ctx context.Context, slotIDs []uuid.UUID) (int64, error) {
	if len(slotIDs) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]string, 0, len(slotIDs))
	for _, id := range slotIDs {
		ids = append(ids, id.String())
	}

	query, args, err := psqlbuilder.Update(table).
		Set("start_time", squirrel.Expr("(SELECT s.start_time FROM slots s WHERE s.id = sessions.slot_id)")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"slot_id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: SyncStartTimes - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: SyncStartTimes - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: SyncStartTimes - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

// Delete удаляет сессию и возвращает удалённую строку
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id.String()}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	session, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return session, nil
}

// ListViewsByRange получает сессии сотрудника с началом в [from, to)
// вместе с данными клиента
func (r *Repository) ListViewsByRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.SessionView, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"s.id",
		"s.slot_id",
		"s.employee_id",
		"s.customer_id",
		"s.start_time",
		"s.message",
		"s.created_at",
		"s.updated_at",
		"c.name",
		"c.email",
		"c.phone",
	).
		From("sessions s").
		Join("customers c ON c.id = s.customer_id").
		Where(squirrel.Eq{"s.employee_id": employeeID.String()}).
		Where(squirrel.GtOrEq{"s.start_time": from}).
		Where(squirrel.Lt{"s.start_time": to}).
		OrderBy("s.start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListViewsByRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListViewsByRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	views := make([]*domain.SessionView, 0)
	for rows.Next() {
		var (
			view                 domain.SessionView
			createdAt, updatedAt sql.NullTime
		)
		err := rows.Scan(
			&view.ID,
			&view.SlotID,
			&view.EmployeeID,
			&view.CustomerID,
			&view.StartTime,
			&view.Message,
			&createdAt,
			&updatedAt,
			&view.CustomerName,
			&view.CustomerEmail,
			&view.CustomerPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListViewsByRange - scan row: %v", ErrScanRow, err)
		}
		view.StartTime = view.StartTime.In(domain.Location)
		view.CreatedAt = createdAt.Time
		view.UpdatedAt = updatedAt.Time
		views = append(views, &view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListViewsByRange - rows error: %v", ErrScanRow, err)
	}

	return views, nil
}

// GetCustomer получает клиента по ID
func (r *Repository) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "email", "phone").
		From("customers").
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCustomer - build select query: %v", ErrBuildQuery, err)
	}

	var customer domain.Customer
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCustomer - scan customer: %v", ErrScanRow, err)
	}

	return &customer, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		session              domain.Session
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&session.ID,
		&session.SlotID,
		&session.EmployeeID,
		&session.CustomerID,
		&session.StartTime,
		&session.Message,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.StartTime = session.StartTime.In(domain.Location)
	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time

	return &session, nil
}
