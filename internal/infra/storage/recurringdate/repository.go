package recurringdate

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CalendarService/pkg/psqlbuilder"
)

const (
	table            = "slots_recurring_dates"
	returningColumns = "RETURNING id, employee_id, date, created_at"
)

// Repository репозиторий отметок "повторяющийся день"
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertMany создает отметки на указанные даты, уже существующие пропускаются
// Возвращает только вставленные строки
func (r *Repository) InsertMany(ctx context.Context, employeeID uuid.UUID, dates []time.Time) ([]*domain.RecurringDate, error) {
	if len(dates) == 0 {
		return []*domain.RecurringDate{}, nil
	}

	builder := psqlbuilder.Insert(table).Columns("id", "employee_id", "date")
	for _, d := range dates {
		builder = builder.Values(uuid.New().String(), employeeID.String(), dateString(d))
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (employee_id, date) DO NOTHING " + returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: InsertMany - build insert query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "InsertMany", query, args)
}

// DeleteDates удаляет отметки на указанные даты и возвращает удалённые строки
func (r *Repository) DeleteDates(ctx context.Context, employeeID uuid.UUID, dates []time.Time) ([]*domain.RecurringDate, error) {
	if len(dates) == 0 {
		return []*domain.RecurringDate{}, nil
	}

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"employee_id": employeeID.String()}).
		Where(squirrel.Eq{"date": dateStrings(dates)}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteDates - build delete query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "DeleteDates", query, args)
}

// ListByDates возвращает существующие отметки среди указанных дат
func (r *Repository) ListByDates(ctx context.Context, employeeID uuid.UUID, dates []time.Time) ([]*domain.RecurringDate, error) {
	if len(dates) == 0 {
		return []*domain.RecurringDate{}, nil
	}

	query, args, err := psqlbuilder.Select("id", "employee_id", "date", "created_at").
		From(table).
		Where(squirrel.Eq{"employee_id": employeeID.String()}).
		Where(squirrel.Eq{"date": dateStrings(dates)}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDates - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListByDates", query, args)
}

// ListInRange возвращает отметки всех сотрудников в [from, to]
func (r *Repository) ListInRange(ctx context.Context, from, to time.Time) ([]*domain.RecurringDate, error) {
	query, args, err := psqlbuilder.Select("id", "employee_id", "date", "created_at").
		From(table).
		Where(squirrel.GtOrEq{"date": dateString(from)}).
		Where(squirrel.LtOrEq{"date": dateString(to)}).
		OrderBy("employee_id ASC", "date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListInRange - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListInRange", query, args)
}

func (r *Repository) query(ctx context.Context, method, query string, args []interface{}) ([]*domain.RecurringDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	result := make([]*domain.RecurringDate, 0)
	for rows.Next() {
		var (
			rd        domain.RecurringDate
			createdAt sql.NullTime
		)
		if err := rows.Scan(&rd.ID, &rd.EmployeeID, &rd.Date, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		rd.Date = domain.StartOfDay(rd.Date.In(domain.Location))
		rd.CreatedAt = createdAt.Time
		result = append(result, &rd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return result, nil
}

func dateString(t time.Time) string {
	return t.Format(domain.DateFormat)
}

func dateStrings(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, dateString(d))
	}
	return out
}
