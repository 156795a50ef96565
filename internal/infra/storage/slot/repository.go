package slot

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
	table = "slots"

	// pgUniqueViolation код ошибки Postgres для нарушения уникального индекса
	pgUniqueViolation = "23505"
)

var columns = []string{
	"id",
	"employee_id",
	"type",
	"start_time",
	"duration",
	"recurring",
	"created_at",
	"updated_at",
}

const returningColumns = "RETURNING id, employee_id, type, start_time, duration, recurring, created_at, updated_at"

// Repository репозиторий слотов
// Все методы берут транзакцию из контекста, если она есть
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
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

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// GetByIDs получает слоты по списку ID (отсутствующие ID пропускаются)
func (r *Repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Slot, error) {
	if len(ids) == 0 {
		return []*domain.Slot{}, nil
	}

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": idStrings(ids)}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "GetByIDs", query, args)
}

// ListByRange получает слоты сотрудника с началом в [from, to)
// Внутри транзакции строки блокируются, чтобы поиск свободного времени
// и последующая вставка видели согласованное состояние дня
func (r *Repository) ListByRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.Slot, error) {
	builder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"employee_id": employeeID.String()}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Lt{"start_time": to}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRange - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListByRange", query, args)
}

// ListAtInstants получает слоты сотрудника, начинающиеся ровно в указанные моменты
func (r *Repository) ListAtInstants(ctx context.Context, employeeID uuid.UUID, instants []time.Time) ([]*domain.Slot, error) {
	if len(instants) == 0 {
		return []*domain.Slot{}, nil
	}

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"employee_id": employeeID.String()}).
		Where(squirrel.Eq{"start_time": instants}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAtInstants - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListAtInstants", query, args)
}

// ListRecurringInRange получает повторяющиеся слоты всех сотрудников в [from, to)
// Используется годовым переносом серий
func (r *Repository) ListRecurringInRange(ctx context.Context, from, to time.Time) ([]*domain.Slot, error) {
	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"recurring": true}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Lt{"start_time": to}).
		OrderBy("employee_id ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRecurringInRange - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "ListRecurringInRange", query, args)
}

// Insert создает один слот
// Занятое время возвращает ErrSlotConflict
func (r *Repository) Insert(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	created, err := r.InsertMany(ctx, []*domain.Slot{slot}, domain.ConflictFail)
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// InsertMany вставляет слоты одним запросом с указанной политикой конфликтов:
//   - ConflictFail: нарушение уникальности возвращает ErrSlotConflict, ничего не вставляется
//   - ConflictSkip: занятые моменты пропускаются, возвращаются только вставленные строки
//   - ConflictAdopt: существующий слот помечается recurring = true и возвращается вместе со вставленными
//
// Если у слота пустой ID, он генерируется.
func (r *Repository) InsertMany(ctx context.Context, slots []*domain.Slot, policy domain.ConflictPolicy) ([]*domain.Slot, error) {
	if len(slots) == 0 {
		return []*domain.Slot{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert(table).
		Columns("id", "employee_id", "type", "start_time", "duration", "recurring")

	for _, s := range slots {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		builder = builder.Values(
			s.ID.String(),
			s.EmployeeID.String(),
			string(s.Type),
			s.StartTime,
			s.Duration,
			s.Recurring,
		)
	}

	switch policy {
	case domain.ConflictSkip:
		builder = builder.Suffix("ON CONFLICT (employee_id, start_time) DO NOTHING " + returningColumns)
	case domain.ConflictAdopt:
		builder = builder.Suffix("ON CONFLICT (employee_id, start_time) DO UPDATE SET recurring = TRUE, updated_at = NOW() " + returningColumns)
	default:
		builder = builder.Suffix(returningColumns)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: InsertMany - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapWriteError("InsertMany", err)
	}
	defer rows.Close()

	created, err := scanSlots(rows)
	if err != nil {
		return nil, mapWriteError("InsertMany", err)
	}
	return created, nil
}

// UpdateStartTime переносит слот на новый момент времени
func (r *Repository) UpdateStartTime(ctx context.Context, id uuid.UUID, startTime time.Time) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("start_time", startTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String()}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStartTime - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, mapWriteError("UpdateStartTime", err)
	}

	return slot, nil
}

// SetRecurring выставляет флаг recurring для списка слотов
func (r *Repository) SetRecurring(ctx context.Context, ids []uuid.UUID, recurring bool) ([]*domain.Slot, error) {
	if len(ids) == 0 {
		return []*domain.Slot{}, nil
	}

	query, args, err := psqlbuilder.Update(table).
		Set("recurring", recurring).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": idStrings(ids)}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SetRecurring - build update query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "SetRecurring", query, args)
}

// SetType меняет тип слота
func (r *Repository) SetType(ctx context.Context, id uuid.UUID, slotType domain.SlotType) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("type", string(slotType)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id.String()}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SetType - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: SetType - execute update: %v", ErrExecQuery, err)
	}

	return slot, nil
}

// DeleteByIDs удаляет слоты по ID и возвращает удалённые строки
// Забронированные слоты не удаляются: на них ссылается сессия
func (r *Repository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Slot, error) {
	if len(ids) == 0 {
		return []*domain.Slot{}, nil
	}

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": idStrings(ids)}).
		Where(squirrel.NotEq{"type": string(domain.SlotBooked)}).
		Suffix(returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteByIDs - build delete query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "DeleteByIDs", query, args)
}

// DeleteAtInstants удаляет незабронированные слоты сотрудника в указанные моменты,
// кроме слотов из except. Возвращает удалённые строки.
func (r *Repository) DeleteAtInstants(ctx context.Context, employeeID uuid.UUID, instants []time.Time, except []uuid.UUID) ([]*domain.Slot, error) {
	if len(instants) == 0 {
		return []*domain.Slot{}, nil
	}

	builder := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"employee_id": employeeID.String()}).
		Where(squirrel.Eq{"start_time": instants}).
		Where(squirrel.NotEq{"type": string(domain.SlotBooked)})

	if len(except) > 0 {
		builder = builder.Where(squirrel.NotEq{"id": idStrings(except)})
	}

	query, args, err := builder.Suffix(returningColumns).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteAtInstants - build delete query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "DeleteAtInstants", query, args)
}

func (r *Repository) query(ctx context.Context, method, query string, args []interface{}) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	slots, err := scanSlots(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - %v", ErrScanRow, method, err)
	}
	return slots, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var (
		slot                 domain.Slot
		slotType             string
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&slot.ID,
		&slot.EmployeeID,
		&slotType,
		&slot.StartTime,
		&slot.Duration,
		&slot.Recurring,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.Type = domain.SlotType(slotType)
	slot.StartTime = slot.StartTime.In(domain.Location)
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return slots, nil
}

// mapWriteError переводит нарушение уникальности в ErrSlotConflict
func mapWriteError(method string, err error) error {
	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %v", ErrSlotConflict, method, err)
	}
	return fmt.Errorf("%w: %s - execute write: %v", ErrExecQuery, method, err)
}

// IsUniqueViolation сообщает, что ошибка - нарушение уникального индекса Postgres
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
