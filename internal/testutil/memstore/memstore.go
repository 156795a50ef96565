// Package memstore хранилище календаря в памяти для unit-тестов use case'ов.
// Семантика методов повторяет репозитории Postgres, включая политики
// конфликтов и запрет удаления забронированных слотов. TxManager делает
// снимок состояния и откатывает его при ошибке.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	recurringDateRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/recurringdate"
	sessionRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/session"
	slotRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/slot"
)

// ErrInjected ошибка, которую возвращает хранилище после FailOn
var ErrInjected = errors.New("memstore: injected failure")

// Store общее состояние для всех репозиториев
type Store struct {
	mu        sync.Mutex
	slots     map[uuid.UUID]domain.Slot
	sessions  map[uuid.UUID]domain.Session
	customers map[uuid.UUID]domain.Customer
	dates     map[uuid.UUID]domain.RecurringDate
	failOn    map[string]error
	now       time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		slots:     make(map[uuid.UUID]domain.Slot),
		sessions:  make(map[uuid.UUID]domain.Session),
		customers: make(map[uuid.UUID]domain.Customer),
		dates:     make(map[uuid.UUID]domain.RecurringDate),
		failOn:    make(map[string]error),
		now:       time.Date(2025, 1, 1, 0, 0, 0, 0, domain.Location),
	}
}

// FailOn заставляет метод method вернуть err (или ErrInjected)
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	s.failOn[method] = err
}

func (s *Store) fail(method string) error {
	if err, ok := s.failOn[method]; ok {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// Slots репозиторий слотов
func (s *Store) Slots() *Slots { return &Slots{s: s} }

// Sessions репозиторий сессий
func (s *Store) Sessions() *Sessions { return &Sessions{s: s} }

// Dates репозиторий повторяющихся дней
func (s *Store) Dates() *Dates { return &Dates{s: s} }

// TxManager менеджер транзакций со снимком состояния
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

// SeedSlot кладёт слот напрямую, без проверок
func (s *Store) SeedSlot(slot domain.Slot) *domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	if slot.Type == "" {
		slot.Type = domain.SlotAvailable
	}
	if slot.Duration == 0 {
		slot.Duration = domain.DefaultSlotDuration
	}
	s.slots[slot.ID] = slot
	return &slot
}

// SeedCustomer кладёт клиента
func (s *Store) SeedCustomer(c domain.Customer) *domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.customers[c.ID] = c
	return &c
}

// SeedSession кладёт сессию и помечает слот забронированным
func (s *Store) SeedSession(session domain.Session) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if slot, ok := s.slots[session.SlotID]; ok {
		slot.Type = domain.SlotBooked
		s.slots[slot.ID] = slot
		session.StartTime = slot.StartTime
		session.EmployeeID = slot.EmployeeID
	}
	s.sessions[session.ID] = session
	return &session
}

// AllSlots все слоты, отсортированные по времени
func (s *Store) AllSlots() []*domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Slot, 0, len(s.slots))
	for _, slot := range s.slots {
		slot := slot
		out = append(out, &slot)
	}
	sortSlots(out)
	return out
}

// SlotAt слот сотрудника в момент t
func (s *Store) SlotAt(employeeID uuid.UUID, t time.Time) (*domain.Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range s.slots {
		if slot.EmployeeID == employeeID && slot.StartTime.Equal(t) {
			slot := slot
			return &slot, true
		}
	}
	return nil, false
}

// Slot слот по ID
func (s *Store) Slot(id uuid.UUID) (*domain.Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	return &slot, ok
}

// Session сессия по ID
func (s *Store) Session(id uuid.UUID) (*domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	return &session, ok
}

// SessionCount число сессий
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RecurringDates все повторяющиеся дни сотрудника по возрастанию
func (s *Store) RecurringDates(employeeID uuid.UUID) []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Time
	for _, d := range s.dates {
		if d.EmployeeID == employeeID {
			out = append(out, d.Date)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

type snapshot struct {
	slots    map[uuid.UUID]domain.Slot
	sessions map[uuid.UUID]domain.Session
	dates    map[uuid.UUID]domain.RecurringDate
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		slots:    make(map[uuid.UUID]domain.Slot, len(s.slots)),
		sessions: make(map[uuid.UUID]domain.Session, len(s.sessions)),
		dates:    make(map[uuid.UUID]domain.RecurringDate, len(s.dates)),
	}
	for k, v := range s.slots {
		snap.slots[k] = v
	}
	for k, v := range s.sessions {
		snap.sessions[k] = v
	}
	for k, v := range s.dates {
		snap.dates[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.slots = snap.slots
	s.sessions = snap.sessions
	s.dates = snap.dates
}

// TxManager выполняет fn и откатывает состояние при ошибке
type TxManager struct {
	s     *Store
	Calls int
}

// Do выполняет fn "в транзакции"
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.DoSerializable(ctx, fn)
}

// DoSerializable выполняет fn "в транзакции"
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++

	m.s.mu.Lock()
	snap := m.s.snapshot()
	m.s.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.s.mu.Lock()
		m.s.restore(snap)
		m.s.mu.Unlock()
		return err
	}
	return nil
}

// Slots in-memory реализация slot.Repository
type Slots struct{ s *Store }

func (r *Slots) GetByID(_ context.Context, id uuid.UUID) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("GetByID"); err != nil {
		return nil, err
	}
	slot, ok := r.s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return &slot, nil
}

func (r *Slots) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Slot
	for _, id := range ids {
		if slot, ok := r.s.slots[id]; ok {
			slot := slot
			out = append(out, &slot)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *Slots) ListByRange(_ context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("ListByRange"); err != nil {
		return nil, err
	}
	return r.filter(func(slot domain.Slot) bool {
		return slot.EmployeeID == employeeID && !slot.StartTime.Before(from) && slot.StartTime.Before(to)
	}), nil
}

func (r *Slots) ListAtInstants(_ context.Context, employeeID uuid.UUID, instants []time.Time) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(slot domain.Slot) bool {
		return slot.EmployeeID == employeeID && containsInstant(instants, slot.StartTime)
	}), nil
}

func (r *Slots) ListRecurringInRange(_ context.Context, from, to time.Time) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(slot domain.Slot) bool {
		return slot.Recurring && !slot.StartTime.Before(from) && slot.StartTime.Before(to)
	}), nil
}

func (r *Slots) Insert(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	created, err := r.InsertMany(ctx, []*domain.Slot{slot}, domain.ConflictFail)
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (r *Slots) InsertMany(_ context.Context, slots []*domain.Slot, policy domain.ConflictPolicy) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("InsertMany"); err != nil {
		return nil, err
	}

	if policy == domain.ConflictFail {
		for _, in := range slots {
			if _, ok := r.at(in.EmployeeID, in.StartTime); ok {
				return nil, fmt.Errorf("%w: InsertMany", slotRepo.ErrSlotConflict)
			}
		}
	}

	out := make([]*domain.Slot, 0, len(slots))
	for _, in := range slots {
		if existing, ok := r.at(in.EmployeeID, in.StartTime); ok {
			switch policy {
			case domain.ConflictAdopt:
				existing.Recurring = true
				existing.UpdatedAt = r.s.now
				r.s.slots[existing.ID] = existing
				adopted := existing
				out = append(out, &adopted)
			case domain.ConflictFail:
				return nil, fmt.Errorf("%w: InsertMany", slotRepo.ErrSlotConflict)
			}
			continue
		}

		if in.ID == uuid.Nil {
			in.ID = uuid.New()
		}
		row := *in
		row.CreatedAt = r.s.now
		row.UpdatedAt = r.s.now
		r.s.slots[row.ID] = row
		out = append(out, &row)
	}
	return out, nil
}

func (r *Slots) UpdateStartTime(_ context.Context, id uuid.UUID, startTime time.Time) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("UpdateStartTime"); err != nil {
		return nil, err
	}
	slot, ok := r.s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	if other, taken := r.at(slot.EmployeeID, startTime); taken && other.ID != id {
		return nil, fmt.Errorf("%w: UpdateStartTime", slotRepo.ErrSlotConflict)
	}
	slot.StartTime = startTime
	slot.UpdatedAt = r.s.now
	r.s.slots[id] = slot
	return &slot, nil
}

func (r *Slots) SetRecurring(_ context.Context, ids []uuid.UUID, recurring bool) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Slot
	for _, id := range ids {
		slot, ok := r.s.slots[id]
		if !ok {
			continue
		}
		slot.Recurring = recurring
		r.s.slots[id] = slot
		updated := slot
		out = append(out, &updated)
	}
	sortSlots(out)
	return out, nil
}

func (r *Slots) SetType(_ context.Context, id uuid.UUID, slotType domain.SlotType) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("SetType"); err != nil {
		return nil, err
	}
	slot, ok := r.s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	slot.Type = slotType
	r.s.slots[id] = slot
	return &slot, nil
}

func (r *Slots) DeleteByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("DeleteByIDs"); err != nil {
		return nil, err
	}
	var out []*domain.Slot
	for _, id := range ids {
		slot, ok := r.s.slots[id]
		if !ok || slot.IsBooked() {
			continue
		}
		delete(r.s.slots, id)
		deleted := slot
		out = append(out, &deleted)
	}
	sortSlots(out)
	return out, nil
}

func (r *Slots) DeleteAtInstants(_ context.Context, employeeID uuid.UUID, instants []time.Time, except []uuid.UUID) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("DeleteAtInstants"); err != nil {
		return nil, err
	}
	skip := make(map[uuid.UUID]bool, len(except))
	for _, id := range except {
		skip[id] = true
	}

	var out []*domain.Slot
	for id, slot := range r.s.slots {
		if slot.EmployeeID != employeeID || slot.IsBooked() || skip[id] || !containsInstant(instants, slot.StartTime) {
			continue
		}
		delete(r.s.slots, id)
		deleted := slot
		out = append(out, &deleted)
	}
	sortSlots(out)
	return out, nil
}

func (r *Slots) at(employeeID uuid.UUID, t time.Time) (domain.Slot, bool) {
	for _, slot := range r.s.slots {
		if slot.EmployeeID == employeeID && slot.StartTime.Equal(t) {
			return slot, true
		}
	}
	return domain.Slot{}, false
}

func (r *Slots) filter(keep func(domain.Slot) bool) []*domain.Slot {
	out := []*domain.Slot{}
	for _, slot := range r.s.slots {
		if keep(slot) {
			slot := slot
			out = append(out, &slot)
		}
	}
	sortSlots(out)
	return out
}

// Sessions in-memory реализация session.Repository
type Sessions struct{ s *Store }

func (r *Sessions) Create(_ context.Context, session *domain.Session) (*domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("CreateSession"); err != nil {
		return nil, err
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if _, exists := r.s.sessions[session.ID]; exists {
		return nil, fmt.Errorf("%w: Create", sessionRepo.ErrSessionConflict)
	}
	for _, other := range r.s.sessions {
		if other.SlotID == session.SlotID {
			return nil, fmt.Errorf("%w: Create", sessionRepo.ErrSessionConflict)
		}
	}
	row := *session
	row.CreatedAt = r.s.now
	row.UpdatedAt = r.s.now
	r.s.sessions[row.ID] = row
	return &row, nil
}

func (r *Sessions) GetByID(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	return &session, nil
}

func (r *Sessions) Rebind(_ context.Context, id, slotID uuid.UUID, startTime time.Time) (*domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Rebind"); err != nil {
		return nil, err
	}
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	session.SlotID = slotID
	session.StartTime = startTime
	r.s.sessions[id] = session
	return &session, nil
}

func (r *Sessions) SyncStartTimes(_ context.Context, slotIDs []uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(slotIDs))
	for _, id := range slotIDs {
		wanted[id] = true
	}
	var n int64
	for id, session := range r.s.sessions {
		if !wanted[session.SlotID] {
			continue
		}
		session.StartTime = r.s.slots[session.SlotID].StartTime
		r.s.sessions[id] = session
		n++
	}
	return n, nil
}

func (r *Sessions) Delete(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	delete(r.s.sessions, id)
	return &session, nil
}

func (r *Sessions) ListViewsByRange(_ context.Context, employeeID uuid.UUID, from, to time.Time) ([]*domain.SessionView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.SessionView{}
	for _, session := range r.s.sessions {
		if session.EmployeeID != employeeID || session.StartTime.Before(from) || !session.StartTime.Before(to) {
			continue
		}
		c := r.s.customers[session.CustomerID]
		out = append(out, &domain.SessionView{
			Session:       session,
			CustomerName:  c.Name,
			CustomerEmail: c.Email,
			CustomerPhone: c.Phone,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *Sessions) GetCustomer(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, sessionRepo.ErrCustomerNotFound
	}
	return &c, nil
}

// Dates in-memory реализация recurringdate.Repository
type Dates struct{ s *Store }

func (r *Dates) InsertMany(_ context.Context, employeeID uuid.UUID, dates []time.Time) ([]*domain.RecurringDate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("InsertDates"); err != nil {
		return nil, fmt.Errorf("%w: %v", recurringDateRepo.ErrExecQuery, err)
	}
	var out []*domain.RecurringDate
	for _, d := range dates {
		day := domain.StartOfDay(d)
		if r.has(employeeID, day) {
			continue
		}
		row := domain.RecurringDate{ID: uuid.New(), EmployeeID: employeeID, Date: day, CreatedAt: r.s.now}
		r.s.dates[row.ID] = row
		out = append(out, &row)
	}
	return out, nil
}

func (r *Dates) DeleteDates(_ context.Context, employeeID uuid.UUID, dates []time.Time) ([]*domain.RecurringDate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.RecurringDate
	for id, row := range r.s.dates {
		if row.EmployeeID == employeeID && containsDay(dates, row.Date) {
			delete(r.s.dates, id)
			deleted := row
			out = append(out, &deleted)
		}
	}
	sortDates(out)
	return out, nil
}

func (r *Dates) ListByDates(_ context.Context, employeeID uuid.UUID, dates []time.Time) ([]*domain.RecurringDate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.RecurringDate{}
	for _, row := range r.s.dates {
		if row.EmployeeID == employeeID && containsDay(dates, row.Date) {
			row := row
			out = append(out, &row)
		}
	}
	sortDates(out)
	return out, nil
}

func (r *Dates) ListInRange(_ context.Context, from, to time.Time) ([]*domain.RecurringDate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.RecurringDate{}
	for _, row := range r.s.dates {
		if !row.Date.Before(domain.StartOfDay(from)) && !row.Date.After(domain.StartOfDay(to)) {
			row := row
			out = append(out, &row)
		}
	}
	sortDates(out)
	return out, nil
}

func (r *Dates) has(employeeID uuid.UUID, day time.Time) bool {
	for _, row := range r.s.dates {
		if row.EmployeeID == employeeID && row.Date.Equal(day) {
			return true
		}
	}
	return false
}

func sortSlots(slots []*domain.Slot) {
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime.Before(slots[j].StartTime) })
}

func sortDates(dates []*domain.RecurringDate) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Date.Before(dates[j].Date) })
}

func containsInstant(instants []time.Time, t time.Time) bool {
	for _, i := range instants {
		if i.Equal(t) {
			return true
		}
	}
	return false
}

func containsDay(dates []time.Time, day time.Time) bool {
	for _, d := range dates {
		if domain.IsSameDay(d, day) {
			return true
		}
	}
	return false
}
