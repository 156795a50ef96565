// Package weekcache хранит загруженные недельные окна слотов или сессий
// и обновляет их на месте после мутаций, без повторного запроса к серверу.
package weekcache

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const dateFormat = "2006-01-02"

// Op операция над окном
type Op int

const (
	OpAdd Op = iota
	OpReplace
	OpRemove
)

// String возвращает имя операции
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpReplace:
		return "replace"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Key окно кэша: сотрудник и неделя понедельник-воскресенье в формате YYYY-MM-DD
type Key struct {
	EmployeeID uuid.UUID
	Start      string
	End        string
}

// KeyFor окно недели, в которую попадает t (по UTC)
func KeyFor(employeeID uuid.UUID, t time.Time) Key {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return Key{
		EmployeeID: employeeID,
		Start:      monday.Format(dateFormat),
		End:        monday.AddDate(0, 0, 6).Format(dateFormat),
	}
}

// Window нормализованная проекция окна: значения по id и порядок id
type Window[T any] struct {
	ByID   map[string]T
	AllIDs []string
}

func (w *Window[T]) clone() Window[T] {
	out := Window[T]{
		ByID:   make(map[string]T, len(w.ByID)),
		AllIDs: make([]string, len(w.AllIDs)),
	}
	for id, v := range w.ByID {
		out.ByID[id] = v
	}
	copy(out.AllIDs, w.AllIDs)
	return out
}

// Store кэш окон. Нулевое значение непригодно, используйте New
type Store[T any] struct {
	mu      sync.RWMutex
	idOf    func(T) string
	windows map[Key]*Window[T]
}

// New создает пустой кэш; idOf возвращает идентификатор элемента
func New[T any](idOf func(T) string) *Store[T] {
	return &Store[T]{
		idOf:    idOf,
		windows: make(map[Key]*Window[T]),
	}
}

// Put заменяет окно целиком результатом загрузки
func (s *Store[T]) Put(key Key, items []T) {
	w := &Window[T]{
		ByID:   make(map[string]T, len(items)),
		AllIDs: make([]string, 0, len(items)),
	}
	for _, item := range items {
		id := s.idOf(item)
		if _, ok := w.ByID[id]; !ok {
			w.AllIDs = append(w.AllIDs, id)
		}
		w.ByID[id] = item
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[key] = w
}

// Get возвращает копию окна
func (s *Store[T]) Get(key Key) (Window[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.windows[key]
	if !ok {
		return Window[T]{}, false
	}
	return w.clone(), true
}

// Items элементы окна в порядке AllIDs
func (s *Store[T]) Items(key Key) ([]T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.windows[key]
	if !ok {
		return nil, false
	}
	out := make([]T, 0, len(w.AllIDs))
	for _, id := range w.AllIDs {
		out = append(out, w.ByID[id])
	}
	return out, true
}

// Has проверяет, загружено ли окно
func (s *Store[T]) Has(key Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.windows[key]
	return ok
}

// Keys загруженные окна сотрудника
func (s *Store[T]) Keys(employeeID uuid.UUID) []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Key
	for k := range s.windows {
		if k.EmployeeID == employeeID {
			out = append(out, k)
		}
	}
	return out
}

// Patch применяет операцию к загруженному окну.
// Для незагруженного окна ничего не делает и возвращает false.
// OpAdd существующего id заменяет значение, OpReplace отсутствующего id добавляет его,
// OpRemove отсутствующего id ничего не меняет.
func (s *Store[T]) Patch(key Key, op Op, id string, value T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok {
		return false
	}

	switch op {
	case OpAdd, OpReplace:
		if _, exists := w.ByID[id]; !exists {
			w.AllIDs = append(w.AllIDs, id)
		}
		w.ByID[id] = value
	case OpRemove:
		if _, exists := w.ByID[id]; !exists {
			return true
		}
		delete(w.ByID, id)
		for i, existing := range w.AllIDs {
			if existing == id {
				w.AllIDs = append(w.AllIDs[:i], w.AllIDs[i+1:]...)
				break
			}
		}
	default:
		return false
	}
	return true
}

// Invalidate сбрасывает окно; следующая загрузка заполнит его заново
func (s *Store[T]) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
}

// Reset сбрасывает все окна
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = make(map[Key]*Window[T])
}

// Len количество загруженных окон
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.windows)
}
