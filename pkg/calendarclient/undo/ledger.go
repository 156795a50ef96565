// Package undo хранит короткоживущие записи для отмены мутаций календаря.
// Запись живет ttl (по умолчанию 5 секунд); таймер истечения и Take
// захватывают запись под одним мьютексом, поэтому срабатывает только один из них.
package undo

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL время жизни записи
const DefaultTTL = 5 * time.Second

var (
	// ErrClosed журнал закрыт
	ErrClosed = errors.New("undo: ledger is closed")

	// ErrEmptyMessage запись без сообщения
	ErrEmptyMessage = errors.New("undo: message is required")
)

// Entry запись журнала
type Entry struct {
	ID        string
	Message   string
	Action    Descriptor
	ExpiresAt time.Time
}

// Timer останавливаемый таймер
type Timer interface {
	Stop() bool
}

// Clock источник времени и таймеров
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock системные часы
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type slot struct {
	entry Entry
	timer Timer
}

// Ledger стек записей отмены
type Ledger struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   Clock
	entries []*slot
	closed  bool
	expired func(Entry)
}

// New создает журнал. ttl <= 0 означает DefaultTTL, clock nil означает RealClock
func New(ttl time.Duration, clock Clock) *Ledger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Ledger{ttl: ttl, clock: clock}
}

// OnExpire задает обработчик записей, удаленных по истечении срока. Вызывается вне мьютекса
func (l *Ledger) OnExpire(f func(Entry)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expired = f
}

// Push кладет запись на вершину стека и запускает ее таймер
func (l *Ledger) Push(message string, action Descriptor) (Entry, error) {
	if message == "" {
		return Entry{}, ErrEmptyMessage
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return Entry{}, ErrClosed
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Message:   message,
		Action:    action,
		ExpiresAt: l.clock.Now().Add(l.ttl),
	}
	s := &slot{entry: entry}
	l.entries = append(l.entries, s)
	// колбэк ждет мьютекс, поэтому timer присвоен раньше, чем он выполнится
	s.timer = l.clock.AfterFunc(l.ttl, func() { l.expire(entry.ID) })

	return entry, nil
}

// Peek самая свежая живая запись без удаления
func (l *Ledger) Peek() (entry Entry, ok bool) {
	l.withLive(func() {
		if n := len(l.entries); n > 0 {
			entry, ok = l.entries[n-1].entry, true
		}
	})
	return entry, ok
}

// Pop забирает самую свежую живую запись
func (l *Ledger) Pop() (entry Entry, ok bool) {
	l.withLive(func() {
		if n := len(l.entries); n > 0 {
			entry, ok = l.claimLocked(n-1), true
		}
	})
	return entry, ok
}

// Take забирает запись по id. false, если она уже истекла или забрана
func (l *Ledger) Take(id string) (entry Entry, ok bool) {
	l.withLive(func() {
		for i, s := range l.entries {
			if s.entry.ID == id {
				entry, ok = l.claimLocked(i), true
				return
			}
		}
	})
	return entry, ok
}

// Len количество живых записей
func (l *Ledger) Len() (n int) {
	l.withLive(func() { n = len(l.entries) })
	return n
}

// Close останавливает таймеры и очищает журнал
func (l *Ledger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.entries {
		if s.timer != nil {
			s.timer.Stop()
		}
	}
	l.entries = nil
	l.closed = true
}

// withLive выполняет fn под мьютексом после удаления просроченных записей.
// Удаленные записи передаются обработчику истечения уже вне мьютекса.
func (l *Ledger) withLive(fn func()) {
	l.mu.Lock()
	dropped := l.dropDueLocked()
	onExpire := l.expired
	fn()
	l.mu.Unlock()

	if onExpire == nil {
		return
	}
	for _, e := range dropped {
		onExpire(e)
	}
}

func (l *Ledger) expire(id string) {
	l.mu.Lock()
	var (
		dropped Entry
		found   bool
	)
	for i, s := range l.entries {
		if s.entry.ID == id {
			dropped = s.entry
			l.removeLocked(i)
			found = true
			break
		}
	}
	onExpire := l.expired
	l.mu.Unlock()

	if found && onExpire != nil {
		onExpire(dropped)
	}
}

func (l *Ledger) claimLocked(i int) Entry {
	s := l.entries[i]
	if s.timer != nil {
		s.timer.Stop()
	}
	l.removeLocked(i)
	return s.entry
}

// dropDueLocked удаляет записи с истекшим сроком, даже если таймер еще не сработал
func (l *Ledger) dropDueLocked() []Entry {
	now := l.clock.Now()
	var dropped []Entry
	kept := l.entries[:0]
	for _, s := range l.entries {
		if now.Before(s.entry.ExpiresAt) {
			kept = append(kept, s)
			continue
		}
		if s.timer != nil {
			s.timer.Stop()
		}
		dropped = append(dropped, s.entry)
	}
	for i := len(kept); i < len(l.entries); i++ {
		l.entries[i] = nil
	}
	l.entries = kept
	return dropped
}

func (l *Ledger) removeLocked(i int) {
	copy(l.entries[i:], l.entries[i+1:])
	l.entries[len(l.entries)-1] = nil
	l.entries = l.entries[:len(l.entries)-1]
}
