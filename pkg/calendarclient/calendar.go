package calendarclient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/pkg/calendarclient/models"
	"github.com/m04kA/SMC-CalendarService/pkg/calendarclient/undo"
	"github.com/m04kA/SMC-CalendarService/pkg/calendarclient/weekcache"
)

// Calendar держит недельные окна слотов и сессий и журнал отмены.
// Каждая мутация вызывает сервер, патчит загруженные окна и кладет запись отмены.
type Calendar struct {
	client   *Client
	slots    *weekcache.Store[*Slot]
	sessions *weekcache.Store[*Session]
	ledger   *undo.Ledger
	log      Logger
}

// NewCalendar создает календарь. ledger nil означает журнал с DefaultTTL
func NewCalendar(client *Client, ledger *undo.Ledger, log Logger) *Calendar {
	if ledger == nil {
		ledger = undo.New(undo.DefaultTTL, nil)
	}
	return &Calendar{
		client:   client,
		slots:    weekcache.New(func(s *Slot) string { return s.ID }),
		sessions: weekcache.New(func(s *Session) string { return s.ID }),
		ledger:   ledger,
		log:      log,
	}
}

// Slots кэш недельных окон слотов
func (c *Calendar) Slots() *weekcache.Store[*Slot] {
	return c.slots
}

// Sessions кэш недельных окон сессий
func (c *Calendar) Sessions() *weekcache.Store[*Session] {
	return c.sessions
}

// Ledger журнал отмены
func (c *Calendar) Ledger() *undo.Ledger {
	return c.ledger
}

// Close останавливает таймеры журнала и сбрасывает кэш
func (c *Calendar) Close() {
	c.ledger.Close()
	c.slots.Reset()
	c.sessions.Reset()
}

// FetchWeekSlots загружает неделю, в которую попадает day, и кладет ее в кэш
func (c *Calendar) FetchWeekSlots(ctx context.Context, employeeID uuid.UUID, day time.Time) ([]*Slot, error) {
	key := weekcache.KeyFor(employeeID, day)
	slots, err := c.client.GetWeekSlots(ctx, employeeID.String(), key.Start, key.End)
	if err != nil {
		return nil, err
	}
	c.slots.Put(key, slots)
	return slots, nil
}

// FetchWeekSessions загружает неделю сессий
func (c *Calendar) FetchWeekSessions(ctx context.Context, employeeID uuid.UUID, day time.Time) ([]*Session, error) {
	key := weekcache.KeyFor(employeeID, day)
	sessions, err := c.client.GetWeekSessions(ctx, employeeID.String(), key.Start, key.End)
	if err != nil {
		return nil, err
	}
	c.sessions.Put(key, sessions)
	return sessions, nil
}

// --- Слоты ---

// AddSlot добавляет первый свободный слот в дне
func (c *Calendar) AddSlot(ctx context.Context, employeeID uuid.UUID, day time.Time) (*SlotsResult, error) {
	res, err := c.client.AddSlot(ctx, employeeID.String(), day.Format(models.DateFormat))
	if err != nil {
		return nil, err
	}
	c.patchSlots(weekcache.OpAdd, res.Slots...)
	c.push(res.Message, undo.Descriptor{Kind: undo.KindAddSlot, SlotID: res.Seed.ID, Slots: res.Slots})
	return res, nil
}

// AddRecurringSlot добавляет повторяющийся слот
func (c *Calendar) AddRecurringSlot(ctx context.Context, employeeID uuid.UUID, day time.Time) (*SlotsResult, error) {
	res, err := c.client.AddRecurringSlot(ctx, employeeID.String(), day.Format(models.DateFormat))
	if err != nil {
		return nil, err
	}
	c.patchSlots(weekcache.OpAdd, res.Slots...)
	c.push(res.Message, undo.Descriptor{
		Kind:       undo.KindAddRecurringSlot,
		SlotID:     res.Seed.ID,
		Slots:      res.Slots,
		CreatedIDs: res.CreatedIDs,
		FlaggedIDs: res.AdoptedIDs,
	})
	return res, nil
}

// DeleteSlots удаляет слоты
func (c *Calendar) DeleteSlots(ctx context.Context, slotIDs []string) (*DeleteResult, error) {
	res, err := c.client.DeleteSlots(ctx, slotIDs)
	if err != nil {
		return nil, err
	}
	c.applyDelete(res)
	c.push(res.Message, undo.Descriptor{Kind: undo.KindDeleteSlots, Slots: res.Slots})
	return res, nil
}

// UpdateSlotHour меняет час слота
func (c *Calendar) UpdateSlotHour(ctx context.Context, slotID string, hour int) (*SlotTimeResult, error) {
	return c.updateSlotTime(ctx, undo.KindUpdateSlotHour, slotID, hour)
}

// UpdateRecurringSlotHour меняет час слота и его серии
func (c *Calendar) UpdateRecurringSlotHour(ctx context.Context, slotID string, hour int) (*SlotTimeResult, error) {
	return c.updateSlotTime(ctx, undo.KindUpdateRecurringSlotHour, slotID, hour)
}

// UpdateSlotMinutes меняет минуты слота
func (c *Calendar) UpdateSlotMinutes(ctx context.Context, slotID string, minutes int) (*SlotTimeResult, error) {
	return c.updateSlotTime(ctx, undo.KindUpdateSlotMinutes, slotID, minutes)
}

// UpdateRecurringSlotMinutes меняет минуты слота и его серии
func (c *Calendar) UpdateRecurringSlotMinutes(ctx context.Context, slotID string, minutes int) (*SlotTimeResult, error) {
	return c.updateSlotTime(ctx, undo.KindUpdateRecurringSlotMinutes, slotID, minutes)
}

func (c *Calendar) updateSlotTime(ctx context.Context, kind undo.ActionKind, slotID string, value int) (*SlotTimeResult, error) {
	res, err := c.callSlotTime(ctx, kind, slotID, value)
	if err != nil {
		return nil, err
	}
	c.applySlotTime(res)
	c.push(res.Message, undo.Descriptor{
		Kind:   kind,
		SlotID: slotID,
		Hour:   res.PreviousHour,
		Minute: res.PreviousMinutes,
	})
	return res, nil
}

// DuplicateDay копирует слоты дня на целевые даты
func (c *Calendar) DuplicateDay(ctx context.Context, employeeID uuid.UUID, source time.Time, targets []time.Time) (*DayResult, error) {
	dates := make([]string, 0, len(targets))
	for _, t := range targets {
		dates = append(dates, t.Format(models.DateFormat))
	}

	res, err := c.client.DuplicateDay(ctx, employeeID.String(), source.Format(models.DateFormat), dates)
	if err != nil {
		return nil, err
	}
	c.patchSlots(weekcache.OpAdd, res.Slots...)
	if len(res.Slots) > 0 {
		c.push(res.Message, undo.Descriptor{Kind: undo.KindDuplicateDay, Slots: res.Slots})
	}
	return res, nil
}

// SetSlotRecurrence делает слот повторяющимся
func (c *Calendar) SetSlotRecurrence(ctx context.Context, slotID string) (*SlotsResult, error) {
	res, err := c.client.SetSlotRecurrence(ctx, slotID)
	if err != nil {
		return nil, err
	}
	c.patchSlots(weekcache.OpReplace, res.Slots...)
	c.push(res.Message, undo.Descriptor{
		Kind:       undo.KindSetSlotRecurrence,
		SlotID:     slotID,
		Slots:      res.Slots,
		CreatedIDs: res.CreatedIDs,
		FlaggedIDs: res.AdoptedIDs,
	})
	return res, nil
}

// DisableSlotRecurrence отключает повторение слота
func (c *Calendar) DisableSlotRecurrence(ctx context.Context, slotID string) (*RecurrenceRemoval, error) {
	res, err := c.client.DisableSlotRecurrence(ctx, slotID)
	if err != nil {
		return nil, err
	}
	c.applyRemoval(res)
	c.push(res.Message, undo.Descriptor{
		Kind:       undo.KindDisableSlotRecurrence,
		SlotID:     slotID,
		Slots:      res.Deleted,
		FlaggedIDs: res.UnflaggedIDs,
	})
	return res, nil
}

// SetRecurringDay делает день повторяющимся
func (c *Calendar) SetRecurringDay(ctx context.Context, employeeID uuid.UUID, date time.Time) (*DayResult, error) {
	day := date.Format(models.DateFormat)
	res, err := c.client.SetRecurringDay(ctx, employeeID.String(), day)
	if err != nil {
		return nil, err
	}
	c.patchSlots(weekcache.OpAdd, res.Slots...)
	c.push(res.Message, undo.Descriptor{Kind: undo.KindSetRecurringDay, EmployeeID: employeeID.String(), Date: day})
	return res, nil
}

// DisableRecurringDay отключает повторение дня
func (c *Calendar) DisableRecurringDay(ctx context.Context, employeeID uuid.UUID, date time.Time) (*DayResult, error) {
	day := date.Format(models.DateFormat)
	res, err := c.client.DisableRecurringDay(ctx, employeeID.String(), day)
	if err != nil {
		return nil, err
	}
	c.patchSlots(weekcache.OpRemove, res.Slots...)
	c.push(res.Message, undo.Descriptor{Kind: undo.KindDisableRecurringDay, EmployeeID: employeeID.String(), Date: day})
	return res, nil
}

// --- Сессии ---

// BookSession бронирует слот
func (c *Calendar) BookSession(ctx context.Context, slotID, customerID string, message *string) (*SessionResult, error) {
	res, err := c.client.BookSession(ctx, slotID, customerID, message)
	if err != nil {
		return nil, err
	}
	c.applySessionCreated(res)
	c.push(res.Message, undo.Descriptor{Kind: undo.KindBookSession, Session: res.Session})
	return res, nil
}

// UpdateSession переносит сессию на другой слот
func (c *Calendar) UpdateSession(ctx context.Context, sessionID, slotID string) (*RescheduleResult, error) {
	res, err := c.client.UpdateSession(ctx, sessionID, slotID)
	if err != nil {
		return nil, err
	}
	c.applyReschedule(res)
	c.push(res.Message, undo.Descriptor{
		Kind:           undo.KindUpdateSession,
		Session:        res.Session,
		PreviousSlotID: res.PreviousSlotID,
	})
	return res, nil
}

// DeleteSession удаляет сессию
func (c *Calendar) DeleteSession(ctx context.Context, sessionID string) (*SessionResult, error) {
	res, err := c.client.DeleteSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.applySessionDeleted(res)
	c.push(res.Message, undo.Descriptor{Kind: undo.KindDeleteSession, Session: res.Session})
	return res, nil
}

// --- Отмена ---

// Undo забирает самую свежую живую запись и вызывает компенсирующий эндпоинт.
// Результат компенсации патчит кэш, новая запись отмены не создается.
func (c *Calendar) Undo(ctx context.Context) (undo.Entry, error) {
	entry, ok := c.ledger.Pop()
	if !ok {
		return undo.Entry{}, ErrNothingToUndo
	}
	if err := c.revert(ctx, entry.Action); err != nil {
		c.log.Error("Undo %s failed: %v", entry.Action.Kind, err)
		return entry, err
	}
	c.log.Info("Undo %s done: %s", entry.Action.Kind, entry.Message)
	return entry, nil
}

func (c *Calendar) revert(ctx context.Context, action undo.Descriptor) error {
	switch action.Kind {
	case undo.KindAddSlot:
		res, err := c.client.DeleteSlots(ctx, []string{action.SlotID})
		if err != nil {
			return err
		}
		c.applyDelete(res)

	case undo.KindAddRecurringSlot, undo.KindSetSlotRecurrence:
		// Удаляются только вставленные слоты, принятые теряют флаг повторения
		res, err := c.client.RevertSlotSeries(ctx, action.CreatedIDs, action.FlaggedIDs)
		if err != nil {
			return err
		}
		c.applyRemoval(res)

	case undo.KindDeleteSlots:
		restorable := make([]*Slot, 0, len(action.Slots))
		for _, s := range action.Slots {
			if s.Type != models.SlotBooked {
				restorable = append(restorable, s)
			}
		}
		if len(restorable) == 0 {
			return nil
		}
		res, err := c.client.AddSlots(ctx, restorable)
		if err != nil {
			return err
		}
		c.patchSlots(weekcache.OpAdd, res.Slots...)
		c.patchSlots(weekcache.OpAdd, res.Copies...)

	case undo.KindUpdateSlotHour, undo.KindUpdateRecurringSlotHour:
		res, err := c.callSlotTime(ctx, action.Kind, action.SlotID, action.Hour)
		if err != nil {
			return err
		}
		c.applySlotTime(res)

	case undo.KindUpdateSlotMinutes, undo.KindUpdateRecurringSlotMinutes:
		res, err := c.callSlotTime(ctx, action.Kind, action.SlotID, action.Minute)
		if err != nil {
			return err
		}
		c.applySlotTime(res)

	case undo.KindDuplicateDay:
		ids := make([]string, 0, len(action.Slots))
		for _, s := range action.Slots {
			ids = append(ids, s.ID)
		}
		res, err := c.client.DeleteSlots(ctx, ids)
		if err != nil {
			return err
		}
		c.applyDelete(res)

	case undo.KindDisableSlotRecurrence:
		res, err := c.client.RestoreSlotSeries(ctx, action.Slots, action.FlaggedIDs)
		if err != nil {
			return err
		}
		c.patchSlots(weekcache.OpAdd, res.Slots...)
		c.patchSlots(weekcache.OpReplace, res.Flagged...)

	case undo.KindSetRecurringDay:
		res, err := c.client.DisableRecurringDay(ctx, action.EmployeeID, action.Date)
		if err != nil {
			return err
		}
		c.patchSlots(weekcache.OpRemove, res.Slots...)

	case undo.KindDisableRecurringDay:
		res, err := c.client.SetRecurringDay(ctx, action.EmployeeID, action.Date)
		if err != nil {
			return err
		}
		c.patchSlots(weekcache.OpAdd, res.Slots...)

	case undo.KindBookSession:
		res, err := c.client.DeleteSession(ctx, action.Session.ID)
		if err != nil {
			return err
		}
		c.applySessionDeleted(res)

	case undo.KindUpdateSession:
		res, err := c.client.UpdateSession(ctx, action.Session.ID, action.PreviousSlotID)
		if err != nil {
			return err
		}
		c.applyReschedule(res)

	case undo.KindDeleteSession:
		res, err := c.client.UndoDeleteSession(ctx, action.Session)
		if err != nil {
			return err
		}
		c.applySessionCreated(res)

	default:
		return fmt.Errorf("%w: unknown undo kind %q", ErrInternal, action.Kind)
	}
	return nil
}

func (c *Calendar) callSlotTime(ctx context.Context, kind undo.ActionKind, slotID string, value int) (*SlotTimeResult, error) {
	switch kind {
	case undo.KindUpdateSlotHour:
		return c.client.UpdateSlotHour(ctx, slotID, value)
	case undo.KindUpdateRecurringSlotHour:
		return c.client.UpdateRecurringSlotHour(ctx, slotID, value)
	case undo.KindUpdateSlotMinutes:
		return c.client.UpdateSlotMinutes(ctx, slotID, value)
	case undo.KindUpdateRecurringSlotMinutes:
		return c.client.UpdateRecurringSlotMinutes(ctx, slotID, value)
	default:
		return nil, fmt.Errorf("%w: %q is not a slot time update", ErrInternal, kind)
	}
}

// --- Патчи кэша ---

func (c *Calendar) push(message string, action undo.Descriptor) {
	if _, err := c.ledger.Push(message, action); err != nil {
		c.log.Warn("Undo entry for %s was not recorded: %v", action.Kind, err)
	}
}

func (c *Calendar) patchSlots(op weekcache.Op, slots ...*Slot) {
	for _, s := range slots {
		if s == nil {
			continue
		}
		c.slots.Patch(slotKey(s), op, s.ID, s)
	}
}

func (c *Calendar) applyDelete(res *DeleteResult) {
	c.patchSlots(weekcache.OpRemove, res.Slots...)
	c.patchSlots(weekcache.OpRemove, res.Removed...)
}

func (c *Calendar) applyRemoval(res *RecurrenceRemoval) {
	c.patchSlots(weekcache.OpReplace, res.Seed)
	c.patchSlots(weekcache.OpRemove, res.Deleted...)
	c.patchSlots(weekcache.OpReplace, res.Detached...)
}

// applySlotTime заменяет перенесенные слоты; дата слота не меняется,
// поэтому окно то же. Время сессий на этих слотах сервер уже синхронизировал.
func (c *Calendar) applySlotTime(res *SlotTimeResult) {
	c.patchSlots(weekcache.OpReplace, res.Slots...)

	for _, s := range res.Slots {
		if s.Type != models.SlotBooked {
			continue
		}
		key := weekcache.KeyFor(parseID(s.EmployeeID), s.Start())
		sessions, ok := c.sessions.Items(key)
		if !ok {
			continue
		}
		for _, session := range sessions {
			if session.SlotID != s.ID {
				continue
			}
			moved := *session
			moved.StartTime = s.StartTime
			c.sessions.Patch(key, weekcache.OpReplace, moved.ID, &moved)
		}
	}
}

func (c *Calendar) applySessionCreated(res *SessionResult) {
	c.sessions.Patch(sessionKey(res.Session), weekcache.OpAdd, res.Session.ID, res.Session)
	c.patchSlots(weekcache.OpReplace, res.Slot)
}

func (c *Calendar) applySessionDeleted(res *SessionResult) {
	c.sessions.Patch(sessionKey(res.Session), weekcache.OpRemove, res.Session.ID, nil)
	c.patchSlots(weekcache.OpReplace, res.Slot)
}

// applyReschedule в пределах недели заменяет сессию в окне; при переносе
// между неделями убирает ее из старого окна и добавляет в новое, если оно загружено
func (c *Calendar) applyReschedule(res *RescheduleResult) {
	employeeID := parseID(res.Session.EmployeeID)
	oldKey := weekcache.KeyFor(employeeID, res.PreviousStart())
	newKey := sessionKey(res.Session)

	if oldKey == newKey {
		c.sessions.Patch(newKey, weekcache.OpReplace, res.Session.ID, res.Session)
	} else {
		c.sessions.Patch(oldKey, weekcache.OpRemove, res.Session.ID, nil)
		c.sessions.Patch(newKey, weekcache.OpAdd, res.Session.ID, res.Session)
	}

	c.patchSlots(weekcache.OpReplace, res.Released, res.Booked)
}

func slotKey(s *Slot) weekcache.Key {
	return weekcache.KeyFor(parseID(s.EmployeeID), s.Start())
}

func sessionKey(s *Session) weekcache.Key {
	return weekcache.KeyFor(parseID(s.EmployeeID), s.Start())
}

// parseID идентификатор уже проверенной строки ответа
func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}
