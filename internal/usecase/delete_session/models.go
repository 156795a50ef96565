package delete_session

import "github.com/m04kA/SMC-CalendarService/internal/domain"

// Response модель ответа удаления и восстановления
type Response struct {
	// Session удалённая или восстановленная сессия
	Session *domain.SessionView
	// Slot слот сессии после операции
	Slot *domain.Slot
}
