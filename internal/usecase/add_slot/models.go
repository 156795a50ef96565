package add_slot

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// Request модель запроса на добавление слота
type Request struct {
	EmployeeID uuid.UUID
	Day        time.Time // день, в котором ищется свободное время
	Recurring  bool      // спроецировать слот еженедельно до конца года
}

// Response модель ответа
type Response struct {
	// Seed созданный слот в запрошенном дне
	Seed *domain.Slot
	// Slots все затронутые слоты по возрастанию времени, включая Seed:
	// для обычного слота это копии на повторяющиеся дни, для повторяющегося
	// это вся серия (созданные и принятые существующие слоты)
	Slots []*domain.Slot
	// Created слоты, вставленные операцией
	Created []uuid.UUID
	// Adopted существующие слоты, которые операция сделала повторяющимися
	Adopted []uuid.UUID
}
