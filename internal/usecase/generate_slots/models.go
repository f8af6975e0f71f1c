package generate_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// Mode режим генерации: для пациента действует горизонт бронирования, для администратора нет
type Mode string

const (
	ModePatient Mode = "patient"
	ModeAdmin   Mode = "admin"
)

// DayRequest запрос генерации слотов одного дня
type DayRequest struct {
	RoomID         uuid.UUID
	PractitionerID uuid.UUID
	Date           time.Time
	Mode           Mode
}

// DayPlan результат чистой генерации: слоты дня или причина, по которой клиника закрыта
type DayPlan struct {
	Slots        []*domain.Slot
	Closed       bool
	ClosedReason domain.ClosedReason
}

// EnsureDayResponse слоты дня после материализации
type EnsureDayResponse struct {
	Slots        []*domain.Slot // все слоты ключа, включая созданные ранее
	Inserted     int            // сколько слотов создано этим вызовом
	Closed       bool
	ClosedReason domain.ClosedReason
	Config       *domain.ShiftConfig
}

// BackfillRequest запрос администраторской догенерации за период
// nil в списках означает "все кабинеты/врачи"
type BackfillRequest struct {
	DateFrom        time.Time
	DateTo          time.Time
	RoomIDs         []uuid.UUID
	PractitionerIDs []uuid.UUID
}

// DayFailure ошибка материализации одного дня; остальные дни при этом обрабатываются
type DayFailure struct {
	RoomID         uuid.UUID
	PractitionerID uuid.UUID
	Date           time.Time
	Reason         string
}

// BackfillResponse итог догенерации
type BackfillResponse struct {
	Days       int // обработано пар (назначение, дата)
	Inserted   int
	ClosedDays int
	Failures   []DayFailure
}
