package get_slot_groups

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// Request запрос групп слотов под услугу
type Request struct {
	RoomID                 uuid.UUID
	PractitionerID         uuid.UUID
	Date                   time.Time // Дата приема (без времени)
	ServiceDurationMinutes int
}

// Response группы подряд идущих свободных слотов
type Response struct {
	RoomID          uuid.UUID
	PractitionerID  uuid.UUID
	Date            time.Time
	SlotUnitMinutes int
	RequiredSlots   int
	Closed          bool
	ClosedReason    domain.ClosedReason
	Groups          []domain.SlotGroup
}
