package reserve_slots

import (
	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// Request запрос на занятие группы слотов
type Request struct {
	SlotIDs []int64
}

// Response занятые слоты в порядке времени
type Response struct {
	Slots []*domain.Slot
}
