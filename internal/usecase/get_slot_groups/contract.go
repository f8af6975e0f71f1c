package get_slot_groups

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/usecase/generate_slots"
)

// SlotMaterializer гарантирует наличие слотов дня (generate_slots.UseCase)
type SlotMaterializer interface {
	EnsureDay(ctx context.Context, req *generate_slots.DayRequest) (*generate_slots.EnsureDayResponse, error)
}

// DirectoryRepository интерфейс справочника назначений
type DirectoryRepository interface {
	AssignmentExists(ctx context.Context, roomID, practitionerID uuid.UUID) (bool, error)
}

// TimeProvider текущее время в часовом поясе клиники
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
