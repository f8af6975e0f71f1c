package generate_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	InsertMissing(ctx context.Context, slots []*domain.Slot) (int, error)
	GetByKey(ctx context.Context, key domain.SlotKey) ([]*domain.Slot, error)
}

// ScheduleRepository интерфейс источника конфигурации расписания
type ScheduleRepository interface {
	GetShiftConfig(ctx context.Context) (*domain.ShiftConfig, error)
	ListHolidayRules(ctx context.Context) ([]domain.HolidayRule, error)
}

// DirectoryRepository интерфейс справочника назначений врачей в кабинеты
type DirectoryRepository interface {
	ListAssignments(ctx context.Context, roomIDs, practitionerIDs []uuid.UUID) ([]domain.Assignment, error)
}

// Metrics счётчики генерации (nil-safe *metrics.Metrics)
type Metrics interface {
	ObserveSlotsGenerated(mode string, n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
// Location - часовой пояс клиники (nil = локальный пояс процесса)
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время в часовом поясе клиники
func (p *RealTimeProvider) Now() time.Time {
	if p.Location != nil {
		return time.Now().In(p.Location)
	}
	return time.Now()
}
