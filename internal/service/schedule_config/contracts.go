package schedule_config

import (
	"context"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// ScheduleRepository интерфейс репозитория конфигурации расписания
type ScheduleRepository interface {
	GetShiftConfig(ctx context.Context) (*domain.ShiftConfig, error)
	SaveShiftConfig(ctx context.Context, cfg *domain.ShiftConfig) (*domain.ShiftConfig, error)
	ListHolidayRules(ctx context.Context) ([]domain.HolidayRule, error)
	CreateHolidayRule(ctx context.Context, rule domain.HolidayRule) (*domain.HolidayRule, error)
	DeleteHolidayRule(ctx context.Context, id int64) error
}

// CacheInvalidator сбрасывает кэш конфигурации после фиксации изменений
type CacheInvalidator interface {
	Invalidate()
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
