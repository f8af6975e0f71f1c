package slots

import (
	"context"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Slot, error)
	FindByFilter(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.SlotStatus) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// KeyLocker мьютекс по ключу (кабинет, врач, дата)
type KeyLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Metrics счётчики изменений слотов (nil-safe *metrics.Metrics)
type Metrics interface {
	ObserveSlotMutation(operation, outcome string, n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
