package flexible_slots

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/internal/usecase/generate_slots"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	FindByFilter(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error)
	CountByFilter(ctx context.Context, filter domain.SlotFilter) (int, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.SlotStatus) error
}

// ScheduleRepository источник конфигурации смен (для проверки имён смен в фильтре)
type ScheduleRepository interface {
	GetShiftConfig(ctx context.Context) (*domain.ShiftConfig, error)
}

// DirectoryRepository интерфейс справочника кабинетов и врачей
type DirectoryRepository interface {
	UnknownRoomIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	UnknownPractitionerIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// SlotMaterializer догенерирует слоты периода до выборки (generate_slots.UseCase)
// Plan возвращает недостающие слоты без сохранения, для предпросмотра
type SlotMaterializer interface {
	Backfill(ctx context.Context, req *generate_slots.BackfillRequest) (*generate_slots.BackfillResponse, error)
	Plan(ctx context.Context, req *generate_slots.BackfillRequest) ([]*domain.Slot, error)
}

// PatientPartitioner разбивает затронутые занятые слоты на пациентов для рассылки и обзвона
type PatientPartitioner interface {
	Partition(ctx context.Context, bookedSlots []*domain.Slot) *domain.PatientPartition
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// KeyLocker мьютекс по ключу (кабинет, врач, дата)
type KeyLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Metrics счётчики массовых операций (nil-safe *metrics.Metrics)
type Metrics interface {
	ObserveSlotMutation(operation, outcome string, n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
