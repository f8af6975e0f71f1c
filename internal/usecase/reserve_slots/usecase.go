package reserve_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	slotRepo "github.com/m04kA/SMC-ClinicSlots/internal/infra/storage/slot"
)

const operationReserve = "reserve"

// UseCase use case для занятия группы слотов под запись пациента
// Группа занимается целиком или не занимается вовсе
type UseCase struct {
	slotRepo     SlotRepository
	txManager    TransactionManager
	locks        KeyLocker
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	txManager TransactionManager,
	locks KeyLocker,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if timeProvider == nil {
		timeProvider = realTimeProvider{}
	}
	return &UseCase{
		slotRepo:     slotRepo,
		txManager:    txManager,
		locks:        locks,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case занятия слотов
// Использует блокировку ключа и сериализуемую транзакцию: статус каждого слота
// перепроверяется непосредственно перед изменением
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlots: slots=%v", req.SlotIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем ключ группы по текущему состоянию
	snapshot, err := uc.slotRepo.GetByIDs(ctx, req.SlotIDs)
	if err != nil {
		uc.logger.Error("ReserveSlots: failed to get slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}
	if missing := missingIDs(req.SlotIDs, snapshot); len(missing) > 0 {
		uc.logger.Warn("ReserveSlots: slots %v not found", missing)
		return nil, fmt.Errorf("%w: %v", ErrSlotNotFound, missing)
	}
	if err := validateGroup(snapshot, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("ReserveSlots: invalid group: %v", err)
		return nil, err
	}
	key := snapshot[0].Key().String()

	// 3. Захватываем ключ
	unlock, err := uc.locks.Lock(ctx, key)
	if err != nil {
		uc.logger.Warn("ReserveSlots: failed to lock %s: %v", key, err)
		return nil, fmt.Errorf("%w: failed to lock slots: %v", ErrInternal, err)
	}
	defer unlock()

	// 4. Перепроверяем и занимаем в транзакции
	var reserved []*domain.Slot
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.slotRepo.GetByIDs(txCtx, req.SlotIDs)
		if err != nil {
			return fmt.Errorf("%w: failed to lock slots: %v", ErrInternal, err)
		}
		if missing := missingIDs(req.SlotIDs, current); len(missing) > 0 {
			return &UnavailableSlotsError{SlotIDs: missing}
		}
		if stale := unavailableIDs(current); len(stale) > 0 {
			return &UnavailableSlotsError{SlotIDs: stale}
		}
		if err := validateGroup(current, uc.timeProvider.Now()); err != nil {
			return err
		}

		for _, s := range current {
			if err := uc.slotRepo.UpdateStatus(txCtx, s.ID, domain.SlotAvailable, domain.SlotBooked); err != nil {
				if errors.Is(err, slotRepo.ErrStatusChanged) {
					return &UnavailableSlotsError{SlotIDs: []int64{s.ID}}
				}
				return fmt.Errorf("%w: failed to update slot id=%d: %v", ErrInternal, s.ID, err)
			}
			s.Status = domain.SlotBooked
		}
		reserved = current
		return nil
	})
	if err != nil {
		var unavailable *UnavailableSlotsError
		if errors.As(err, &unavailable) {
			uc.metrics.ObserveSlotMutation(operationReserve, "conflict", len(unavailable.SlotIDs))
			uc.logger.Warn("ReserveSlots: %v", err)
			return nil, err
		}
		if errors.Is(err, ErrNotContiguous) || errors.Is(err, ErrSlotInPast) || errors.Is(err, ErrInternal) {
			uc.logger.Warn("ReserveSlots: %v", err)
			return nil, err
		}
		uc.logger.Error("ReserveSlots: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.metrics.ObserveSlotMutation(operationReserve, "booked", len(reserved))
	uc.logger.Info("ReserveSlots: reserved %d slots on %s (%s-%s)",
		len(reserved), key, reserved[0].StartTime, reserved[len(reserved)-1].EndTime)
	return &Response{Slots: reserved}, nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveSlotMutation(string, string, int) {}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }
