package slots

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	slotRepo "github.com/m04kA/SMC-ClinicSlots/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ClinicSlots/internal/service/slots/models"
)

const operationRelease = "release"

// Service сервис для чтения слотов и освобождения занятых
type Service struct {
	slotRepo  SlotRepository
	txManager TransactionManager
	locks     KeyLocker
	metrics   Metrics
	logger    Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	txManager TransactionManager,
	locks KeyLocker,
	metrics Metrics,
	logger Logger,
) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		slotRepo:  slotRepo,
		txManager: txManager,
		locks:     locks,
		metrics:   metrics,
		logger:    logger,
	}
}

// GetByID получает слот по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SlotResponse, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("GetByID: slot id=%d not found", id)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("GetByID: repository error for slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlot(slot), nil
}

// List получает слоты по фильтру (администраторский просмотр)
func (s *Service) List(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if filter.DateFrom.IsZero() || filter.DateTo.IsZero() {
		return nil, fmt.Errorf("%w: dateFrom and dateTo are required", ErrInvalidInput)
	}
	if domain.DateOf(filter.DateTo).Before(domain.DateOf(filter.DateFrom)) {
		return nil, fmt.Errorf("%w: dateTo is before dateFrom", ErrInvalidInput)
	}
	if domain.DaysBetween(filter.DateFrom, filter.DateTo) >= domain.MaxFilterRangeDays {
		return nil, fmt.Errorf("%w: range must not exceed %d days", ErrInvalidInput, domain.MaxFilterRangeDays)
	}

	slots, err := s.slotRepo.FindByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d slots", len(slots))
	return models.FromDomainSlotList(slots), nil
}

// Release освобождает занятые слоты после отмены записи (booked -> available)
// Слоты, которые уже не заняты, пропускаются и перечисляются в ответе
func (s *Service) Release(ctx context.Context, req *models.ReleaseSlotsRequest) (*models.ReleaseSlotsResponse, error) {
	s.logger.Info("Release: slots=%v", req.SlotIDs)

	if len(req.SlotIDs) == 0 || len(req.SlotIDs) > domain.MaxReserveSlots {
		return nil, fmt.Errorf("%w: slotIds must contain 1..%d ids", ErrInvalidInput, domain.MaxReserveSlots)
	}

	found, err := s.slotRepo.GetByIDs(ctx, req.SlotIDs)
	if err != nil {
		s.logger.Error("Release: failed to get slots: %v", err)
		return nil, fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	resp := &models.ReleaseSlotsResponse{ReleasedSlotIDs: []int64{}, SkippedSlotIDs: []int64{}}

	byKey := make(map[string][]int64)
	present := make(map[int64]struct{}, len(found))
	for _, slot := range found {
		k := slot.Key().String()
		byKey[k] = append(byKey[k], slot.ID)
		present[slot.ID] = struct{}{}
	}
	for _, id := range req.SlotIDs {
		if _, ok := present[id]; !ok {
			resp.SkippedSlotIDs = append(resp.SkippedSlotIDs, id)
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		released, skipped, err := s.releaseKey(ctx, key, byKey[key])
		if err != nil {
			s.logger.Error("Release: failed to release slots on %s: %v", key, err)
			return nil, fmt.Errorf("%w: Release - %v", ErrInternal, err)
		}
		resp.ReleasedSlotIDs = append(resp.ReleasedSlotIDs, released...)
		resp.SkippedSlotIDs = append(resp.SkippedSlotIDs, skipped...)
	}

	s.metrics.ObserveSlotMutation(operationRelease, "released", len(resp.ReleasedSlotIDs))
	s.metrics.ObserveSlotMutation(operationRelease, "skipped", len(resp.SkippedSlotIDs))

	s.logger.Info("Release: released=%d, skipped=%d", len(resp.ReleasedSlotIDs), len(resp.SkippedSlotIDs))
	return resp, nil
}

// releaseKey освобождает слоты одного ключа одной транзакцией под блокировкой ключа
func (s *Service) releaseKey(ctx context.Context, key string, ids []int64) ([]int64, []int64, error) {
	unlock, err := s.locks.Lock(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	var released, skipped []int64
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		released, skipped = []int64{}, []int64{}

		current, err := s.slotRepo.GetByIDs(txCtx, ids)
		if err != nil {
			return err
		}
		seen := make(map[int64]struct{}, len(current))
		for _, slot := range current {
			seen[slot.ID] = struct{}{}
			if !slot.IsBooked() {
				skipped = append(skipped, slot.ID)
				continue
			}
			if err := s.slotRepo.UpdateStatus(txCtx, slot.ID, domain.SlotBooked, domain.SlotAvailable); err != nil {
				return err
			}
			released = append(released, slot.ID)
		}
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				skipped = append(skipped, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return released, skipped, nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveSlotMutation(string, string, int) {}
