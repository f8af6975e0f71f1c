package flexible_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	slotRepo "github.com/m04kA/SMC-ClinicSlots/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ClinicSlots/internal/usecase/generate_slots"
)

// affectedStatuses статусы, которые попадают под выключение: свободные выключаются,
// занятые остаются как есть, но их записи нужно показать администратору
var affectedStatuses = []domain.SlotStatus{domain.SlotAvailable, domain.SlotBooked}

// UseCase массовое выключение и включение слотов по фильтру
type UseCase struct {
	slotRepo      SlotRepository
	scheduleRepo  ScheduleRepository
	directoryRepo DirectoryRepository
	materializer  SlotMaterializer
	partitioner   PatientPartitioner
	txManager     TxManager
	locks         KeyLocker
	metrics       Metrics
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
// materializer может быть nil: тогда операции видят только уже созданные слоты
func NewUseCase(
	slotRepo SlotRepository,
	scheduleRepo ScheduleRepository,
	directoryRepo DirectoryRepository,
	materializer SlotMaterializer,
	partitioner PatientPartitioner,
	txManager TxManager,
	locks KeyLocker,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		slotRepo:      slotRepo,
		scheduleRepo:  scheduleRepo,
		directoryRepo: directoryRepo,
		materializer:  materializer,
		partitioner:   partitioner,
		txManager:     txManager,
		locks:         locks,
		metrics:       metrics,
		logger:        logger,
	}
}

// Preview считает слоты, которые затронет Disable с тем же фильтром, ничего не меняя
func (uc *UseCase) Preview(ctx context.Context, filter domain.SlotFilter) (*PreviewResponse, error) {
	uc.logger.Info("PreviewAffectedSlots: %s", describeFilter(filter))

	if err := uc.validateFilter(ctx, filter); err != nil {
		uc.logger.Warn("PreviewAffectedSlots: validation failed: %v", err)
		return nil, err
	}
	if filter.MatchesNothing() {
		return &PreviewResponse{Count: 0}, nil
	}

	affected := filter.WithStatuses(affectedStatuses...)
	count, err := uc.slotRepo.CountByFilter(ctx, affected)
	if err != nil {
		uc.logger.Error("PreviewAffectedSlots: failed to count slots: %v", err)
		return nil, fmt.Errorf("%w: failed to count slots: %v", ErrInternal, err)
	}
	count += uc.countPlanned(ctx, affected)

	uc.logger.Info("PreviewAffectedSlots: %d slots would be affected", count)
	return &PreviewResponse{Count: count}, nil
}

// Disable выключает свободные слоты по фильтру
// Занятые слоты не меняются, но учитываются в AffectedSlotsCount и передаются на разбиение пациентов.
// Каждый слот меняется в своей транзакции: конфликт на одном слоте не отменяет остальные
func (uc *UseCase) Disable(ctx context.Context, req *DisableRequest) (*DisableResponse, error) {
	uc.logger.Info("DisableSlots: %s, notifyPatients=%t", describeFilter(req.Filter), req.NotifyPatients)

	if err := uc.validateFilter(ctx, req.Filter); err != nil {
		uc.logger.Warn("DisableSlots: validation failed: %v", err)
		return nil, err
	}

	batch := newBatchResult()
	if !req.Filter.MatchesNothing() {
		uc.materialize(ctx, req.Filter)

		candidates, err := uc.slotRepo.FindByFilter(ctx, req.Filter.WithStatuses(affectedStatuses...))
		if err != nil {
			uc.logger.Error("DisableSlots: failed to select slots: %v", err)
			return nil, fmt.Errorf("%w: failed to select slots: %v", ErrInternal, err)
		}
		uc.applyPerKey(ctx, candidates, batch, uc.disableSlot)
	}

	resp := &DisableResponse{
		AffectedSlotsCount: len(batch.changed) + len(batch.booked),
		DisabledSlotIDs:    batch.changed,
		BookedSlotIDs:      batch.bookedIDs(),
		Conflicts:          batch.conflicts,
		Failures:           batch.failures,
	}

	uc.metrics.ObserveSlotMutation(operationDisable, outcomeDisabled, len(resp.DisabledSlotIDs))
	uc.metrics.ObserveSlotMutation(operationDisable, outcomeBooked, len(resp.BookedSlotIDs))
	uc.metrics.ObserveSlotMutation(operationDisable, outcomeConflict, len(resp.Conflicts))
	uc.metrics.ObserveSlotMutation(operationDisable, outcomeFailed, len(resp.Failures))

	if req.NotifyPatients {
		resp.AffectedPatients = &domain.PatientPartition{
			EmailedPatients:       []domain.AffectedPatientRecord{},
			ManualContactPatients: []domain.AffectedPatientRecord{},
		}
		if len(batch.booked) > 0 {
			resp.AffectedPatients = uc.partitioner.Partition(ctx, batch.booked)
		}
	}

	uc.logger.Info("DisableSlots: affected=%d (disabled=%d, booked=%d), conflicts=%d, failures=%d, patients=%d",
		resp.AffectedSlotsCount, len(resp.DisabledSlotIDs), len(resp.BookedSlotIDs),
		len(resp.Conflicts), len(resp.Failures), resp.AffectedPatients.Total())
	return resp, nil
}

// Enable возвращает выключенные слоты по фильтру в свободные; занятые слоты не трогает
func (uc *UseCase) Enable(ctx context.Context, req *EnableRequest) (*EnableResponse, error) {
	uc.logger.Info("EnableSlots: %s", describeFilter(req.Filter))

	if err := uc.validateFilter(ctx, req.Filter); err != nil {
		uc.logger.Warn("EnableSlots: validation failed: %v", err)
		return nil, err
	}

	batch := newBatchResult()
	if !req.Filter.MatchesNothing() {
		candidates, err := uc.slotRepo.FindByFilter(ctx, req.Filter.WithStatuses(domain.SlotDisabled))
		if err != nil {
			uc.logger.Error("EnableSlots: failed to select slots: %v", err)
			return nil, fmt.Errorf("%w: failed to select slots: %v", ErrInternal, err)
		}
		uc.applyPerKey(ctx, candidates, batch, uc.enableSlot)
	}

	resp := &EnableResponse{
		AffectedSlotsCount: len(batch.changed),
		EnabledSlotIDs:     batch.changed,
		Conflicts:          batch.conflicts,
		Failures:           batch.failures,
	}

	uc.metrics.ObserveSlotMutation(operationEnable, outcomeEnabled, len(resp.EnabledSlotIDs))
	uc.metrics.ObserveSlotMutation(operationEnable, outcomeConflict, len(resp.Conflicts))
	uc.metrics.ObserveSlotMutation(operationEnable, outcomeFailed, len(resp.Failures))

	uc.logger.Info("EnableSlots: enabled=%d, conflicts=%d, failures=%d",
		resp.AffectedSlotsCount, len(resp.Conflicts), len(resp.Failures))
	return resp, nil
}

// slotMutation меняет один слот внутри транзакции; current уже заблокирован (FOR UPDATE)
type slotMutation func(ctx context.Context, current *domain.Slot, batch *batchResult) error

// applyPerKey обрабатывает слоты по ключам (кабинет, врач, дата) в детерминированном порядке
// Ключ удерживается на время обработки его слотов, одновременно удерживается не больше одного ключа
func (uc *UseCase) applyPerKey(ctx context.Context, candidates []*domain.Slot, batch *batchResult, mutate slotMutation) {
	byKey := make(map[string][]*domain.Slot)
	for _, s := range candidates {
		k := s.Key().String()
		byKey[k] = append(byKey[k], s)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		slots := byKey[key]

		unlock, err := uc.locks.Lock(ctx, key)
		if err != nil {
			uc.logger.Warn("applyPerKey: failed to lock %s: %v", key, err)
			for _, s := range slots {
				batch.failures = append(batch.failures, SlotIssue{SlotID: s.ID, Reason: err.Error()})
			}
			continue
		}

		for _, s := range slots {
			uc.applyOne(ctx, s.ID, batch, mutate)
		}
		unlock()
	}
}

// applyOne перечитывает слот под блокировкой строки и применяет изменение
func (uc *UseCase) applyOne(ctx context.Context, slotID int64, batch *batchResult, mutate slotMutation) {
	// Исходы пишутся в локальный результат и переносятся в batch только после коммита
	local := newBatchResult()

	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := uc.slotRepo.GetByID(ctx, slotID)
		if err != nil {
			return err
		}
		return mutate(ctx, current, local)
	})

	switch {
	case err == nil:
		batch.changed = append(batch.changed, local.changed...)
		batch.booked = append(batch.booked, local.booked...)
		batch.conflicts = append(batch.conflicts, local.conflicts...)
	case errors.Is(err, slotRepo.ErrSlotNotFound), errors.Is(err, slotRepo.ErrStatusChanged):
		uc.logger.Warn("applyOne: slot id=%d changed concurrently: %v", slotID, err)
		batch.conflicts = append(batch.conflicts, SlotIssue{
			SlotID: slotID,
			Reason: fmt.Errorf("%w: %v", ErrConcurrentModification, err).Error(),
		})
	default:
		uc.logger.Error("applyOne: slot id=%d failed: %v", slotID, err)
		batch.failures = append(batch.failures, SlotIssue{SlotID: slotID, Reason: err.Error()})
	}
}

func (uc *UseCase) disableSlot(ctx context.Context, current *domain.Slot, batch *batchResult) error {
	switch current.Status {
	case domain.SlotAvailable:
		if err := uc.slotRepo.UpdateStatus(ctx, current.ID, domain.SlotAvailable, domain.SlotDisabled); err != nil {
			return err
		}
		batch.changed = append(batch.changed, current.ID)
	case domain.SlotBooked:
		batch.booked = append(batch.booked, current)
	default:
		batch.conflicts = append(batch.conflicts, SlotIssue{
			SlotID: current.ID,
			Reason: fmt.Sprintf("%v: status is %s", ErrConcurrentModification, current.Status),
		})
	}
	return nil
}

func (uc *UseCase) enableSlot(ctx context.Context, current *domain.Slot, batch *batchResult) error {
	if current.Status != domain.SlotDisabled {
		batch.conflicts = append(batch.conflicts, SlotIssue{
			SlotID: current.ID,
			Reason: fmt.Sprintf("%v: status is %s", ErrConcurrentModification, current.Status),
		})
		return nil
	}
	if err := uc.slotRepo.UpdateStatus(ctx, current.ID, domain.SlotDisabled, domain.SlotAvailable); err != nil {
		return err
	}
	batch.changed = append(batch.changed, current.ID)
	return nil
}

// materialize догенерирует слоты периода фильтра, чтобы выключение накрыло и дни,
// которые ещё никто не открывал. Ошибки догенерации не прерывают операцию
func (uc *UseCase) materialize(ctx context.Context, filter domain.SlotFilter) {
	if uc.materializer == nil {
		return
	}

	resp, err := uc.materializer.Backfill(ctx, backfillRequest(filter))
	if err != nil {
		uc.logger.Warn("materialize: backfill failed, working with existing slots: %v", err)
		return
	}
	if len(resp.Failures) > 0 {
		uc.logger.Warn("materialize: %d days were not materialized", len(resp.Failures))
	}
}

// countPlanned считает слоты, которые Disable догенерирует перед выключением
// Ничего не сохраняет; ошибки планирования, как и в materialize, не прерывают операцию
func (uc *UseCase) countPlanned(ctx context.Context, filter domain.SlotFilter) int {
	if uc.materializer == nil {
		return 0
	}

	planned, err := uc.materializer.Plan(ctx, backfillRequest(filter))
	if err != nil {
		uc.logger.Warn("countPlanned: planning failed, counting existing slots only: %v", err)
		return 0
	}

	count := 0
	for _, s := range planned {
		if filter.Matches(s) {
			count++
		}
	}
	return count
}

func backfillRequest(filter domain.SlotFilter) *generate_slots.BackfillRequest {
	return &generate_slots.BackfillRequest{
		DateFrom:        filter.DateFrom,
		DateTo:          filter.DateTo,
		RoomIDs:         filter.RoomIDs,
		PractitionerIDs: filter.PractitionerIDs,
	}
}

func describeFilter(f domain.SlotFilter) string {
	return fmt.Sprintf("dateRange=[%s, %s], shifts=%s, rooms=%s, practitioners=%s",
		f.DateFrom.Format(domain.DateFormat), f.DateTo.Format(domain.DateFormat),
		describeList(f.Shifts == nil, len(f.Shifts)),
		describeList(f.RoomIDs == nil, len(f.RoomIDs)),
		describeList(f.PractitionerIDs == nil, len(f.PractitionerIDs)))
}

func describeList(isNil bool, n int) string {
	if isNil {
		return "all"
	}
	return fmt.Sprintf("%d", n)
}

type noopMetrics struct{}

func (noopMetrics) ObserveSlotMutation(string, string, int) {}
