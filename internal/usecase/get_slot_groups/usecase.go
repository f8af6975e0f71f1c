package get_slot_groups

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/internal/usecase/generate_slots"
)

// UseCase use case для получения групп слотов под длительность услуги
type UseCase struct {
	materializer  SlotMaterializer
	directoryRepo DirectoryRepository
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	materializer SlotMaterializer,
	directoryRepo DirectoryRepository,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &generate_slots.RealTimeProvider{}
	}
	return &UseCase{
		materializer:  materializer,
		directoryRepo: directoryRepo,
		timeProvider:  timeProvider,
		logger:        logger,
	}
}

// Execute выполняет use case получения групп слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetSlotGroups: room=%s, practitioner=%s, date=%s, duration=%d",
		req.RoomID, req.PractitionerID, req.Date.Format(domain.DateFormat), req.ServiceDurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetSlotGroups: validation failed: %v", err)
		return nil, err
	}

	// 2. Врач должен принимать в кабинете
	exists, err := uc.directoryRepo.AssignmentExists(ctx, req.RoomID, req.PractitionerID)
	if err != nil {
		uc.logger.Error("GetSlotGroups: failed to check assignment: %v", err)
		return nil, fmt.Errorf("%w: failed to check assignment: %v", ErrInternal, err)
	}
	if !exists {
		uc.logger.Warn("GetSlotGroups: practitioner=%s is not assigned to room=%s", req.PractitionerID, req.RoomID)
		return nil, ErrAssignmentNotFound
	}

	// 3. Материализуем день (пациентский режим: горизонт бронирования действует)
	day, err := uc.materializer.EnsureDay(ctx, &generate_slots.DayRequest{
		RoomID:         req.RoomID,
		PractitionerID: req.PractitionerID,
		Date:           domain.DateOf(req.Date),
		Mode:           generate_slots.ModePatient,
	})
	if err != nil {
		return nil, mapMaterializeError(err)
	}

	// 4. Сегодня предлагаем только слоты, которые ещё не начались
	pool := upcomingSlots(day.Slots, uc.timeProvider.Now())

	// 5. Группируем свободные слоты
	required := domain.RequiredSlotCount(req.ServiceDurationMinutes, day.Config.SlotUnitMinutes)
	groups := GroupConsecutiveSlots(pool, req.ServiceDurationMinutes, day.Config.SlotUnitMinutes)

	uc.logger.Info("GetSlotGroups: found %d groups of %d slots (pool=%d, closed=%t)",
		len(groups), required, len(day.Slots), day.Closed)

	return &Response{
		RoomID:          req.RoomID,
		PractitionerID:  req.PractitionerID,
		Date:            domain.DateOf(req.Date),
		SlotUnitMinutes: day.Config.SlotUnitMinutes,
		RequiredSlots:   required,
		Closed:          day.Closed,
		ClosedReason:    day.ClosedReason,
		Groups:          groups,
	}, nil
}

func upcomingSlots(slots []*domain.Slot, now time.Time) []*domain.Slot {
	upcoming := make([]*domain.Slot, 0, len(slots))
	for _, s := range slots {
		if !s.HasStarted(now) {
			upcoming = append(upcoming, s)
		}
	}
	return upcoming
}

func mapMaterializeError(err error) error {
	switch {
	case errors.Is(err, generate_slots.ErrDateInPast), errors.Is(err, generate_slots.ErrBeyondHorizon):
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	case errors.Is(err, domain.ErrConfiguration):
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	case errors.Is(err, generate_slots.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: failed to materialize day: %v", ErrInternal, err)
	}
}
