package generate_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

// UseCase материализация слотов из конфигурации смен
type UseCase struct {
	slotRepo               SlotRepository
	scheduleRepo           ScheduleRepository
	directoryRepo          DirectoryRepository
	metrics                Metrics
	timeProvider           TimeProvider
	logger                 Logger
	openWithoutWeeklyRules bool
}

// NewUseCase создает новый экземпляр use case
// openWithoutWeeklyRules - работает ли клиника, если в календаре нет еженедельных правил
func NewUseCase(
	slotRepo SlotRepository,
	scheduleRepo ScheduleRepository,
	directoryRepo DirectoryRepository,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
	openWithoutWeeklyRules bool,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		slotRepo:               slotRepo,
		scheduleRepo:           scheduleRepo,
		directoryRepo:          directoryRepo,
		metrics:                metrics,
		timeProvider:           timeProvider,
		logger:                 logger,
		openWithoutWeeklyRules: openWithoutWeeklyRules,
	}
}

// EnsureDay гарантирует, что слоты дня существуют, и возвращает все слоты ключа
// Повторный вызов ничего не дублирует: недостающие слоты вставляются, существующие возвращаются как есть
func (uc *UseCase) EnsureDay(ctx context.Context, req *DayRequest) (*EnsureDayResponse, error) {
	if err := validateDayRequest(req); err != nil {
		uc.logger.Warn("EnsureDay: validation failed: %v", err)
		return nil, err
	}

	cfg, calendar, err := uc.loadSchedule(ctx)
	if err != nil {
		uc.logger.Error("EnsureDay: failed to load schedule: %v", err)
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		uc.logger.Error("EnsureDay: invalid shift configuration: %v", err)
		return nil, err
	}

	return uc.ensureDay(ctx, req, cfg, calendar)
}

// Backfill догенерирует слоты для назначений за период (администраторский режим, без горизонта)
// Ошибка одного дня не останавливает остальные; ошибка конфигурации останавливает всё
func (uc *UseCase) Backfill(ctx context.Context, req *BackfillRequest) (*BackfillResponse, error) {
	uc.logger.Info("Backfill: from=%s, to=%s, rooms=%d, practitioners=%d",
		req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat),
		len(req.RoomIDs), len(req.PractitionerIDs))

	if err := validateBackfillRequest(req); err != nil {
		uc.logger.Warn("Backfill: validation failed: %v", err)
		return nil, err
	}

	result := &BackfillResponse{Failures: []DayFailure{}}
	scope, err := uc.backfillScope(ctx, "Backfill", req)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return result, nil
	}
	cfg, calendar, assignments := scope.cfg, scope.calendar, scope.assignments

	err = domain.EachDate(scope.from, req.DateTo, func(date time.Time) error {
		for _, a := range assignments {
			if err := ctx.Err(); err != nil {
				return err
			}
			result.Days++

			day, err := uc.ensureDay(ctx, &DayRequest{
				RoomID:         a.RoomID,
				PractitionerID: a.PractitionerID,
				Date:           date,
				Mode:           ModeAdmin,
			}, cfg, calendar)
			if err != nil {
				if errors.Is(err, domain.ErrConfiguration) {
					return err
				}
				uc.logger.Warn("Backfill: room=%s practitioner=%s date=%s failed: %v",
					a.RoomID, a.PractitionerID, date.Format(domain.DateFormat), err)
				result.Failures = append(result.Failures, DayFailure{
					RoomID:         a.RoomID,
					PractitionerID: a.PractitionerID,
					Date:           date,
					Reason:         err.Error(),
				})
				continue
			}

			result.Inserted += day.Inserted
			if day.Closed {
				result.ClosedDays++
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("Backfill: aborted: %v", err)
		return nil, err
	}

	uc.logger.Info("Backfill: done, days=%d, inserted=%d, closed=%d, failures=%d",
		result.Days, result.Inserted, result.ClosedDays, len(result.Failures))
	return result, nil
}

// Plan возвращает слоты, которые Backfill с тем же запросом вставил бы сейчас, ничего не сохраняя
// Слоты плана не имеют ID. Ошибка конфигурации возвращается, ошибки отдельных дней пропускаются
func (uc *UseCase) Plan(ctx context.Context, req *BackfillRequest) ([]*domain.Slot, error) {
	if err := validateBackfillRequest(req); err != nil {
		uc.logger.Warn("Plan: validation failed: %v", err)
		return nil, err
	}

	planned := make([]*domain.Slot, 0)
	scope, err := uc.backfillScope(ctx, "Plan", req)
	if err != nil || scope == nil {
		return planned, err
	}

	now := uc.timeProvider.Now()
	err = domain.EachDate(scope.from, req.DateTo, func(date time.Time) error {
		for _, a := range scope.assignments {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := domain.SlotKey{RoomID: a.RoomID, PractitionerID: a.PractitionerID, Date: date}
			dayReq := DayRequest{RoomID: a.RoomID, PractitionerID: a.PractitionerID, Date: date, Mode: ModeAdmin}
			plan, err := GenerateDay(scope.cfg, scope.calendar, dayReq, now)
			if err != nil {
				if errors.Is(err, domain.ErrConfiguration) {
					return err
				}
				uc.logger.Warn("Plan: %s skipped: %v", key, err)
				continue
			}
			if len(plan.Slots) == 0 {
				continue
			}

			existing, err := uc.slotRepo.GetByKey(ctx, key)
			if err != nil {
				return fmt.Errorf("%w: failed to load slots for %s: %v", ErrInternal, key, err)
			}
			planned = append(planned, missingSlots(plan.Slots, existing)...)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("Plan: aborted: %v", err)
		return nil, err
	}
	return planned, nil
}

// backfillRange период и назначения догенерации после отсечения прошедших дней
type backfillRange struct {
	from        time.Time
	cfg         *domain.ShiftConfig
	calendar    domain.HolidayCalendar
	assignments []domain.Assignment
}

// backfillScope загружает расписание и назначения периода; nil без ошибки, если период целиком в прошлом
func (uc *UseCase) backfillScope(ctx context.Context, op string, req *BackfillRequest) (*backfillRange, error) {
	today := domain.DateOf(uc.timeProvider.Now())
	from := domain.DateOf(req.DateFrom)
	if from.Before(today) {
		uc.logger.Info("%s: dateFrom %s is in the past, starting from %s",
			op, from.Format(domain.DateFormat), today.Format(domain.DateFormat))
		from = today
	}
	if from.After(domain.DateOf(req.DateTo)) {
		return nil, nil
	}

	cfg, calendar, err := uc.loadSchedule(ctx)
	if err != nil {
		uc.logger.Error("%s: failed to load schedule: %v", op, err)
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		uc.logger.Error("%s: invalid shift configuration: %v", op, err)
		return nil, err
	}

	assignments, err := uc.directoryRepo.ListAssignments(ctx, req.RoomIDs, req.PractitionerIDs)
	if err != nil {
		uc.logger.Error("%s: failed to list assignments: %v", op, err)
		return nil, fmt.Errorf("%w: failed to list assignments: %v", ErrInternal, err)
	}

	return &backfillRange{from: from, cfg: cfg, calendar: calendar, assignments: assignments}, nil
}

// missingSlots слоты плана, которых ещё нет среди сохранённых (уникальность по смене и началу)
func missingSlots(plan, existing []*domain.Slot) []*domain.Slot {
	type identity struct {
		shift string
		start types.TimeString
	}
	have := make(map[identity]struct{}, len(existing))
	for _, s := range existing {
		have[identity{s.ShiftName, s.StartTime}] = struct{}{}
	}
	out := make([]*domain.Slot, 0, len(plan))
	for _, s := range plan {
		if _, ok := have[identity{s.ShiftName, s.StartTime}]; !ok {
			out = append(out, s)
		}
	}
	return out
}

func (uc *UseCase) ensureDay(
	ctx context.Context,
	req *DayRequest,
	cfg *domain.ShiftConfig,
	calendar domain.HolidayCalendar,
) (*EnsureDayResponse, error) {
	plan, err := GenerateDay(cfg, calendar, *req, uc.timeProvider.Now())
	if err != nil {
		return nil, err
	}

	key := domain.SlotKey{RoomID: req.RoomID, PractitionerID: req.PractitionerID, Date: domain.DateOf(req.Date)}

	inserted := 0
	if len(plan.Slots) > 0 {
		inserted, err = uc.slotRepo.InsertMissing(ctx, plan.Slots)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to insert slots for %s: %v", ErrInternal, key, err)
		}
		if inserted > 0 {
			uc.metrics.ObserveSlotsGenerated(string(req.Mode), inserted)
			uc.logger.Info("EnsureDay: materialized %d slots for %s", inserted, key)
		}
	}

	// Закрытый день: слоты, созданные до появления выходного, остаются и возвращаются как есть
	slots, err := uc.slotRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load slots for %s: %v", ErrInternal, key, err)
	}

	return &EnsureDayResponse{
		Slots:        slots,
		Inserted:     inserted,
		Closed:       plan.Closed,
		ClosedReason: plan.ClosedReason,
		Config:       cfg,
	}, nil
}

func (uc *UseCase) loadSchedule(ctx context.Context) (*domain.ShiftConfig, domain.HolidayCalendar, error) {
	cfg, err := uc.scheduleRepo.GetShiftConfig(ctx)
	if err != nil {
		return nil, domain.HolidayCalendar{}, fmt.Errorf("%w: failed to get shift config: %v", ErrInternal, err)
	}

	rules, err := uc.scheduleRepo.ListHolidayRules(ctx)
	if err != nil {
		return nil, domain.HolidayCalendar{}, fmt.Errorf("%w: failed to get holiday rules: %v", ErrInternal, err)
	}

	return cfg, domain.HolidayCalendar{Rules: rules, OpenWithoutWeeklyRules: uc.openWithoutWeeklyRules}, nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveSlotsGenerated(string, int) {}
