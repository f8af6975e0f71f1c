package app

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/internal/usecase/generate_slots"
)

// Materializer догенерация слотов за период (generate_slots.UseCase)
type Materializer interface {
	Backfill(ctx context.Context, req *generate_slots.BackfillRequest) (*generate_slots.BackfillResponse, error)
}

// ShiftConfigReader источник горизонта бронирования
type ShiftConfigReader interface {
	GetShiftConfig(ctx context.Context) (*domain.ShiftConfig, error)
}

// Clock текущее время в часовом поясе клиники
type Clock interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler периодически создаёт слоты от сегодняшнего дня до конца горизонта бронирования,
// чтобы пациентские запросы находили слоты уже готовыми
type Scheduler struct {
	materializer Materializer
	schedule     ShiftConfigReader
	clock        Clock
	interval     time.Duration
	logger       Logger
}

// NewScheduler создаёт планировщик; interval <= 0 выключает фоновый запуск
func NewScheduler(materializer Materializer, schedule ShiftConfigReader, clock Clock, interval time.Duration, logger Logger) *Scheduler {
	return &Scheduler{
		materializer: materializer,
		schedule:     schedule,
		clock:        clock,
		interval:     interval,
		logger:       logger,
	}
}

// Run выполняет первый проход сразу и затем по таймеру, пока не отменён ctx
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Scheduler: background materialization disabled")
		return
	}
	s.logger.Info("Scheduler: materializing slots every %s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("Scheduler: materialization failed: %v", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler: stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce создаёт недостающие слоты на горизонт бронирования
// Нулевой горизонт (без ограничения) заменяется значением по умолчанию
func (s *Scheduler) RunOnce(ctx context.Context) (*generate_slots.BackfillResponse, error) {
	cfg, err := s.schedule.GetShiftConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("get shift config: %w", err)
	}

	horizon := cfg.MaxBookingHorizonDays
	if horizon <= 0 {
		horizon = domain.DefaultMaxBookingHorizonDays
	}

	today := domain.DateOf(s.clock.Now())
	resp, err := s.materializer.Backfill(ctx, &generate_slots.BackfillRequest{
		DateFrom: today,
		DateTo:   today.AddDate(0, 0, horizon),
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Failures) > 0 {
		s.logger.Warn("Scheduler: %d days failed to materialize", len(resp.Failures))
	}
	return resp, nil
}
