package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	_ "github.com/lib/pq"

	addHolidayRuleHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/add_holiday_rule"
	deleteHolidayRuleHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/delete_holiday_rule"
	disableSlotsHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/disable_slots"
	enableSlotsHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/enable_slots"
	getScheduleHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/get_schedule"
	getSlotHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/get_slot"
	getSlotGroupsHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/get_slot_groups"
	importLegacyHolidaysHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/import_legacy_holidays"
	listSlotsHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/list_slots"
	materializeSlotsHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/materialize_slots"
	previewSlotsHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/preview_slots"
	releaseSlotsHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/release_slots"
	reserveSlotsHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/reserve_slots"
	updateScheduleHandler "github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/update_schedule"
	"github.com/m04kA/SMC-ClinicSlots/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicSlots/internal/config"
	scheduleCache "github.com/m04kA/SMC-ClinicSlots/internal/infra/cache/schedule"
	directoryRepo "github.com/m04kA/SMC-ClinicSlots/internal/infra/storage/directory"
	scheduleRepo "github.com/m04kA/SMC-ClinicSlots/internal/infra/storage/schedule"
	slotRepo "github.com/m04kA/SMC-ClinicSlots/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ClinicSlots/internal/integrations/appointmentservice"
	"github.com/m04kA/SMC-ClinicSlots/internal/service/affected_patients"
	"github.com/m04kA/SMC-ClinicSlots/internal/service/schedule_config"
	slotsService "github.com/m04kA/SMC-ClinicSlots/internal/service/slots"
	flexibleSlotsUC "github.com/m04kA/SMC-ClinicSlots/internal/usecase/flexible_slots"
	generateSlotsUC "github.com/m04kA/SMC-ClinicSlots/internal/usecase/generate_slots"
	getSlotGroupsUC "github.com/m04kA/SMC-ClinicSlots/internal/usecase/get_slot_groups"
	reserveSlotsUC "github.com/m04kA/SMC-ClinicSlots/internal/usecase/reserve_slots"
	"github.com/m04kA/SMC-ClinicSlots/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicSlots/pkg/keylock"
	"github.com/m04kA/SMC-ClinicSlots/pkg/logger"
	"github.com/m04kA/SMC-ClinicSlots/pkg/metrics"
	"github.com/m04kA/SMC-ClinicSlots/pkg/txmanager"
)

// App собранный граф зависимостей сервиса
type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *sql.DB
	stopMetrics chan struct{}
	closeOnce   sync.Once

	Materializer *generateSlotsUC.UseCase
	Scheduler    *Scheduler
	Handler      http.Handler
}

// OpenDB открывает пул соединений PostgreSQL и проверяет доступность базы
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// New подключается к базе и собирает репозитории, use cases, сервисы и HTTP-обработчики
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	location, err := cfg.Scheduling.Location()
	if err != nil {
		return nil, err
	}

	db, err := OpenDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	a := &App{cfg: cfg, log: log, db: db, stopMetrics: make(chan struct{})}

	// Метрики (если включены); nil-коллектор везде допустим
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, a.stopMetrics)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	txManager := txmanager.NewTransactionManager(wrappedDB)
	locks := keylock.New()
	clock := &generateSlotsUC.RealTimeProvider{Location: location}

	// Репозитории
	slots := slotRepo.NewRepository(wrappedDB)
	directory := directoryRepo.NewRepository(wrappedDB)
	var schedule scheduleCache.Repository = scheduleRepo.NewRepository(wrappedDB)

	var invalidator schedule_config.CacheInvalidator
	if ttl := cfg.Cache.ScheduleTTL.Duration; ttl > 0 {
		cached := scheduleCache.NewCachedRepository(schedule, ttl)
		schedule = cached
		invalidator = cached
		log.Info("Schedule cache enabled, ttl=%s", ttl)
	}

	// Интеграции
	appointmentClient := appointmentservice.NewClient(
		cfg.AppointmentService.URL,
		time.Duration(cfg.AppointmentService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (AppointmentService=%s timeout=%ds)",
		cfg.AppointmentService.URL, cfg.AppointmentService.Timeout)

	// Use cases и сервисы
	materializer := generateSlotsUC.NewUseCase(
		slots, schedule, directory, metricsCollector, clock, log, cfg.Scheduling.OpenWithoutWeeklyRules,
	)
	partitioner := affected_patients.NewService(appointmentClient, metricsCollector, log)
	slotGroups := getSlotGroupsUC.NewUseCase(materializer, directory, clock, log)
	flexible := flexibleSlotsUC.NewUseCase(
		slots, schedule, directory, materializer, partitioner, txManager, locks, metricsCollector, log,
	)
	reserve := reserveSlotsUC.NewUseCase(slots, txManager, locks, metricsCollector, clock, log)
	slotSvc := slotsService.NewService(slots, txManager, locks, metricsCollector, log)
	scheduleSvc := schedule_config.NewService(schedule, invalidator, txManager, log)

	a.Materializer = materializer
	a.Scheduler = NewScheduler(materializer, schedule, clock, cfg.Scheduling.MaterializeInterval.Duration, log)

	handlers := Handlers{
		GetSlotGroups: getSlotGroupsHandler.NewHandler(slotGroups, log).Handle,
		GetSchedule:   getScheduleHandler.NewHandler(scheduleSvc, log).Handle,
		GetSlot:       getSlotHandler.NewHandler(slotSvc, log).Handle,
		ReserveSlots:  reserveSlotsHandler.NewHandler(reserve, log).Handle,
		ReleaseSlots:  releaseSlotsHandler.NewHandler(slotSvc, log).Handle,

		ListSlots:            listSlotsHandler.NewHandler(slotSvc, log).Handle,
		PreviewSlots:         previewSlotsHandler.NewHandler(flexible, log).Handle,
		DisableSlots:         disableSlotsHandler.NewHandler(flexible, log).Handle,
		EnableSlots:          enableSlotsHandler.NewHandler(flexible, log).Handle,
		UpdateSchedule:       updateScheduleHandler.NewHandler(scheduleSvc, log).Handle,
		MaterializeSlots:     materializeSlotsHandler.NewHandler(materializer, log).Handle,
		AddHolidayRule:       addHolidayRuleHandler.NewHandler(scheduleSvc, log).Handle,
		DeleteHolidayRule:    deleteHolidayRuleHandler.NewHandler(scheduleSvc, log).Handle,
		ImportLegacyHolidays: importLegacyHolidaysHandler.NewHandler(scheduleSvc, log).Handle,
	}

	a.Handler = NewRouter(handlers, RouterOptions{
		Metrics:      metricsCollector,
		MetricsPath:  cfg.Metrics.Path,
		AdminLimiter: middleware.NewRateLimiter(cfg.RateLimit.AdminRequestsPerMinute, cfg.RateLimit.AdminBurst, log),
	})

	return a, nil
}

// Serve запускает HTTP-сервер и фоновую материализацию слотов
// Возвращается после отмены ctx и корректной остановки сервера
func (a *App) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", a.cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.Handler,
		ReadTimeout:  time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.cfg.Server.IdleTimeout) * time.Second,
	}

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Scheduler.Run(schedulerCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		a.log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	a.log.Info("Shutting down server...")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(a.cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
	}
	wg.Wait()

	a.log.Info("Server stopped gracefully")
	return runErr
}

// Close останавливает сбор метрик пула и закрывает соединения с базой
func (a *App) Close() {
	a.closeOnce.Do(func() {
		close(a.stopMetrics)
		if err := a.db.Close(); err != nil {
			a.log.Error("Failed to close database: %v", err)
		}
	})
}
