package schedule_config

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ClinicSlots/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ClinicSlots/internal/service/schedule_config/models"
)

// Service сервис конфигурации смен и календаря клиники
type Service struct {
	scheduleRepo ScheduleRepository
	cache        CacheInvalidator
	txManager    TxManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса конфигурации
// cache может быть nil, если репозиторий не кэшируется
func NewService(
	scheduleRepo ScheduleRepository,
	cache CacheInvalidator,
	txManager TxManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		cache:        cache,
		txManager:    txManager,
		logger:       logger,
	}
}

// Get получает конфигурацию смен и правила календаря
func (s *Service) Get(ctx context.Context) (*models.ScheduleResponse, error) {
	cfg, err := s.scheduleRepo.GetShiftConfig(ctx)
	if err != nil {
		s.logger.Error("Get: failed to get shift config: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	rules, err := s.scheduleRepo.ListHolidayRules(ctx)
	if err != nil {
		s.logger.Error("Get: failed to list holiday rules: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(cfg, rules), nil
}

// Update заменяет конфигурацию смен целиком
// Некорректная конфигурация (пересечения, некратность единице слота) отклоняется с domain.ErrConfiguration
// и никогда не исправляется молча
func (s *Service) Update(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: shifts=%d, slotUnit=%d, horizon=%d",
		len(req.Shifts), req.SlotUnitMinutes, req.MaxBookingHorizonDays)

	// 1. Валидируем конфигурацию
	cfg := req.ToDomainConfig()
	if err := cfg.Validate(); err != nil {
		s.logger.Warn("Update: invalid configuration: %v", err)
		return nil, err
	}

	// 2. Сохраняем в транзакции: настройки и смены меняются вместе
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		_, err := s.scheduleRepo.SaveShiftConfig(ctx, cfg)
		return err
	})
	if err != nil {
		s.logger.Error("Update: failed to save configuration: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 3. Сбрасываем кэш после коммита
	s.invalidate()

	s.logger.Info("Update: configuration saved")
	return s.Get(ctx)
}

// ListHolidayRules получает правила календаря
func (s *Service) ListHolidayRules(ctx context.Context) ([]models.HolidayRuleResponse, error) {
	rules, err := s.scheduleRepo.ListHolidayRules(ctx)
	if err != nil {
		s.logger.Error("ListHolidayRules: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListHolidayRules - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainRules(rules), nil
}

// AddHolidayRule добавляет правило календаря
func (s *Service) AddHolidayRule(ctx context.Context, req *models.HolidayRuleRequest) (*models.HolidayRuleResponse, error) {
	s.logger.Info("AddHolidayRule: kind=%s", req.Kind)

	rule := req.ToDomainRule()
	if err := rule.Validate(); err != nil {
		s.logger.Warn("AddHolidayRule: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.scheduleRepo.CreateHolidayRule(ctx, rule)
	if err != nil {
		s.logger.Error("AddHolidayRule: repository error: %v", err)
		return nil, fmt.Errorf("%w: AddHolidayRule - repository error: %v", ErrInternal, err)
	}
	s.invalidate()

	s.logger.Info("AddHolidayRule: created rule id=%d", created.ID)
	resp := models.FromDomainRule(*created)
	return &resp, nil
}

// DeleteHolidayRule удаляет правило календаря
func (s *Service) DeleteHolidayRule(ctx context.Context, id int64) error {
	s.logger.Info("DeleteHolidayRule: id=%d", id)

	if err := s.scheduleRepo.DeleteHolidayRule(ctx, id); err != nil {
		if errors.Is(err, scheduleRepo.ErrHolidayRuleNotFound) {
			s.logger.Warn("DeleteHolidayRule: rule id=%d not found", id)
			return ErrHolidayRuleNotFound
		}
		s.logger.Error("DeleteHolidayRule: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteHolidayRule - repository error: %v", ErrInternal, err)
	}
	s.invalidate()

	return nil
}

// ImportLegacyHolidays переводит записи календаря со старыми флагами в явные правила
// Записи, которые ничего не означают (неактивный разовый диапазон), пропускаются.
// Импорт атомарный: ошибка в любой записи отменяет весь импорт
func (s *Service) ImportLegacyHolidays(ctx context.Context, entries []domain.HolidayEntry) (*models.LegacyImportResponse, error) {
	s.logger.Info("ImportLegacyHolidays: entries=%d", len(entries))

	rules := make([]domain.HolidayRule, 0, len(entries))
	ignored := 0
	for i, e := range entries {
		rule, ok, err := domain.HolidayRuleFromEntry(e)
		if err != nil {
			s.logger.Warn("ImportLegacyHolidays: entry #%d is invalid: %v", i, err)
			return nil, fmt.Errorf("%w: entry #%d: %v", ErrInvalidInput, i, err)
		}
		if !ok {
			ignored++
			continue
		}
		rules = append(rules, rule)
	}

	created := make([]domain.HolidayRule, 0, len(rules))
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		for _, rule := range rules {
			saved, err := s.scheduleRepo.CreateHolidayRule(ctx, rule)
			if err != nil {
				return err
			}
			created = append(created, *saved)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("ImportLegacyHolidays: repository error: %v", err)
		return nil, fmt.Errorf("%w: ImportLegacyHolidays - repository error: %v", ErrInternal, err)
	}
	s.invalidate()

	s.logger.Info("ImportLegacyHolidays: imported=%d, ignored=%d", len(created), ignored)
	return &models.LegacyImportResponse{
		Imported: models.FromDomainRules(created),
		Ignored:  ignored,
	}, nil
}

func (s *Service) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}
