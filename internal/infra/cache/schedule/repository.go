package schedule

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

const (
	shiftConfigKey  = "shift_config"
	holidayRulesKey = "holiday_rules"

	// Ключей всего два, размер с запасом
	cacheSize = 4
)

// Repository источник конфигурации расписания (infra/storage/schedule)
type Repository interface {
	GetShiftConfig(ctx context.Context) (*domain.ShiftConfig, error)
	SaveShiftConfig(ctx context.Context, cfg *domain.ShiftConfig) (*domain.ShiftConfig, error)
	ListHolidayRules(ctx context.Context) ([]domain.HolidayRule, error)
	CreateHolidayRule(ctx context.Context, rule domain.HolidayRule) (*domain.HolidayRule, error)
	DeleteHolidayRule(ctx context.Context, id int64) error
}

// CachedRepository кэширует конфигурацию расписания: её читает каждый запрос групп слотов,
// а меняет только администратор
type CachedRepository struct {
	next     Repository
	configs  *expirable.LRU[string, *domain.ShiftConfig]
	holidays *expirable.LRU[string, []domain.HolidayRule]
}

// NewCachedRepository оборачивает репозиторий; ttl <= 0 означает хранение до явной инвалидации
func NewCachedRepository(next Repository, ttl time.Duration) *CachedRepository {
	if ttl < 0 {
		ttl = 0
	}
	return &CachedRepository{
		next:     next,
		configs:  expirable.NewLRU[string, *domain.ShiftConfig](cacheSize, nil, ttl),
		holidays: expirable.NewLRU[string, []domain.HolidayRule](cacheSize, nil, ttl),
	}
}

func (r *CachedRepository) GetShiftConfig(ctx context.Context) (*domain.ShiftConfig, error) {
	if cfg, ok := r.configs.Get(shiftConfigKey); ok {
		return copyConfig(cfg), nil
	}

	cfg, err := r.next.GetShiftConfig(ctx)
	if err != nil {
		return nil, err
	}
	r.configs.Add(shiftConfigKey, copyConfig(cfg))
	return cfg, nil
}

func (r *CachedRepository) SaveShiftConfig(ctx context.Context, cfg *domain.ShiftConfig) (*domain.ShiftConfig, error) {
	r.configs.Remove(shiftConfigKey)
	return r.next.SaveShiftConfig(ctx, cfg)
}

func (r *CachedRepository) ListHolidayRules(ctx context.Context) ([]domain.HolidayRule, error) {
	if rules, ok := r.holidays.Get(holidayRulesKey); ok {
		return append([]domain.HolidayRule(nil), rules...), nil
	}

	rules, err := r.next.ListHolidayRules(ctx)
	if err != nil {
		return nil, err
	}
	r.holidays.Add(holidayRulesKey, append([]domain.HolidayRule(nil), rules...))
	return rules, nil
}

func (r *CachedRepository) CreateHolidayRule(ctx context.Context, rule domain.HolidayRule) (*domain.HolidayRule, error) {
	r.holidays.Remove(holidayRulesKey)
	return r.next.CreateHolidayRule(ctx, rule)
}

func (r *CachedRepository) DeleteHolidayRule(ctx context.Context, id int64) error {
	r.holidays.Remove(holidayRulesKey)
	return r.next.DeleteHolidayRule(ctx, id)
}

// Invalidate сбрасывает кэш; вызывается после фиксации транзакции с изменениями,
// чтобы параллельное чтение до коммита не оставило в кэше старое значение
func (r *CachedRepository) Invalidate() {
	r.configs.Purge()
	r.holidays.Purge()
}

func copyConfig(cfg *domain.ShiftConfig) *domain.ShiftConfig {
	out := *cfg
	out.Shifts = append([]domain.Shift(nil), cfg.Shifts...)
	return &out
}
