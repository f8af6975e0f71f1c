package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

type countingRepo struct {
	cfg          domain.ShiftConfig
	rules        []domain.HolidayRule
	configReads  int
	holidayReads int
}

func (r *countingRepo) GetShiftConfig(_ context.Context) (*domain.ShiftConfig, error) {
	r.configReads++
	cfg := r.cfg
	return &cfg, nil
}

func (r *countingRepo) SaveShiftConfig(_ context.Context, cfg *domain.ShiftConfig) (*domain.ShiftConfig, error) {
	r.cfg = *cfg
	return cfg, nil
}

func (r *countingRepo) ListHolidayRules(_ context.Context) ([]domain.HolidayRule, error) {
	r.holidayReads++
	return append([]domain.HolidayRule(nil), r.rules...), nil
}

func (r *countingRepo) CreateHolidayRule(_ context.Context, rule domain.HolidayRule) (*domain.HolidayRule, error) {
	r.rules = append(r.rules, rule)
	return &rule, nil
}

func (r *countingRepo) DeleteHolidayRule(_ context.Context, _ int64) error {
	r.rules = nil
	return nil
}

func TestCachedRepository_ServesFromCacheUntilWrite(t *testing.T) {
	ctx := context.Background()
	next := &countingRepo{cfg: domain.ShiftConfig{SlotUnitMinutes: 15}}
	repo := NewCachedRepository(next, time.Minute)

	for i := 0; i < 3; i++ {
		cfg, err := repo.GetShiftConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, 15, cfg.SlotUnitMinutes)
	}
	assert.Equal(t, 1, next.configReads)

	_, err := repo.SaveShiftConfig(ctx, &domain.ShiftConfig{SlotUnitMinutes: 30})
	require.NoError(t, err)

	cfg, err := repo.GetShiftConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.SlotUnitMinutes)
	assert.Equal(t, 2, next.configReads)
}

func TestCachedRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	next := &countingRepo{cfg: domain.ShiftConfig{
		SlotUnitMinutes: 15,
		Shifts:          []domain.Shift{{Name: "morning"}},
	}}
	repo := NewCachedRepository(next, 0)

	cfg, err := repo.GetShiftConfig(ctx)
	require.NoError(t, err)
	cfg.Shifts[0].Name = "mutated"

	again, err := repo.GetShiftConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "morning", again.Shifts[0].Name)
}

func TestCachedRepository_HolidayInvalidation(t *testing.T) {
	ctx := context.Background()
	next := &countingRepo{}
	repo := NewCachedRepository(next, time.Minute)

	_, err := repo.ListHolidayRules(ctx)
	require.NoError(t, err)
	_, err = repo.ListHolidayRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next.holidayReads)

	_, err = repo.CreateHolidayRule(ctx, domain.FixedNonWorkingWeekday(time.Sunday))
	require.NoError(t, err)

	rules, err := repo.ListHolidayRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
	assert.Equal(t, 2, next.holidayReads)

	repo.Invalidate()
	_, err = repo.ListHolidayRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, next.holidayReads)
}
