package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicSlots/pkg/psqlbuilder"
)

const (
	settingsTable = "clinic_schedule_settings"
	shiftsTable   = "clinic_shifts"
	holidaysTable = "holiday_rules"

	// Настройки расписания - одна строка на клинику
	settingsID = 1
)

// Repository репозиторий конфигурации расписания клиники (смены, единица слота, календарь)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetShiftConfig получает настройки и смены в порядке определения
func (r *Repository) GetShiftConfig(ctx context.Context) (*domain.ShiftConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_unit_minutes", "max_booking_horizon_days", "updated_at").
		From(settingsTable).
		Where(squirrel.Eq{"id": settingsID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetShiftConfig - build settings query: %v", ErrBuildQuery, err)
	}

	var cfg domain.ShiftConfig
	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.SlotUnitMinutes,
		&cfg.MaxBookingHorizonDays,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetShiftConfig - scan settings: %v", ErrScanRow, err)
	}
	cfg.UpdatedAt = updatedAt.Time

	query, args, err = psqlbuilder.Select("name", "start_time", "end_time", "is_active").
		From(shiftsTable).
		OrderBy("position ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetShiftConfig - build shifts query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetShiftConfig - execute shifts query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	cfg.Shifts = make([]domain.Shift, 0)
	for rows.Next() {
		var s domain.Shift
		if err := rows.Scan(&s.Name, &s.StartTime, &s.EndTime, &s.IsActive); err != nil {
			return nil, fmt.Errorf("%w: GetShiftConfig - scan shift: %v", ErrScanRow, err)
		}
		cfg.Shifts = append(cfg.Shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetShiftConfig - rows error: %v", ErrScanRow, err)
	}

	return &cfg, nil
}

// SaveShiftConfig перезаписывает настройки и список смен
// Вызывается внутри транзакции: смены удаляются и вставляются заново в порядке cfg.Shifts
func (r *Repository) SaveShiftConfig(ctx context.Context, cfg *domain.ShiftConfig) (*domain.ShiftConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(settingsTable).
		Set("slot_unit_minutes", cfg.SlotUnitMinutes).
		Set("max_booking_horizon_days", cfg.MaxBookingHorizonDays).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": settingsID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SaveShiftConfig - build settings update: %v", ErrBuildQuery, err)
	}

	var updatedAt time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: SaveShiftConfig - execute settings update: %v", ErrExecQuery, err)
	}

	query, args, err = psqlbuilder.Delete(shiftsTable).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SaveShiftConfig - build shifts delete: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: SaveShiftConfig - execute shifts delete: %v", ErrExecQuery, err)
	}

	if len(cfg.Shifts) > 0 {
		insertBuilder := psqlbuilder.Insert(shiftsTable).
			Columns("name", "start_time", "end_time", "is_active", "position")
		for i, s := range cfg.Shifts {
			insertBuilder = insertBuilder.Values(s.Name, s.StartTime, s.EndTime, s.IsActive, i)
		}

		query, args, err = insertBuilder.ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: SaveShiftConfig - build shifts insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("%w: SaveShiftConfig - execute shifts insert: %v", ErrExecQuery, err)
		}
	}

	saved := *cfg
	saved.UpdatedAt = updatedAt
	return &saved, nil
}

// ListHolidayRules получает все правила календаря
func (r *Repository) ListHolidayRules(ctx context.Context) ([]domain.HolidayRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "kind", "start_date", "end_date", "day_of_week", "note", "created_at").
		From(holidaysTable).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListHolidayRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHolidayRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]domain.HolidayRule, 0)
	for rows.Next() {
		var rule domain.HolidayRule
		var kind string
		var startDate, endDate sql.NullTime
		var dayOfWeek sql.NullInt16

		if err := rows.Scan(&rule.ID, &kind, &startDate, &endDate, &dayOfWeek, &rule.Note, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListHolidayRules - scan row: %v", ErrScanRow, err)
		}

		rule.Kind = domain.HolidayRuleKind(kind)
		if startDate.Valid {
			d := domain.DateOf(startDate.Time)
			rule.StartDate = &d
		}
		if endDate.Valid {
			d := domain.DateOf(endDate.Time)
			rule.EndDate = &d
		}
		if dayOfWeek.Valid {
			wd := time.Weekday(dayOfWeek.Int16)
			rule.Weekday = &wd
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListHolidayRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// CreateHolidayRule сохраняет правило календаря
func (r *Repository) CreateHolidayRule(ctx context.Context, rule domain.HolidayRule) (*domain.HolidayRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var startDate, endDate interface{}
	if rule.StartDate != nil {
		startDate = domain.DateOf(*rule.StartDate)
	}
	if rule.EndDate != nil {
		endDate = domain.DateOf(*rule.EndDate)
	}
	var dayOfWeek interface{}
	if rule.Weekday != nil {
		dayOfWeek = int(*rule.Weekday)
	}

	query, args, err := psqlbuilder.Insert(holidaysTable).
		Columns("kind", "start_date", "end_date", "day_of_week", "note").
		Values(string(rule.Kind), startDate, endDate, dayOfWeek, rule.Note).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateHolidayRule - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &rule.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateHolidayRule - execute insert: %v", ErrExecQuery, err)
	}

	return &rule, nil
}

// DeleteHolidayRule удаляет правило календаря
func (r *Repository) DeleteHolidayRule(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(holidaysTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteHolidayRule - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteHolidayRule - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteHolidayRule - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrHolidayRuleNotFound
	}

	return nil
}
