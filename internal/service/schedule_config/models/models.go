package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/pkg/ptr"
	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

// Request модели

// Shift смена в запросе и ответе
type Shift struct {
	Name      string           `json:"name"`
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	IsActive  bool             `json:"isActive"`
}

// UpdateScheduleRequest полная замена конфигурации смен
// Порядок Shifts задаёт порядок генерации слотов
type UpdateScheduleRequest struct {
	Shifts                []Shift `json:"shifts"`
	SlotUnitMinutes       int     `json:"slotUnitMinutes"`
	MaxBookingHorizonDays int     `json:"maxBookingHorizonDays"` // 0 = без ограничений
}

// HolidayRuleRequest запрос на добавление правила календаря
type HolidayRuleRequest struct {
	Kind      domain.HolidayRuleKind
	StartDate *time.Time    // для closed_range
	EndDate   *time.Time    // для closed_range; nil = один день
	Weekday   *time.Weekday // для weekday-правил
	Note      string
}

// ToDomainRule конвертирует запрос в доменное правило
func (r *HolidayRuleRequest) ToDomainRule() domain.HolidayRule {
	switch r.Kind {
	case domain.HolidayClosedRange:
		if r.StartDate == nil {
			return domain.HolidayRule{Kind: r.Kind, Note: r.Note}
		}
		end := r.StartDate
		if r.EndDate != nil {
			end = r.EndDate
		}
		return domain.ClosedRange(*r.StartDate, *end, r.Note)
	default:
		return domain.HolidayRule{Kind: r.Kind, Weekday: r.Weekday, Note: r.Note}
	}
}

// Response модели

// ScheduleResponse конфигурация смен вместе с правилами календаря
type ScheduleResponse struct {
	Shifts                []Shift               `json:"shifts"`
	SlotUnitMinutes       int                   `json:"slotUnitMinutes"`
	MaxBookingHorizonDays int                   `json:"maxBookingHorizonDays"`
	HolidayRules          []HolidayRuleResponse `json:"holidayRules"`
	UpdatedAt             time.Time             `json:"updatedAt"`
}

// HolidayRuleResponse правило календаря
type HolidayRuleResponse struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	StartDate *string   `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate   *string   `json:"endDate,omitempty"`
	DayOfWeek *int      `json:"dayOfWeek,omitempty"` // 0 = воскресенье
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// LegacyImportResponse итог импорта календаря в старом формате
type LegacyImportResponse struct {
	Imported []HolidayRuleResponse `json:"imported"`
	Ignored  int                   `json:"ignored"`
}

// FromDomainSchedule конвертирует доменную конфигурацию в ответ
func FromDomainSchedule(cfg *domain.ShiftConfig, rules []domain.HolidayRule) *ScheduleResponse {
	shifts := make([]Shift, len(cfg.Shifts))
	for i, s := range cfg.Shifts {
		shifts[i] = Shift{Name: s.Name, StartTime: s.StartTime, EndTime: s.EndTime, IsActive: s.IsActive}
	}
	return &ScheduleResponse{
		Shifts:                shifts,
		SlotUnitMinutes:       cfg.SlotUnitMinutes,
		MaxBookingHorizonDays: cfg.MaxBookingHorizonDays,
		HolidayRules:          FromDomainRules(rules),
		UpdatedAt:             cfg.UpdatedAt,
	}
}

// FromDomainRules конвертирует правила календаря в ответ
func FromDomainRules(rules []domain.HolidayRule) []HolidayRuleResponse {
	out := make([]HolidayRuleResponse, len(rules))
	for i, r := range rules {
		out[i] = FromDomainRule(r)
	}
	return out
}

// FromDomainRule конвертирует одно правило календаря в ответ
func FromDomainRule(r domain.HolidayRule) HolidayRuleResponse {
	resp := HolidayRuleResponse{
		ID:        r.ID,
		Kind:      string(r.Kind),
		Note:      r.Note,
		CreatedAt: r.CreatedAt,
	}
	if r.StartDate != nil {
		resp.StartDate = ptr.Ptr(r.StartDate.Format(domain.DateFormat))
	}
	if r.EndDate != nil {
		resp.EndDate = ptr.Ptr(r.EndDate.Format(domain.DateFormat))
	}
	if r.Weekday != nil {
		resp.DayOfWeek = ptr.Ptr(int(*r.Weekday))
	}
	return resp
}

// ToDomainConfig конвертирует запрос обновления в доменную конфигурацию
func (r *UpdateScheduleRequest) ToDomainConfig() *domain.ShiftConfig {
	shifts := make([]domain.Shift, len(r.Shifts))
	for i, s := range r.Shifts {
		shifts[i] = domain.Shift{Name: s.Name, StartTime: s.StartTime, EndTime: s.EndTime, IsActive: s.IsActive}
	}
	return &domain.ShiftConfig{
		Shifts:                shifts,
		SlotUnitMinutes:       r.SlotUnitMinutes,
		MaxBookingHorizonDays: r.MaxBookingHorizonDays,
	}
}
