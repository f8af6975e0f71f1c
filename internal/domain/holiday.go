package domain

import (
	"fmt"
	"time"
)

// HolidayRuleKind вид правила календаря
type HolidayRuleKind string

const (
	// HolidayClosedRange клиника закрыта в диапазоне дат [StartDate, EndDate]
	HolidayClosedRange HolidayRuleKind = "closed_range"
	// HolidayFixedNonWorkingWeekday еженедельный выходной день
	HolidayFixedNonWorkingWeekday HolidayRuleKind = "fixed_non_working_weekday"
	// HolidayFixedWorkingWeekday еженедельный рабочий день
	HolidayFixedWorkingWeekday HolidayRuleKind = "fixed_working_weekday"
)

// HolidayRule явный вариант правила календаря
// Для HolidayClosedRange заполнены StartDate/EndDate, для weekday-правил - Weekday
type HolidayRule struct {
	ID        int64
	Kind      HolidayRuleKind
	StartDate *time.Time
	EndDate   *time.Time
	Weekday   *time.Weekday
	Note      string
	CreatedAt time.Time
}

// ClosedRange правило закрытия клиники на диапазон дат
func ClosedRange(start, end time.Time, note string) HolidayRule {
	s, e := DateOf(start), DateOf(end)
	return HolidayRule{Kind: HolidayClosedRange, StartDate: &s, EndDate: &e, Note: note}
}

// FixedNonWorkingWeekday еженедельный выходной
func FixedNonWorkingWeekday(day time.Weekday) HolidayRule {
	return HolidayRule{Kind: HolidayFixedNonWorkingWeekday, Weekday: &day}
}

// FixedWorkingWeekday еженедельный рабочий день
func FixedWorkingWeekday(day time.Weekday) HolidayRule {
	return HolidayRule{Kind: HolidayFixedWorkingWeekday, Weekday: &day}
}

// Validate проверяет, что у правила заполнены поля своего вида
func (r HolidayRule) Validate() error {
	switch r.Kind {
	case HolidayClosedRange:
		if r.StartDate == nil || r.EndDate == nil {
			return fmt.Errorf("%w: closed range requires start and end dates", ErrInvalidHolidayRule)
		}
		if r.EndDate.Before(*r.StartDate) {
			return fmt.Errorf("%w: closed range ends before it starts", ErrInvalidHolidayRule)
		}
	case HolidayFixedNonWorkingWeekday, HolidayFixedWorkingWeekday:
		if r.Weekday == nil || *r.Weekday < time.Sunday || *r.Weekday > time.Saturday {
			return fmt.Errorf("%w: weekday rule requires a day of week", ErrInvalidHolidayRule)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidHolidayRule, r.Kind)
	}
	return nil
}

// Covers сообщает, закрывает ли ClosedRange указанную дату
func (r HolidayRule) Covers(date time.Time) bool {
	if r.Kind != HolidayClosedRange || r.StartDate == nil || r.EndDate == nil {
		return false
	}
	d := DateOf(date)
	return !d.Before(DateOf(*r.StartDate)) && !d.After(DateOf(*r.EndDate))
}

// HolidayEntry запись календаря в старом формате с флагами
// isRecurring=true и isActive=false означает рабочий день недели
type HolidayEntry struct {
	StartDate   *time.Time
	EndDate     *time.Time
	IsRecurring bool
	DayOfWeek   *time.Weekday
	IsActive    bool
	Note        string
}

// HolidayRuleFromEntry переводит запись с флагами в явное правило
// Второе значение false, если запись ничего не означает (неактивный разовый диапазон)
func HolidayRuleFromEntry(e HolidayEntry) (HolidayRule, bool, error) {
	if e.IsRecurring {
		if e.DayOfWeek == nil {
			return HolidayRule{}, false, fmt.Errorf("%w: recurring entry without day of week", ErrInvalidHolidayRule)
		}
		if e.IsActive {
			return FixedNonWorkingWeekday(*e.DayOfWeek), true, nil
		}
		return FixedWorkingWeekday(*e.DayOfWeek), true, nil
	}

	if !e.IsActive {
		return HolidayRule{}, false, nil
	}
	if e.StartDate == nil {
		return HolidayRule{}, false, fmt.Errorf("%w: closed range without start date", ErrInvalidHolidayRule)
	}
	end := e.StartDate
	if e.EndDate != nil {
		end = e.EndDate
	}
	rule := ClosedRange(*e.StartDate, *end, e.Note)
	if err := rule.Validate(); err != nil {
		return HolidayRule{}, false, err
	}
	return rule, true, nil
}

// HolidayCalendar набор правил и политика для случая без еженедельных правил
type HolidayCalendar struct {
	Rules                  []HolidayRule
	OpenWithoutWeeklyRules bool
}

// ClosedReason причина, по которой клиника не работает в дату
type ClosedReason string

const (
	ClosedByRange          ClosedReason = "closed_range"
	ClosedByWeekday        ClosedReason = "non_working_weekday"
	ClosedNotAWorkingDay   ClosedReason = "not_a_working_weekday"
	ClosedNoWeeklySchedule ClosedReason = "no_weekly_schedule"
)

// IsWorkingDay решает, работает ли клиника в дату
// Порядок: закрытые диапазоны, еженедельные выходные, затем набор рабочих дней (если он задан)
func (c HolidayCalendar) IsWorkingDay(date time.Time) (bool, ClosedReason) {
	weekday := DateOf(date).Weekday()

	hasWorkingWeekdays := false
	isWorkingWeekday := false
	hasWeeklyRules := false

	for _, r := range c.Rules {
		switch r.Kind {
		case HolidayClosedRange:
			if r.Covers(date) {
				return false, ClosedByRange
			}
		case HolidayFixedNonWorkingWeekday:
			hasWeeklyRules = true
			if r.Weekday != nil && *r.Weekday == weekday {
				return false, ClosedByWeekday
			}
		case HolidayFixedWorkingWeekday:
			hasWeeklyRules = true
			hasWorkingWeekdays = true
			if r.Weekday != nil && *r.Weekday == weekday {
				isWorkingWeekday = true
			}
		}
	}

	if hasWorkingWeekdays && !isWorkingWeekday {
		return false, ClosedNotAWorkingDay
	}
	if !hasWeeklyRules && !c.OpenWithoutWeeklyRules {
		return false, ClosedNoWeeklySchedule
	}
	return true, ""
}
