package import_legacy_holidays

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// LegacyHolidayEntry запись календаря в старом формате с флагами
type LegacyHolidayEntry struct {
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	IsRecurring bool    `json:"isRecurring"`
	DayOfWeek   *int    `json:"dayOfWeek,omitempty"`
	IsActive    bool    `json:"isActive"`
	Note        string  `json:"note,omitempty"`
}

// ImportRequest HTTP request model
type ImportRequest struct {
	Entries []LegacyHolidayEntry `json:"entries"`
}

// ToDomainEntries конвертирует записи в доменную модель
func (r *ImportRequest) ToDomainEntries() ([]domain.HolidayEntry, error) {
	out := make([]domain.HolidayEntry, len(r.Entries))
	for i, e := range r.Entries {
		entry := domain.HolidayEntry{
			IsRecurring: e.IsRecurring,
			IsActive:    e.IsActive,
			Note:        e.Note,
		}
		if e.StartDate != nil {
			d, err := domain.ParseDate(*e.StartDate)
			if err != nil {
				return nil, fmt.Errorf("entry #%d: startDate: %w", i, err)
			}
			entry.StartDate = &d
		}
		if e.EndDate != nil {
			d, err := domain.ParseDate(*e.EndDate)
			if err != nil {
				return nil, fmt.Errorf("entry #%d: endDate: %w", i, err)
			}
			entry.EndDate = &d
		}
		if e.DayOfWeek != nil {
			if *e.DayOfWeek < 0 || *e.DayOfWeek > 6 {
				return nil, fmt.Errorf("entry #%d: dayOfWeek %d out of range", i, *e.DayOfWeek)
			}
			day := time.Weekday(*e.DayOfWeek)
			entry.DayOfWeek = &day
		}
		out[i] = entry
	}
	return out, nil
}
