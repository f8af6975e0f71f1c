package generate_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// GenerateDay разворачивает конфигурацию смен в слоты одного дня
// Слоты идут по сменам в порядке определения, внутри смены - по времени начала.
// Выходной день не ошибка: возвращается план с Closed=true и без слотов.
// Длительность смены, не кратная единице слота, - domain.ErrConfiguration (без усечения).
func GenerateDay(cfg *domain.ShiftConfig, calendar domain.HolidayCalendar, req DayRequest, today time.Time) (*DayPlan, error) {
	date := domain.DateOf(req.Date)
	today = domain.DateOf(today)

	if date.Before(today) {
		return nil, fmt.Errorf("%w: %s", ErrDateInPast, date.Format(domain.DateFormat))
	}
	if req.Mode != ModeAdmin && cfg.HasHorizonLimit() {
		if domain.DaysBetween(today, date) > cfg.MaxBookingHorizonDays {
			return nil, fmt.Errorf("%w: %s is more than %d days ahead",
				ErrBeyondHorizon, date.Format(domain.DateFormat), cfg.MaxBookingHorizonDays)
		}
	}

	if open, reason := calendar.IsWorkingDay(date); !open {
		return &DayPlan{Slots: []*domain.Slot{}, Closed: true, ClosedReason: reason}, nil
	}

	slots := make([]*domain.Slot, 0)
	for _, shift := range cfg.ActiveShifts() {
		n, err := cfg.SlotCount(shift)
		if err != nil {
			return nil, err
		}

		start := shift.StartTime
		for i := 0; i < n; i++ {
			end, err := start.AddMinutes(cfg.SlotUnitMinutes)
			if err != nil {
				return nil, fmt.Errorf("%w: shift %q: %v", domain.ErrConfiguration, shift.Name, err)
			}
			slots = append(slots, &domain.Slot{
				RoomID:         req.RoomID,
				PractitionerID: req.PractitionerID,
				Date:           date,
				ShiftName:      shift.Name,
				StartTime:      start,
				EndTime:        end,
				Status:         domain.SlotAvailable,
			})
			start = end
		}
	}

	return &DayPlan{Slots: slots}, nil
}
