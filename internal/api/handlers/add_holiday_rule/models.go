package add_holiday_rule

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/internal/service/schedule_config/models"
	"github.com/m04kA/SMC-ClinicSlots/pkg/ptr"
)

var errInvalidDayOfWeek = errors.New("dayOfWeek must be in range 0..6 (0 = Sunday)")

// AddHolidayRuleRequest HTTP request model
type AddHolidayRuleRequest struct {
	Kind      string  `json:"kind"`                // closed_range | fixed_non_working_weekday | fixed_working_weekday
	StartDate *string `json:"startDate,omitempty"` // "2025-12-31"
	EndDate   *string `json:"endDate,omitempty"`
	DayOfWeek *int    `json:"dayOfWeek,omitempty"` // 0 = воскресенье
	Note      string  `json:"note,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AddHolidayRuleRequest) ToServiceRequest() (*models.HolidayRuleRequest, error) {
	req := &models.HolidayRuleRequest{
		Kind: domain.HolidayRuleKind(r.Kind),
		Note: r.Note,
	}

	var err error
	if req.StartDate, err = parseOptionalDate(r.StartDate); err != nil {
		return nil, err
	}
	if req.EndDate, err = parseOptionalDate(r.EndDate); err != nil {
		return nil, err
	}
	if r.DayOfWeek != nil {
		if *r.DayOfWeek < 0 || *r.DayOfWeek > 6 {
			return nil, errInvalidDayOfWeek
		}
		req.Weekday = ptr.Ptr(time.Weekday(*r.DayOfWeek))
	}

	return req, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	d, err := domain.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return ptr.Ptr(d), nil
}
