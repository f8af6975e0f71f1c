package add_holiday_rule

import (
	"context"

	"github.com/m04kA/SMC-ClinicSlots/internal/service/schedule_config/models"
)

type ScheduleService interface {
	AddHolidayRule(ctx context.Context, req *models.HolidayRuleRequest) (*models.HolidayRuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
