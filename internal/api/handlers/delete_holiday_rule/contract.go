package delete_holiday_rule

import "context"

type ScheduleService interface {
	DeleteHolidayRule(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
