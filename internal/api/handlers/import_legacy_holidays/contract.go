package import_legacy_holidays

import (
	"context"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/internal/service/schedule_config/models"
)

type ScheduleService interface {
	ImportLegacyHolidays(ctx context.Context, entries []domain.HolidayEntry) (*models.LegacyImportResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
