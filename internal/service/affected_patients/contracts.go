package affected_patients

import (
	"context"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// AppointmentClient интерфейс клиента AppointmentService
type AppointmentClient interface {
	GetBySlotIDs(ctx context.Context, slotIDs []int64) ([]domain.Appointment, error)
}

// Metrics размеры корзин пациентов (nil-safe *metrics.Metrics)
type Metrics interface {
	ObserveAffectedPatients(bucket string, n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
