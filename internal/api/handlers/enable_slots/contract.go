package enable_slots

import (
	"context"

	flexibleSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/flexible_slots"
)

type EnableUseCase interface {
	Enable(ctx context.Context, req *flexibleSlots.EnableRequest) (*flexibleSlots.EnableResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
