package disable_slots

import (
	"context"

	flexibleSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/flexible_slots"
)

type DisableUseCase interface {
	Disable(ctx context.Context, req *flexibleSlots.DisableRequest) (*flexibleSlots.DisableResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
