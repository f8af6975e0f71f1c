package preview_slots

import (
	"context"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	flexibleSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/flexible_slots"
)

type PreviewUseCase interface {
	Preview(ctx context.Context, filter domain.SlotFilter) (*flexibleSlots.PreviewResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
