package materialize_slots

import (
	"context"

	generateSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/generate_slots"
)

type BackfillUseCase interface {
	Backfill(ctx context.Context, req *generateSlots.BackfillRequest) (*generateSlots.BackfillResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
