package release_slots

import (
	"context"

	"github.com/m04kA/SMC-ClinicSlots/internal/service/slots/models"
)

type SlotService interface {
	Release(ctx context.Context, req *models.ReleaseSlotsRequest) (*models.ReleaseSlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
