package get_slot_groups

import (
	"context"

	getSlotGroups "github.com/m04kA/SMC-ClinicSlots/internal/usecase/get_slot_groups"
)

type GetSlotGroupsUseCase interface {
	Execute(ctx context.Context, req *getSlotGroups.Request) (*getSlotGroups.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
