package get_slot_groups

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RoomID == uuid.Nil {
		return fmt.Errorf("%w: roomId is required", ErrInvalidInput)
	}
	if req.PractitionerID == uuid.Nil {
		return fmt.Errorf("%w: practitionerId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.ServiceDurationMinutes <= 0 {
		return fmt.Errorf("%w: serviceDurationMinutes must be positive", ErrInvalidInput)
	}
	if req.ServiceDurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: serviceDurationMinutes must not exceed %d", ErrInvalidInput, domain.MaxServiceDurationMinutes)
	}
	return nil
}
