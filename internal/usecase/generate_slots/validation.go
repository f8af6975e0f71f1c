package generate_slots

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// validateDayRequest валидирует входные данные запроса одного дня
func validateDayRequest(req *DayRequest) error {
	if req.RoomID == uuid.Nil {
		return fmt.Errorf("%w: roomID is required", ErrInvalidInput)
	}
	if req.PractitionerID == uuid.Nil {
		return fmt.Errorf("%w: practitionerID is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.Mode != ModePatient && req.Mode != ModeAdmin {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, req.Mode)
	}
	return nil
}

// validateBackfillRequest валидирует период догенерации
func validateBackfillRequest(req *BackfillRequest) error {
	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return fmt.Errorf("%w: dateFrom and dateTo are required", ErrInvalidInput)
	}
	if domain.DateOf(req.DateTo).Before(domain.DateOf(req.DateFrom)) {
		return fmt.Errorf("%w: dateTo is before dateFrom", ErrInvalidInput)
	}
	if domain.DaysBetween(req.DateFrom, req.DateTo) >= domain.MaxFilterRangeDays {
		return fmt.Errorf("%w: range must not exceed %d days", ErrInvalidInput, domain.MaxFilterRangeDays)
	}
	return nil
}
