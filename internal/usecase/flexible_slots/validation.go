package flexible_slots

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// validateFilterShape проверяет фильтр без обращения к хранилищу
func validateFilterShape(f domain.SlotFilter) error {
	if f.DateFrom.IsZero() || f.DateTo.IsZero() {
		return fmt.Errorf("%w: dateRange is required", ErrInvalidFilter)
	}
	if domain.DateOf(f.DateFrom).After(domain.DateOf(f.DateTo)) {
		return fmt.Errorf("%w: dateRange start %s is after end %s", ErrInvalidFilter,
			f.DateFrom.Format(domain.DateFormat), f.DateTo.Format(domain.DateFormat))
	}
	if domain.DaysBetween(f.DateFrom, f.DateTo) >= domain.MaxFilterRangeDays {
		return fmt.Errorf("%w: dateRange must not exceed %d days", ErrInvalidFilter, domain.MaxFilterRangeDays)
	}
	if f.Statuses != nil {
		return fmt.Errorf("%w: status narrowing is not allowed in bulk filters", ErrInvalidFilter)
	}
	return nil
}

// validateFilter проверяет фильтр целиком: неизвестные смены, кабинеты и врачи отклоняются,
// а не молча дают пустую выборку
func (uc *UseCase) validateFilter(ctx context.Context, f domain.SlotFilter) error {
	if err := validateFilterShape(f); err != nil {
		return err
	}

	if len(f.Shifts) > 0 {
		cfg, err := uc.scheduleRepo.GetShiftConfig(ctx)
		if err != nil {
			return fmt.Errorf("%w: failed to get shift config: %v", ErrInternal, err)
		}
		for _, name := range f.Shifts {
			if _, ok := cfg.ShiftByName(name); !ok {
				return fmt.Errorf("%w: unknown shift %q", ErrInvalidFilter, name)
			}
		}
	}

	if len(f.RoomIDs) > 0 {
		unknown, err := uc.directoryRepo.UnknownRoomIDs(ctx, f.RoomIDs)
		if err != nil {
			return fmt.Errorf("%w: failed to check rooms: %v", ErrInternal, err)
		}
		if len(unknown) > 0 {
			return fmt.Errorf("%w: unknown roomIds %s", ErrInvalidFilter, joinIDs(unknown))
		}
	}

	if len(f.PractitionerIDs) > 0 {
		unknown, err := uc.directoryRepo.UnknownPractitionerIDs(ctx, f.PractitionerIDs)
		if err != nil {
			return fmt.Errorf("%w: failed to check practitioners: %v", ErrInternal, err)
		}
		if len(unknown) > 0 {
			return fmt.Errorf("%w: unknown practitionerIds %s", ErrInvalidFilter, joinIDs(unknown))
		}
	}

	return nil
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
