package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

var (
	// ErrInvalidDateRange диапазон дат не из двух дат YYYY-MM-DD
	ErrInvalidDateRange = errors.New("dateRange must contain two dates in YYYY-MM-DD format")

	// ErrInvalidID некорректный UUID в списке
	ErrInvalidID = errors.New("invalid id")
)

// FilterRequest фильтр массовых операций в HTTP-представлении
// Отсутствующий список (nil) означает "все значения", пустой список - "ни одного"
type FilterRequest struct {
	DateRange       []string `json:"dateRange"`
	Shifts          []string `json:"shifts,omitempty"`
	RoomIDs         []string `json:"roomIds,omitempty"`
	PractitionerIDs []string `json:"practitionerIds,omitempty"`
}

// ToDomainFilter конвертирует фильтр в доменную модель, сохраняя различие nil и пустого списка
func (f *FilterRequest) ToDomainFilter() (domain.SlotFilter, error) {
	if len(f.DateRange) != 2 {
		return domain.SlotFilter{}, ErrInvalidDateRange
	}
	from, err := domain.ParseDate(f.DateRange[0])
	if err != nil {
		return domain.SlotFilter{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	to, err := domain.ParseDate(f.DateRange[1])
	if err != nil {
		return domain.SlotFilter{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}

	roomIDs, err := ParseUUIDList(f.RoomIDs)
	if err != nil {
		return domain.SlotFilter{}, fmt.Errorf("roomIds: %w", err)
	}
	practitionerIDs, err := ParseUUIDList(f.PractitionerIDs)
	if err != nil {
		return domain.SlotFilter{}, fmt.Errorf("practitionerIds: %w", err)
	}

	return domain.SlotFilter{
		DateFrom:        from,
		DateTo:          to,
		Shifts:          f.Shifts,
		RoomIDs:         roomIDs,
		PractitionerIDs: practitionerIDs,
	}, nil
}

// ParseUUIDList парсит список идентификаторов; nil остаётся nil
func ParseUUIDList(values []string) ([]uuid.UUID, error) {
	if values == nil {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("%w %q", ErrInvalidID, v)
		}
		out = append(out, id)
	}
	return out, nil
}

// FilterFromQuery читает фильтр из query параметров dateFrom, dateTo, shifts, roomIds, practitionerIds
// Отсутствующий параметр-список означает "все значения", присутствующий пустой - "ни одного"
func FilterFromQuery(r *http.Request) (*FilterRequest, error) {
	query := r.URL.Query()
	dateFrom, dateTo := query.Get("dateFrom"), query.Get("dateTo")
	if dateFrom == "" || dateTo == "" {
		return nil, ErrInvalidDateRange
	}

	return &FilterRequest{
		DateRange:       []string{dateFrom, dateTo},
		Shifts:          QueryList(r, "shifts"),
		RoomIDs:         QueryList(r, "roomIds"),
		PractitionerIDs: QueryList(r, "practitionerIds"),
	}, nil
}
