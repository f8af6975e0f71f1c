package materialize_slots

import (
	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	generateSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/generate_slots"
)

// MaterializeRequest HTTP request model
type MaterializeRequest struct {
	DateRange       []string `json:"dateRange"`
	RoomIDs         []string `json:"roomIds,omitempty"`
	PractitionerIDs []string `json:"practitionerIds,omitempty"`
}

// MaterializeResponse HTTP response model
type MaterializeResponse struct {
	Days       int          `json:"days"`
	Inserted   int          `json:"inserted"`
	ClosedDays int          `json:"closedDays"`
	Failures   []DayFailure `json:"failures"`
}

// DayFailure день, который не удалось материализовать
type DayFailure struct {
	RoomID         string `json:"roomId"`
	PractitionerID string `json:"practitionerId"`
	Date           string `json:"date"`
	Reason         string `json:"reason"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *MaterializeRequest) ToUseCaseRequest() (*generateSlots.BackfillRequest, error) {
	filter, err := (&handlers.FilterRequest{
		DateRange:       r.DateRange,
		RoomIDs:         r.RoomIDs,
		PractitionerIDs: r.PractitionerIDs,
	}).ToDomainFilter()
	if err != nil {
		return nil, err
	}

	return &generateSlots.BackfillRequest{
		DateFrom:        filter.DateFrom,
		DateTo:          filter.DateTo,
		RoomIDs:         filter.RoomIDs,
		PractitionerIDs: filter.PractitionerIDs,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSlots.BackfillResponse) *MaterializeResponse {
	failures := make([]DayFailure, len(resp.Failures))
	for i, f := range resp.Failures {
		failures[i] = DayFailure{
			RoomID:         f.RoomID.String(),
			PractitionerID: f.PractitionerID.String(),
			Date:           f.Date.Format(domain.DateFormat),
			Reason:         f.Reason,
		}
	}
	return &MaterializeResponse{
		Days:       resp.Days,
		Inserted:   resp.Inserted,
		ClosedDays: resp.ClosedDays,
		Failures:   failures,
	}
}
