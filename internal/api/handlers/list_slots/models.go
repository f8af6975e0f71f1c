package list_slots

import (
	"net/http"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicSlots/internal/service/slots/models"
)

// ToServiceRequest создает запрос сервиса из query параметров
// Query params: dateFrom, dateTo (обязательны), shifts, roomIds, practitionerIds, status
func ToServiceRequest(r *http.Request) (*models.ListSlotsRequest, error) {
	filterReq, err := handlers.FilterFromQuery(r)
	if err != nil {
		return nil, err
	}

	filter, err := filterReq.ToDomainFilter()
	if err != nil {
		return nil, err
	}

	req := &models.ListSlotsRequest{
		DateFrom:        filter.DateFrom,
		DateTo:          filter.DateTo,
		Shifts:          filter.Shifts,
		RoomIDs:         filter.RoomIDs,
		PractitionerIDs: filter.PractitionerIDs,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	return req, nil
}
