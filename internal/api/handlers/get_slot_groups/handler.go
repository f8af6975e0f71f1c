package get_slot_groups

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	getSlotGroups "github.com/m04kA/SMC-ClinicSlots/internal/usecase/get_slot_groups"
)

const (
	msgInvalidRoomID         = "некорректный ID кабинета"
	msgInvalidPractitionerID = "некорректный ID врача"
	msgMissingDate           = "дата обязательна"
	msgMissingDuration       = "длительность услуги обязательна"
	msgInvalidParams         = "некорректные параметры: дата ожидается в формате YYYY-MM-DD, длительность в минутах"
	msgInvalidInput          = "некорректная длительность услуги"
	msgAssignmentNotFound    = "врач не ведет прием в этом кабинете"
	msgInvalidDate           = "дата в прошлом или за пределами горизонта записи"
	msgConfiguration         = "конфигурация смен клиники некорректна"
)

type Handler struct {
	useCase GetSlotGroupsUseCase
	logger  Logger
}

func NewHandler(useCase GetSlotGroupsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/rooms/{roomId}/practitioners/{practitionerId}/slot-groups
// Query params: date (required, YYYY-MM-DD), serviceDurationMinutes (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	roomID, err := uuid.Parse(vars["roomId"])
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/practitioners/{id}/slot-groups - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	practitionerID, err := uuid.Parse(vars["practitionerId"])
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/practitioners/{id}/slot-groups - Invalid practitioner ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPractitionerID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /rooms/{id}/practitioners/{id}/slot-groups - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	durationStr := r.URL.Query().Get("serviceDurationMinutes")
	if durationStr == "" {
		h.logger.Warn("GET /rooms/{id}/practitioners/{id}/slot-groups - Missing service duration")
		handlers.RespondBadRequest(w, msgMissingDuration)
		return
	}

	useCaseReq, err := ToUseCaseRequest(roomID, practitionerID, dateStr, durationStr)
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/practitioners/{id}/slot-groups - Invalid query params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getSlotGroups.ErrInvalidInput):
			h.logger.Warn("GET /rooms/{id}/practitioners/{id}/slot-groups - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getSlotGroups.ErrAssignmentNotFound):
			h.logger.Warn("GET /rooms/{id}/practitioners/{id}/slot-groups - Assignment not found: room_id=%s, practitioner_id=%s",
				roomID, practitionerID)
			handlers.RespondNotFound(w, msgAssignmentNotFound)

		case errors.Is(err, getSlotGroups.ErrInvalidDate):
			h.logger.Warn("GET /rooms/{id}/practitioners/{id}/slot-groups - Date out of bounds: date=%s", dateStr)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getSlotGroups.ErrConfiguration):
			h.logger.Error("GET /rooms/{id}/practitioners/{id}/slot-groups - Invalid shift configuration: %v", err)
			handlers.RespondUnprocessable(w, msgConfiguration)

		default:
			h.logger.Error("GET /rooms/{id}/practitioners/{id}/slot-groups - Failed to get groups: room_id=%s, practitioner_id=%s, error=%v",
				roomID, practitionerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result, useCaseReq.ServiceDurationMinutes)

	h.logger.Info("GET /rooms/{id}/practitioners/{id}/slot-groups - Groups retrieved: room_id=%s, practitioner_id=%s, date=%s, groups=%d",
		roomID, practitionerID, dateStr, len(result.Groups))
	handlers.RespondJSON(w, http.StatusOK, response)
}
