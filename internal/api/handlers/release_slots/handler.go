package release_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicSlots/internal/service/slots"
	"github.com/m04kA/SMC-ClinicSlots/internal/service/slots/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректный список слотов"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/release
// Освобождает слоты отменённой записи; не занятые слоты возвращаются в skippedSlotIds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.ReleaseSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/release - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Release(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /slots/release - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /slots/release - Failed to release slots: slot_ids=%v, error=%v", req.SlotIDs, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/release - Slots released: released=%v, skipped=%v",
		result.ReleasedSlotIDs, result.SkippedSlotIDs)
	handlers.RespondJSON(w, http.StatusOK, result)
}
