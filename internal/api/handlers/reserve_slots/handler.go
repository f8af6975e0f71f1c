package reserve_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	reserveSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/reserve_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректный список слотов"
	msgSlotNotFound       = "слот не найден"
	msgSlotsUnavailable   = "выбранные слоты уже недоступны"
	msgNotContiguous      = "слоты должны идти подряд у одного врача в одном кабинете"
	msgSlotInPast         = "нельзя записаться на время, которое уже прошло"
)

type Handler struct {
	useCase ReserveSlotsUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/reserve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReserveSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/reserve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		var unavailable *reserveSlots.UnavailableSlotsError
		switch {
		case errors.As(err, &unavailable):
			h.logger.Warn("POST /slots/reserve - Slots unavailable: slot_ids=%v", unavailable.SlotIDs)
			handlers.RespondJSON(w, http.StatusConflict, UnavailableResponse{
				Code:    http.StatusConflict,
				Message: msgSlotsUnavailable,
				SlotIDs: unavailable.SlotIDs,
			})

		case errors.Is(err, reserveSlots.ErrSlotsUnavailable):
			h.logger.Warn("POST /slots/reserve - Slots unavailable: slot_ids=%v", req.SlotIDs)
			handlers.RespondConflict(w, msgSlotsUnavailable)

		case errors.Is(err, reserveSlots.ErrInvalidInput):
			h.logger.Warn("POST /slots/reserve - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, reserveSlots.ErrSlotNotFound):
			h.logger.Warn("POST /slots/reserve - Slot not found: %v", err)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, reserveSlots.ErrNotContiguous):
			h.logger.Warn("POST /slots/reserve - Not contiguous: slot_ids=%v", req.SlotIDs)
			handlers.RespondBadRequest(w, msgNotContiguous)

		case errors.Is(err, reserveSlots.ErrSlotInPast):
			h.logger.Warn("POST /slots/reserve - Slot in the past: slot_ids=%v", req.SlotIDs)
			handlers.RespondBadRequest(w, msgSlotInPast)

		default:
			h.logger.Error("POST /slots/reserve - Failed to reserve slots: slot_ids=%v, error=%v", req.SlotIDs, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /slots/reserve - Slots reserved: slot_ids=%v, %s-%s",
		req.SlotIDs, response.DisplayStart, response.DisplayEnd)
	handlers.RespondJSON(w, http.StatusOK, response)
}
