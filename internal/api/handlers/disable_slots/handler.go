package disable_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	flexibleSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/flexible_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFilter      = "фильтр отклонен"
)

type Handler struct {
	useCase DisableUseCase
	logger  Logger
}

func NewHandler(useCase DisableUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/slots/disable
// Частичный успех возвращается с 200: конфликты и ошибки по слотам перечислены в ответе
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req DisableSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/slots/disable - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /admin/slots/disable - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter+": "+err.Error())
		return
	}

	result, err := h.useCase.Disable(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, flexibleSlots.ErrInvalidFilter):
			h.logger.Warn("POST /admin/slots/disable - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter+": "+err.Error())

		default:
			h.logger.Error("POST /admin/slots/disable - Failed to disable slots: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/slots/disable - Done: affected=%d, disabled=%d, booked=%d, conflicts=%d, failures=%d",
		result.AffectedSlotsCount, len(result.DisabledSlotIDs), len(result.BookedSlotIDs),
		len(result.Conflicts), len(result.Failures))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
