package enable_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers/disable_slots"
	flexibleSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/flexible_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFilter      = "фильтр отклонен"
)

// EnableSlotsResponse HTTP response model
type EnableSlotsResponse struct {
	AffectedSlotsCount int                       `json:"affectedSlotsCount"`
	EnabledSlotIDs     []int64                   `json:"enabledSlotIds"`
	Conflicts          []disable_slots.SlotIssue `json:"conflicts"`
	Failures           []disable_slots.SlotIssue `json:"failures"`
}

type Handler struct {
	useCase EnableUseCase
	logger  Logger
}

func NewHandler(useCase EnableUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/slots/enable
// Включает только выключенные слоты; занятые не трогаются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req handlers.FilterRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/slots/enable - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		h.logger.Warn("POST /admin/slots/enable - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter+": "+err.Error())
		return
	}

	result, err := h.useCase.Enable(r.Context(), &flexibleSlots.EnableRequest{Filter: filter})
	if err != nil {
		switch {
		case errors.Is(err, flexibleSlots.ErrInvalidFilter):
			h.logger.Warn("POST /admin/slots/enable - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter+": "+err.Error())

		default:
			h.logger.Error("POST /admin/slots/enable - Failed to enable slots: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/slots/enable - Done: enabled=%d, conflicts=%d, failures=%d",
		result.AffectedSlotsCount, len(result.Conflicts), len(result.Failures))
	handlers.RespondJSON(w, http.StatusOK, &EnableSlotsResponse{
		AffectedSlotsCount: result.AffectedSlotsCount,
		EnabledSlotIDs:     result.EnabledSlotIDs,
		Conflicts:          disable_slots.FromSlotIssues(result.Conflicts),
		Failures:           disable_slots.FromSlotIssues(result.Failures),
	})
}
