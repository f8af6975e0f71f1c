package preview_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	flexibleSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/flexible_slots"
)

const (
	msgInvalidParams = "некорректные параметры фильтра"
	msgInvalidFilter = "фильтр отклонен"
)

// PreviewResponse HTTP response model
type PreviewResponse struct {
	Count int `json:"count"`
}

type Handler struct {
	useCase PreviewUseCase
	logger  Logger
}

func NewHandler(useCase PreviewUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/slots/preview
// Query params: dateFrom, dateTo (обязательны), shifts, roomIds, practitionerIds (через запятую)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filterReq, err := handlers.FilterFromQuery(r)
	if err != nil {
		h.logger.Warn("GET /admin/slots/preview - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	filter, err := filterReq.ToDomainFilter()
	if err != nil {
		h.logger.Warn("GET /admin/slots/preview - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Preview(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, flexibleSlots.ErrInvalidFilter):
			h.logger.Warn("GET /admin/slots/preview - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter+": "+err.Error())

		default:
			h.logger.Error("GET /admin/slots/preview - Failed to preview: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/slots/preview - Preview computed: count=%d", result.Count)
	handlers.RespondJSON(w, http.StatusOK, PreviewResponse{Count: result.Count})
}
