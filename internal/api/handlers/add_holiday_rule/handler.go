package add_holiday_rule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	scheduleConfig "github.com/m04kA/SMC-ClinicSlots/internal/service/schedule_config"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRule        = "некорректное правило календаря"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/schedule/holidays
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AddHolidayRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/schedule/holidays - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /admin/schedule/holidays - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRule)
		return
	}

	result, err := h.service.AddHolidayRule(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, scheduleConfig.ErrInvalidInput):
			h.logger.Warn("POST /admin/schedule/holidays - Invalid rule: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRule)

		default:
			h.logger.Error("POST /admin/schedule/holidays - Failed to add rule: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/schedule/holidays - Rule created: id=%d, kind=%s", result.ID, result.Kind)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
