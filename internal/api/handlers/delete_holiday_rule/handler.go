package delete_holiday_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	scheduleConfig "github.com/m04kA/SMC-ClinicSlots/internal/service/schedule_config"
)

const (
	msgInvalidRuleID = "некорректный ID правила"
	msgNotFound      = "правило календаря не найдено"
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

// Handle DELETE /api/v1/admin/schedule/holidays/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ruleID, err := strconv.ParseInt(vars["ruleId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /admin/schedule/holidays/{id} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	if err := h.service.DeleteHolidayRule(r.Context(), ruleID); err != nil {
		switch {
		case errors.Is(err, scheduleConfig.ErrHolidayRuleNotFound):
			h.logger.Warn("DELETE /admin/schedule/holidays/{id} - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /admin/schedule/holidays/{id} - Failed to delete rule: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/schedule/holidays/{id} - Rule deleted: rule_id=%d", ruleID)
	handlers.RespondNoContent(w)
}
