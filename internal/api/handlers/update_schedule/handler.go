package update_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/internal/service/schedule_config/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgConfiguration      = "некорректная конфигурация смен"
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

// Handle PUT /api/v1/admin/schedule
// Конфигурация заменяется целиком; ошибка конфигурации возвращается с 422 и текстом причины
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConfiguration):
			h.logger.Warn("PUT /admin/schedule - Invalid configuration: %v", err)
			handlers.RespondUnprocessable(w, msgConfiguration+": "+err.Error())

		default:
			h.logger.Error("PUT /admin/schedule - Failed to update schedule: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/schedule - Schedule updated successfully: shifts=%d, slotUnit=%d",
		len(result.Shifts), result.SlotUnitMinutes)
	handlers.RespondJSON(w, http.StatusOK, result)
}
