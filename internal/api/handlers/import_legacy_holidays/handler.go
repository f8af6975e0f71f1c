package import_legacy_holidays

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	scheduleConfig "github.com/m04kA/SMC-ClinicSlots/internal/service/schedule_config"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidEntries     = "некорректные записи календаря"
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

// Handle POST /api/v1/admin/schedule/holidays/import
// Импорт атомарный: одна некорректная запись отменяет весь импорт
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/schedule/holidays/import - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	entries, err := req.ToDomainEntries()
	if err != nil {
		h.logger.Warn("POST /admin/schedule/holidays/import - Failed to parse entries: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEntries+": "+err.Error())
		return
	}

	result, err := h.service.ImportLegacyHolidays(r.Context(), entries)
	if err != nil {
		switch {
		case errors.Is(err, scheduleConfig.ErrInvalidInput):
			h.logger.Warn("POST /admin/schedule/holidays/import - Invalid entries: %v", err)
			handlers.RespondBadRequest(w, msgInvalidEntries+": "+err.Error())

		default:
			h.logger.Error("POST /admin/schedule/holidays/import - Failed to import: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/schedule/holidays/import - Imported=%d, ignored=%d", len(result.Imported), result.Ignored)
	handlers.RespondJSON(w, http.StatusOK, result)
}
