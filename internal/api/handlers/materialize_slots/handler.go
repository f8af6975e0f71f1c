package materialize_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	generateSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/generate_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRange       = "некорректный диапазон дат или список идентификаторов"
	msgConfiguration      = "конфигурация смен некорректна, генерация остановлена"
)

type Handler struct {
	useCase BackfillUseCase
	logger  Logger
}

func NewHandler(useCase BackfillUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/schedule/materialize
// Администраторская догенерация без ограничения горизонтом; ошибки отдельных дней перечисляются в ответе
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req MaterializeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/schedule/materialize - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /admin/schedule/materialize - Invalid request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	result, err := h.useCase.Backfill(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("POST /admin/schedule/materialize - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, domain.ErrConfiguration):
			h.logger.Error("POST /admin/schedule/materialize - Invalid configuration: %v", err)
			handlers.RespondUnprocessable(w, msgConfiguration+": "+err.Error())

		default:
			h.logger.Error("POST /admin/schedule/materialize - Failed to materialize: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/schedule/materialize - Done: days=%d, inserted=%d, closed=%d, failures=%d",
		result.Days, result.Inserted, result.ClosedDays, len(result.Failures))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
