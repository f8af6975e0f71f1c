package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicSlots/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicSlots/pkg/metrics"
)

// Handlers HTTP-обработчики всех маршрутов API
type Handlers struct {
	GetSlotGroups http.HandlerFunc
	GetSchedule   http.HandlerFunc
	GetSlot       http.HandlerFunc
	ReserveSlots  http.HandlerFunc
	ReleaseSlots  http.HandlerFunc

	ListSlots            http.HandlerFunc
	PreviewSlots         http.HandlerFunc
	DisableSlots         http.HandlerFunc
	EnableSlots          http.HandlerFunc
	UpdateSchedule       http.HandlerFunc
	MaterializeSlots     http.HandlerFunc
	AddHolidayRule       http.HandlerFunc
	DeleteHolidayRule    http.HandlerFunc
	ImportLegacyHolidays http.HandlerFunc
}

// RouterOptions необязательные части роутера
// Metrics == nil отключает middleware метрик и /metrics, AdminLimiter == nil отключает ограничение частоты
type RouterOptions struct {
	Metrics      *metrics.Metrics
	MetricsPath  string
	AdminLimiter *middleware.RateLimiter
}

const msgMethodNotAllowed = "метод не поддерживается для этого пути"

// methodNotAllowed ставится на каждый (под)роутер: несовпадение метода внутри
// подроутера иначе превращается в 404
func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

// NewRouter собирает маршруты API
func NewRouter(h Handlers, opts RouterOptions) *mux.Router {
	r := mux.NewRouter()
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
		r.Handle(opts.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// ============================================================
	// BOOKING ROUTES (чтение расписания и занятие слотов)
	// ============================================================

	// Группы подряд идущих свободных слотов под длительность услуги
	api.HandleFunc("/rooms/{roomId}/practitioners/{practitionerId}/slot-groups",
		h.GetSlotGroups).Methods(http.MethodGet)

	// Конфигурация смен и календарь
	api.HandleFunc("/schedule", h.GetSchedule).Methods(http.MethodGet)

	// Занятие группы слотов и освобождение после отмены записи
	api.HandleFunc("/slots/reserve", h.ReserveSlots).Methods(http.MethodPost)
	api.HandleFunc("/slots/release", h.ReleaseSlots).Methods(http.MethodPost)

	api.HandleFunc("/slots/{slotId:[0-9]+}", h.GetSlot).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (массовые операции и настройка расписания)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	if opts.AdminLimiter != nil {
		admin.Use(opts.AdminLimiter.Middleware())
	}

	// --- Слоты ---
	admin.HandleFunc("/slots", h.ListSlots).Methods(http.MethodGet)
	admin.HandleFunc("/slots/preview", h.PreviewSlots).Methods(http.MethodGet)
	admin.HandleFunc("/slots/disable", h.DisableSlots).Methods(http.MethodPost)
	admin.HandleFunc("/slots/enable", h.EnableSlots).Methods(http.MethodPost)

	// --- Расписание ---
	admin.HandleFunc("/schedule", h.UpdateSchedule).Methods(http.MethodPut)
	admin.HandleFunc("/schedule/materialize", h.MaterializeSlots).Methods(http.MethodPost)
	admin.HandleFunc("/schedule/holidays", h.AddHolidayRule).Methods(http.MethodPost)
	admin.HandleFunc("/schedule/holidays/import", h.ImportLegacyHolidays).Methods(http.MethodPost)
	admin.HandleFunc("/schedule/holidays/{ruleId:[0-9]+}", h.DeleteHolidayRule).Methods(http.MethodDelete)

	return r
}
