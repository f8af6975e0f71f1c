package reserve_slots

import (
	"github.com/m04kA/SMC-ClinicSlots/internal/service/slots/models"
	reserveSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/reserve_slots"
)

// ReserveSlotsRequest HTTP request model
type ReserveSlotsRequest struct {
	SlotIDs []int64 `json:"slotIds"`
}

// ReserveSlotsResponse HTTP response model
type ReserveSlotsResponse struct {
	Slots        []models.SlotResponse `json:"slots"`
	DisplayStart string                `json:"displayStart"`
	DisplayEnd   string                `json:"displayEnd"`
}

// UnavailableResponse тело 409 со списком слотов, которые уже не свободны
type UnavailableResponse struct {
	Code    int     `json:"code"`
	Message string  `json:"message"`
	SlotIDs []int64 `json:"slotIds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveSlotsRequest) ToUseCaseRequest() *reserveSlots.Request {
	return &reserveSlots.Request{SlotIDs: r.SlotIDs}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlots.Response) *ReserveSlotsResponse {
	list := models.FromDomainSlotList(resp.Slots)
	out := &ReserveSlotsResponse{Slots: list.Slots}
	if n := len(resp.Slots); n > 0 {
		out.DisplayStart = resp.Slots[0].StartTime.String()
		out.DisplayEnd = resp.Slots[n-1].EndTime.String()
	}
	return out
}
