package get_slot_groups

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	getSlotGroups "github.com/m04kA/SMC-ClinicSlots/internal/usecase/get_slot_groups"
)

// SlotGroupsResponse HTTP response model
type SlotGroupsResponse struct {
	Date                   string      `json:"date"`
	RoomID                 string      `json:"roomId"`
	PractitionerID         string      `json:"practitionerId"`
	ServiceDurationMinutes int         `json:"serviceDurationMinutes"`
	SlotUnitMinutes        int         `json:"slotUnitMinutes"`
	RequiredSlots          int         `json:"requiredSlots"`
	Closed                 bool        `json:"closed"`
	ClosedReason           string      `json:"closedReason,omitempty"`
	Groups                 []SlotGroup `json:"groups"`
}

// SlotGroup группа подряд идущих слотов
type SlotGroup struct {
	SlotIDs      []int64 `json:"slotIds"`
	DisplayStart string  `json:"displayStart"`
	DisplayEnd   string  `json:"displayEnd"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlotGroups.Response, serviceDuration int) *SlotGroupsResponse {
	groups := make([]SlotGroup, len(resp.Groups))
	for i, g := range resp.Groups {
		groups[i] = SlotGroup{
			SlotIDs:      g.SlotIDs,
			DisplayStart: g.DisplayStart.String(),
			DisplayEnd:   g.DisplayEnd.String(),
		}
	}

	return &SlotGroupsResponse{
		Date:                   resp.Date.Format(domain.DateFormat),
		RoomID:                 resp.RoomID.String(),
		PractitionerID:         resp.PractitionerID.String(),
		ServiceDurationMinutes: serviceDuration,
		SlotUnitMinutes:        resp.SlotUnitMinutes,
		RequiredSlots:          resp.RequiredSlots,
		Closed:                 resp.Closed,
		ClosedReason:           string(resp.ClosedReason),
		Groups:                 groups,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(roomID, practitionerID uuid.UUID, dateStr, durationStr string) (*getSlotGroups.Request, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		return nil, err
	}

	return &getSlotGroups.Request{
		RoomID:                 roomID,
		PractitionerID:         practitionerID,
		Date:                   date,
		ServiceDurationMinutes: duration,
	}, nil
}
