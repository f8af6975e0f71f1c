package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid slot status")
)

// Request модели

// ListSlotsRequest запрос списка слотов для администратора
// nil в списках означает "все значения", пустой список - "ни одного"
type ListSlotsRequest struct {
	DateFrom        time.Time
	DateTo          time.Time
	Shifts          []string
	RoomIDs         []uuid.UUID
	PractitionerIDs []uuid.UUID
	Status          *string
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListSlotsRequest) ToDomainFilter() (domain.SlotFilter, error) {
	filter := domain.SlotFilter{
		DateFrom:        r.DateFrom,
		DateTo:          r.DateTo,
		Shifts:          r.Shifts,
		RoomIDs:         r.RoomIDs,
		PractitionerIDs: r.PractitionerIDs,
	}

	if r.Status != nil {
		status := domain.SlotStatus(*r.Status)
		if !status.IsValid() {
			return filter, ErrInvalidStatus
		}
		filter.Statuses = []domain.SlotStatus{status}
	}

	return filter, nil
}

// ReleaseSlotsRequest запрос на освобождение слотов (отмена записи)
type ReleaseSlotsRequest struct {
	SlotIDs []int64 `json:"slotIds"`
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID             int64     `json:"id"`
	RoomID         string    `json:"roomId"`
	PractitionerID string    `json:"practitionerId"`
	Date           string    `json:"date"`      // "2025-10-15"
	ShiftName      string    `json:"shiftName"` // "morning"
	StartTime      string    `json:"startTime"` // "10:00"
	EndTime        string    `json:"endTime"`   // "10:15"
	Status         string    `json:"status"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}

// ReleaseSlotsResponse итог освобождения
// Skipped - слоты, которые не были заняты или не найдены
type ReleaseSlotsResponse struct {
	ReleasedSlotIDs []int64 `json:"releasedSlotIds"`
	SkippedSlotIDs  []int64 `json:"skippedSlotIds"`
}

// FromDomainSlot конвертирует domain модель в response
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	return &SlotResponse{
		ID:             s.ID,
		RoomID:         s.RoomID.String(),
		PractitionerID: s.PractitionerID.String(),
		Date:           s.Date.Format(domain.DateFormat),
		ShiftName:      s.ShiftName,
		StartTime:      s.StartTime.String(),
		EndTime:        s.EndTime.String(),
		Status:         string(s.Status),
		UpdatedAt:      s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список domain моделей в response
func FromDomainSlotList(slots []*domain.Slot) *SlotListResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = *FromDomainSlot(s)
	}
	return &SlotListResponse{Slots: out, Total: len(out)}
}
