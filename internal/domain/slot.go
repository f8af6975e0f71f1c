package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

// SlotStatus статус слота
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotDisabled  SlotStatus = "disabled"
)

// IsValid проверяет, что статус из допустимого набора
func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotAvailable, SlotBooked, SlotDisabled:
		return true
	}
	return false
}

// Slot минимальная бронируемая единица времени внутри смены
// Идентичность неизменна после генерации, меняется только Status
type Slot struct {
	ID             int64
	RoomID         uuid.UUID
	PractitionerID uuid.UUID
	Date           time.Time
	ShiftName      string
	StartTime      types.TimeString
	EndTime        types.TimeString
	Status         SlotStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAvailable слот свободен для бронирования
func (s *Slot) IsAvailable() bool {
	return s.Status == SlotAvailable
}

// IsBooked слот занят записью пациента
func (s *Slot) IsBooked() bool {
	return s.Status == SlotBooked
}

// IsDisabled слот выключен администратором
func (s *Slot) IsDisabled() bool {
	return s.Status == SlotDisabled
}

// Key ключ сериализации изменений слота
func (s *Slot) Key() SlotKey {
	return SlotKey{RoomID: s.RoomID, PractitionerID: s.PractitionerID, Date: DateOf(s.Date)}
}

// SlotKey (кабинет, врач, дата) - единица взаимного исключения при изменении статусов
type SlotKey struct {
	RoomID         uuid.UUID
	PractitionerID uuid.UUID
	Date           time.Time
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s|%s|%s", k.RoomID, k.PractitionerID, k.Date.Format(DateFormat))
}

// SlotGroup подряд идущие свободные слоты, покрывающие длительность услуги
// Вычисляется на лету и не хранится
type SlotGroup struct {
	SlotIDs      []int64
	DisplayStart types.TimeString
	DisplayEnd   types.TimeString
}

// RequiredSlotCount ceil(serviceDuration / slotUnit); 0 для некорректных входов
func RequiredSlotCount(serviceDurationMinutes, slotUnitMinutes int) int {
	if serviceDurationMinutes <= 0 || slotUnitMinutes <= 0 {
		return 0
	}
	return (serviceDurationMinutes + slotUnitMinutes - 1) / slotUnitMinutes
}

// AreContiguous проверяет, что next начинается там, где закончился prev
// (тот же кабинет, врач и дата, допуск ContiguityToleranceMinutes)
func AreContiguous(prev, next *Slot) bool {
	if prev.RoomID != next.RoomID || prev.PractitionerID != next.PractitionerID {
		return false
	}
	if !DateOf(prev.Date).Equal(DateOf(next.Date)) {
		return false
	}
	prevEnd, nextStart := prev.EndTime.Minutes(), next.StartTime.Minutes()
	if prevEnd < 0 || nextStart < 0 {
		return false
	}
	diff := nextStart - prevEnd
	if diff < 0 {
		diff = -diff
	}
	return diff <= ContiguityToleranceMinutes
}

// HasStarted слот прошедшего дня или сегодняшний слот, время начала которого уже наступило
// now берётся в часовом поясе клиники
func (s *Slot) HasStarted(now time.Time) bool {
	date, today := DateOf(s.Date), DateOf(now)
	if date.Before(today) {
		return true
	}
	if date.After(today) {
		return false
	}
	return s.StartTime.IsBefore(types.NewTimeString(now))
}
