package domain

import (
	"time"

	"github.com/google/uuid"
)

// SlotFilter фильтр массовых операций над слотами
// Для списковых измерений nil означает "все значения", пустой слайс - "ни одного"
type SlotFilter struct {
	DateFrom        time.Time
	DateTo          time.Time
	Shifts          []string
	RoomIDs         []uuid.UUID
	PractitionerIDs []uuid.UUID
	Statuses        []SlotStatus // внутреннее сужение по статусу, nil = любые
}

// MatchesNothing true, если хотя бы одно измерение задано пустым списком
func (f SlotFilter) MatchesNothing() bool {
	return isEmptyNotNil(f.Shifts) || isEmptyNotNil(f.RoomIDs) ||
		isEmptyNotNil(f.PractitionerIDs) || isEmptyNotNil(f.Statuses)
}

// Matches применяет фильтр к слоту в памяти
func (f SlotFilter) Matches(s *Slot) bool {
	d := DateOf(s.Date)
	if d.Before(DateOf(f.DateFrom)) || d.After(DateOf(f.DateTo)) {
		return false
	}
	if f.Shifts != nil && !contains(f.Shifts, s.ShiftName) {
		return false
	}
	if f.RoomIDs != nil && !contains(f.RoomIDs, s.RoomID) {
		return false
	}
	if f.PractitionerIDs != nil && !contains(f.PractitionerIDs, s.PractitionerID) {
		return false
	}
	if f.Statuses != nil && !contains(f.Statuses, s.Status) {
		return false
	}
	return true
}

// WithStatuses возвращает копию фильтра, суженную по статусам
func (f SlotFilter) WithStatuses(statuses ...SlotStatus) SlotFilter {
	f.Statuses = append([]SlotStatus{}, statuses...)
	return f
}

func isEmptyNotNil[T any](s []T) bool {
	return s != nil && len(s) == 0
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
