package reserve_slots

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotNotFound возвращается, когда хотя бы одного слота нет
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotsUnavailable возвращается, когда хотя бы один слот уже не свободен
	ErrSlotsUnavailable = errors.New("slots are no longer available")

	// ErrNotContiguous возвращается, когда слоты не образуют непрерывный интервал одного ключа
	ErrNotContiguous = errors.New("slots are not contiguous")

	// ErrSlotInPast возвращается при попытке занять слот, который уже начался
	ErrSlotInPast = errors.New("slot is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)

// UnavailableSlotsError перечисляет слоты, из-за которых группа не может быть занята
type UnavailableSlotsError struct {
	SlotIDs []int64
}

func (e *UnavailableSlotsError) Error() string {
	return fmt.Sprintf("%v: %v", ErrSlotsUnavailable, e.SlotIDs)
}

func (e *UnavailableSlotsError) Unwrap() error {
	return ErrSlotsUnavailable
}
