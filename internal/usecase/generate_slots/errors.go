package generate_slots

import "errors"

var (
	// ErrDateInPast возвращается при попытке сгенерировать слоты на прошедшую дату
	ErrDateInPast = errors.New("generate_slots: date is in the past")

	// ErrBeyondHorizon возвращается, когда дата дальше горизонта бронирования для пациентов
	ErrBeyondHorizon = errors.New("generate_slots: date is beyond the booking horizon")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_slots: internal error")
)
