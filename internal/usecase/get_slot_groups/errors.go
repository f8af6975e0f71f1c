package get_slot_groups

import "errors"

var (
	// ErrAssignmentNotFound возвращается, когда врач не принимает в указанном кабинете
	ErrAssignmentNotFound = errors.New("practitioner is not assigned to this room")

	// ErrInvalidDate возвращается для прошедшей даты или даты за горизонтом бронирования
	ErrInvalidDate = errors.New("invalid appointment date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrConfiguration возвращается, когда конфигурация смен не позволяет построить слоты
	ErrConfiguration = errors.New("shift configuration is invalid")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
