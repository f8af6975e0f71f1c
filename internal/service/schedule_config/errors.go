package schedule_config

import "errors"

var (
	// ErrHolidayRuleNotFound возвращается, когда правило календаря не найдено
	ErrHolidayRuleNotFound = errors.New("holiday rule not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
