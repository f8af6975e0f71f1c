package domain

import "errors"

var (
	// ErrConfiguration некорректная конфигурация смен (пересечения, длительность не кратна единице слота)
	// Фатальна для генерации, показывается администратору и никогда не исправляется молча
	ErrConfiguration = errors.New("domain: invalid schedule configuration")

	// ErrInvalidHolidayRule некорректное правило календаря выходных
	ErrInvalidHolidayRule = errors.New("domain: invalid holiday rule")
)
