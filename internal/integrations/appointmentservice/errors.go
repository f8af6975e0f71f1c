package appointmentservice

import "errors"

var (
	// ErrLookup возвращается при любой ошибке получения записей:
	// сервис недоступен, таймаут, неожиданный статус или некорректный ответ
	ErrLookup = errors.New("appointmentservice: lookup failed")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса (всегда вместе с ErrLookup)
	ErrInvalidResponse = errors.New("appointmentservice: invalid response")
)
