package flexible_slots

import "errors"

var (
	// ErrInvalidFilter возвращается при некорректном фильтре; изменения при этом не выполняются
	ErrInvalidFilter = errors.New("flexible_slots: invalid filter")

	// ErrConcurrentModification слот изменился между выборкой и изменением
	// Не возвращается из операции целиком, а попадает в Conflicts результата
	ErrConcurrentModification = errors.New("flexible_slots: slot was modified concurrently")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("flexible_slots: internal error")
)
