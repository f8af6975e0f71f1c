package domain

import "github.com/google/uuid"

// Assignment врач, принимающий в кабинете; по списку назначений материализуются слоты
type Assignment struct {
	RoomID         uuid.UUID
	PractitionerID uuid.UUID
}
