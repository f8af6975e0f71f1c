package appointmentservice

import (
	"fmt"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

// lookupRequest тело запроса поиска записей по слотам
type lookupRequest struct {
	SlotIDs []int64 `json:"slotIds"`
}

// lookupResponse ответ сервиса записей
type lookupResponse struct {
	Appointments []Appointment `json:"appointments"`
}

// PatientInfo контактные данные пациента в AppointmentService
type PatientInfo struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone string  `json:"phone"`
}

// Appointment модель записи из AppointmentService
type Appointment struct {
	ID              int64            `json:"id"`
	SlotIDs         []int64          `json:"slotIds"`
	PatientInfo     PatientInfo      `json:"patientInfo"`
	AppointmentDate string           `json:"appointmentDate"` // YYYY-MM-DD
	StartTime       types.TimeString `json:"startTime"`
	EndTime         types.TimeString `json:"endTime"`
}

// ErrorResponse модель ошибки от AppointmentService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// toDomain конвертирует запись сервиса в доменную модель
func (a Appointment) toDomain() (domain.Appointment, error) {
	date, err := domain.ParseDate(a.AppointmentDate)
	if err != nil {
		return domain.Appointment{}, fmt.Errorf("%w: appointment id=%d has invalid date %q", ErrInvalidResponse, a.ID, a.AppointmentDate)
	}
	if err := a.StartTime.Validate(); err != nil {
		return domain.Appointment{}, fmt.Errorf("%w: appointment id=%d has invalid startTime: %v", ErrInvalidResponse, a.ID, err)
	}
	if err := a.EndTime.Validate(); err != nil {
		return domain.Appointment{}, fmt.Errorf("%w: appointment id=%d has invalid endTime: %v", ErrInvalidResponse, a.ID, err)
	}

	return domain.Appointment{
		ID:      a.ID,
		SlotIDs: append([]int64{}, a.SlotIDs...),
		PatientInfo: domain.PatientInfo{
			Name:  a.PatientInfo.Name,
			Email: a.PatientInfo.Email,
			Phone: a.PatientInfo.Phone,
		},
		AppointmentDate: date,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
	}, nil
}
