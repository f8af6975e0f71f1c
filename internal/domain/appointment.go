package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

// PatientInfo контактные данные пациента (из внешнего сервиса записей)
type PatientInfo struct {
	Name  string
	Email *string
	Phone string
}

// Appointment запись пациента; принадлежит внешнему сервису, здесь только читается
type Appointment struct {
	ID              int64
	SlotIDs         []int64
	PatientInfo     PatientInfo
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
}

// ContactBucket способ связи с пациентом после выключения слотов
type ContactBucket string

const (
	BucketEmailed ContactBucket = "emailed"
	BucketManual  ContactBucket = "manual"
)

// AffectedPatientRecord пациент, чья запись попала под выключение
// AppointmentID == nil, если запись не удалось получить из внешнего сервиса
type AffectedPatientRecord struct {
	AppointmentID   *int64
	PatientInfo     PatientInfo
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	SlotIDs         []int64 // затронутые операцией слоты этой записи
	SlotCount       int
	Bucket          ContactBucket
	LookupFailed    bool
}

// PatientPartition разбиение затронутых пациентов на рассылку и ручной обзвон
type PatientPartition struct {
	EmailedPatients       []AffectedPatientRecord
	ManualContactPatients []AffectedPatientRecord
}

// Total общее количество записей в обеих корзинах
func (p *PatientPartition) Total() int {
	if p == nil {
		return 0
	}
	return len(p.EmailedPatients) + len(p.ManualContactPatients)
}
