package disable_slots

import (
	"github.com/m04kA/SMC-ClinicSlots/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	flexibleSlots "github.com/m04kA/SMC-ClinicSlots/internal/usecase/flexible_slots"
)

// DisableSlotsRequest HTTP request model
type DisableSlotsRequest struct {
	handlers.FilterRequest
	NotifyPatients bool `json:"notifyPatients"`
}

// DisableSlotsResponse HTTP response model
type DisableSlotsResponse struct {
	AffectedSlotsCount int               `json:"affectedSlotsCount"`
	DisabledSlotIDs    []int64           `json:"disabledSlotIds"`
	BookedSlotIDs      []int64           `json:"bookedSlotIds"`
	Conflicts          []SlotIssue       `json:"conflicts"`
	Failures           []SlotIssue       `json:"failures"`
	AffectedPatients   *AffectedPatients `json:"affectedPatients,omitempty"`
}

// SlotIssue слот, который не удалось обработать
type SlotIssue struct {
	SlotID int64  `json:"slotId"`
	Reason string `json:"reason"`
}

// AffectedPatients разбиение пациентов на рассылку и ручной обзвон
type AffectedPatients struct {
	EmailedPatients       []AffectedPatient `json:"emailedPatients"`
	ManualContactPatients []AffectedPatient `json:"manualContactPatients"`
}

// AffectedPatient запись пациента под угрозой
type AffectedPatient struct {
	AppointmentID   *int64      `json:"appointmentId,omitempty"`
	PatientInfo     PatientInfo `json:"patientInfo"`
	AppointmentDate string      `json:"appointmentDate,omitempty"`
	StartTime       string      `json:"startTime,omitempty"`
	EndTime         string      `json:"endTime,omitempty"`
	SlotIDs         []int64     `json:"slotIds"`
	SlotCount       int         `json:"slotCount"`
	LookupFailed    bool        `json:"lookupFailed,omitempty"`
}

// PatientInfo контакты пациента
type PatientInfo struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone string  `json:"phone"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *DisableSlotsRequest) ToUseCaseRequest() (*flexibleSlots.DisableRequest, error) {
	filter, err := r.ToDomainFilter()
	if err != nil {
		return nil, err
	}
	return &flexibleSlots.DisableRequest{Filter: filter, NotifyPatients: r.NotifyPatients}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *flexibleSlots.DisableResponse) *DisableSlotsResponse {
	return &DisableSlotsResponse{
		AffectedSlotsCount: resp.AffectedSlotsCount,
		DisabledSlotIDs:    resp.DisabledSlotIDs,
		BookedSlotIDs:      resp.BookedSlotIDs,
		Conflicts:          FromSlotIssues(resp.Conflicts),
		Failures:           FromSlotIssues(resp.Failures),
		AffectedPatients:   fromPartition(resp.AffectedPatients),
	}
}

// FromSlotIssues конвертирует проблемные слоты в response
func FromSlotIssues(issues []flexibleSlots.SlotIssue) []SlotIssue {
	out := make([]SlotIssue, len(issues))
	for i, is := range issues {
		out[i] = SlotIssue{SlotID: is.SlotID, Reason: is.Reason}
	}
	return out
}

func fromPartition(p *domain.PatientPartition) *AffectedPatients {
	if p == nil {
		return nil
	}
	return &AffectedPatients{
		EmailedPatients:       fromRecords(p.EmailedPatients),
		ManualContactPatients: fromRecords(p.ManualContactPatients),
	}
}

func fromRecords(records []domain.AffectedPatientRecord) []AffectedPatient {
	out := make([]AffectedPatient, len(records))
	for i, rec := range records {
		patient := AffectedPatient{
			AppointmentID: rec.AppointmentID,
			PatientInfo: PatientInfo{
				Name:  rec.PatientInfo.Name,
				Email: rec.PatientInfo.Email,
				Phone: rec.PatientInfo.Phone,
			},
			StartTime:    rec.StartTime.String(),
			EndTime:      rec.EndTime.String(),
			SlotIDs:      rec.SlotIDs,
			SlotCount:    rec.SlotCount,
			LookupFailed: rec.LookupFailed,
		}
		if !rec.AppointmentDate.IsZero() {
			patient.AppointmentDate = rec.AppointmentDate.Format(domain.DateFormat)
		}
		out[i] = patient
	}
	return out
}
