package affected_patients

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// Service разбивает пациентов с затронутыми записями на рассылку и ручной обзвон
type Service struct {
	client  AppointmentClient
	metrics Metrics
	logger  Logger
}

// NewService создает новый экземпляр сервиса
func NewService(client AppointmentClient, metrics Metrics, logger Logger) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		client:  client,
		metrics: metrics,
		logger:  logger,
	}
}

// Partition находит записи по занятым слотам и раскладывает их по корзинам
//
// Каждая запись попадает ровно в одну корзину, даже если под выключение попало несколько её слотов.
// Если сервис записей недоступен или слот не принадлежит ни одной записи, слот уходит
// в ручной обзвон с LookupFailed: лишний звонок лучше пропущенного уведомления.
func (s *Service) Partition(ctx context.Context, bookedSlots []*domain.Slot) *domain.PatientPartition {
	result := &domain.PatientPartition{
		EmailedPatients:       []domain.AffectedPatientRecord{},
		ManualContactPatients: []domain.AffectedPatientRecord{},
	}
	if len(bookedSlots) == 0 {
		return result
	}

	slotsByID := make(map[int64]*domain.Slot, len(bookedSlots))
	slotIDs := make([]int64, 0, len(bookedSlots))
	for _, slot := range bookedSlots {
		if _, dup := slotsByID[slot.ID]; dup {
			continue
		}
		slotsByID[slot.ID] = slot
		slotIDs = append(slotIDs, slot.ID)
	}
	sort.Slice(slotIDs, func(i, j int) bool { return slotIDs[i] < slotIDs[j] })

	appointments, err := s.client.GetBySlotIDs(ctx, slotIDs)
	if err != nil {
		s.logger.Error("Partition: appointment lookup failed for %d slots, all go to manual contact: %v", len(slotIDs), err)
		for _, id := range slotIDs {
			result.ManualContactPatients = append(result.ManualContactPatients, unresolvedRecord(slotsByID[id]))
		}
		s.finish(result)
		return result
	}

	covered := make(map[int64]bool, len(slotIDs))
	seen := make(map[int64]bool, len(appointments))
	for _, a := range appointments {
		if seen[a.ID] {
			continue
		}

		affected := make([]int64, 0, len(a.SlotIDs))
		for _, id := range a.SlotIDs {
			if _, ok := slotsByID[id]; ok && !covered[id] {
				affected = append(affected, id)
				covered[id] = true
			}
		}
		if len(affected) == 0 {
			continue
		}
		seen[a.ID] = true
		sort.Slice(affected, func(i, j int) bool { return affected[i] < affected[j] })

		record := resolvedRecord(a, affected)
		if record.Bucket == domain.BucketEmailed {
			result.EmailedPatients = append(result.EmailedPatients, record)
		} else {
			result.ManualContactPatients = append(result.ManualContactPatients, record)
		}
	}

	for _, id := range slotIDs {
		if !covered[id] {
			s.logger.Warn("Partition: booked slot id=%d has no appointment, flagged for manual contact", id)
			result.ManualContactPatients = append(result.ManualContactPatients, unresolvedRecord(slotsByID[id]))
		}
	}

	s.finish(result)
	return result
}

func (s *Service) finish(result *domain.PatientPartition) {
	sortRecords(result.EmailedPatients)
	sortRecords(result.ManualContactPatients)

	s.metrics.ObserveAffectedPatients(string(domain.BucketEmailed), len(result.EmailedPatients))
	s.metrics.ObserveAffectedPatients(string(domain.BucketManual), len(result.ManualContactPatients))

	s.logger.Info("Partition: emailed=%d, manual=%d",
		len(result.EmailedPatients), len(result.ManualContactPatients))
}

func resolvedRecord(a domain.Appointment, affected []int64) domain.AffectedPatientRecord {
	id := a.ID
	bucket := domain.BucketManual
	if IsContactableEmail(a.PatientInfo.Email) {
		bucket = domain.BucketEmailed
	}
	return domain.AffectedPatientRecord{
		AppointmentID:   &id,
		PatientInfo:     a.PatientInfo,
		AppointmentDate: a.AppointmentDate,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		SlotIDs:         affected,
		SlotCount:       len(affected),
		Bucket:          bucket,
	}
}

// unresolvedRecord запись для обзвона, когда владелец слота неизвестен: время берётся из слота
func unresolvedRecord(slot *domain.Slot) domain.AffectedPatientRecord {
	return domain.AffectedPatientRecord{
		AppointmentDate: slot.Date,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		SlotIDs:         []int64{slot.ID},
		SlotCount:       1,
		Bucket:          domain.BucketManual,
		LookupFailed:    true,
	}
}

// sortRecords упорядочивает записи по дате, времени начала и первому слоту
func sortRecords(records []domain.AffectedPatientRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.AppointmentDate.Equal(b.AppointmentDate) {
			return a.AppointmentDate.Before(b.AppointmentDate)
		}
		if a.StartTime.Minutes() != b.StartTime.Minutes() {
			return a.StartTime.Minutes() < b.StartTime.Minutes()
		}
		return a.SlotIDs[0] < b.SlotIDs[0]
	})
}

type noopMetrics struct{}

func (noopMetrics) ObserveAffectedPatients(string, int) {}
