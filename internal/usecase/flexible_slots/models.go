package flexible_slots

import (
	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// Операции для метрик и логов
const (
	operationDisable = "disable"
	operationEnable  = "enable"
)

// Исходы изменения одного слота
const (
	outcomeDisabled = "disabled"
	outcomeEnabled  = "enabled"
	outcomeBooked   = "booked"
	outcomeConflict = "conflict"
	outcomeFailed   = "failed"
)

// DisableRequest запрос массового выключения слотов
type DisableRequest struct {
	Filter         domain.SlotFilter
	NotifyPatients bool
}

// EnableRequest запрос массового включения слотов
type EnableRequest struct {
	Filter domain.SlotFilter
}

// PreviewResponse сколько слотов затронет выключение с тем же фильтром
type PreviewResponse struct {
	Count int
}

// SlotIssue слот, который не удалось обработать, с причиной
type SlotIssue struct {
	SlotID int64
	Reason string
}

// DisableResponse итог массового выключения
// AffectedSlotsCount = выключенные + занятые (их записи под угрозой)
type DisableResponse struct {
	AffectedSlotsCount int
	DisabledSlotIDs    []int64
	BookedSlotIDs      []int64
	Conflicts          []SlotIssue // слот изменился между выборкой и изменением
	Failures           []SlotIssue // ошибка хранилища на конкретном слоте
	AffectedPatients   *domain.PatientPartition
}

// EnableResponse итог массового включения
type EnableResponse struct {
	AffectedSlotsCount int
	EnabledSlotIDs     []int64
	Conflicts          []SlotIssue
	Failures           []SlotIssue
}

// batchResult накапливает исходы по слотам одной операции
type batchResult struct {
	changed   []int64
	booked    []*domain.Slot
	conflicts []SlotIssue
	failures  []SlotIssue
}

func newBatchResult() *batchResult {
	return &batchResult{
		changed:   []int64{},
		booked:    []*domain.Slot{},
		conflicts: []SlotIssue{},
		failures:  []SlotIssue{},
	}
}

func (b *batchResult) bookedIDs() []int64 {
	ids := make([]int64, len(b.booked))
	for i, s := range b.booked {
		ids[i] = s.ID
	}
	return ids
}
