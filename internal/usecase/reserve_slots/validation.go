package reserve_slots

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if len(req.SlotIDs) == 0 {
		return fmt.Errorf("%w: slotIds must not be empty", ErrInvalidInput)
	}
	if len(req.SlotIDs) > domain.MaxReserveSlots {
		return fmt.Errorf("%w: at most %d slots per reservation", ErrInvalidInput, domain.MaxReserveSlots)
	}

	seen := make(map[int64]struct{}, len(req.SlotIDs))
	for _, id := range req.SlotIDs {
		if id <= 0 {
			return fmt.Errorf("%w: slot id must be positive, got %d", ErrInvalidInput, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate slot id %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// missingIDs возвращает ID из запроса, которых нет среди найденных слотов
func missingIDs(requested []int64, found []*domain.Slot) []int64 {
	present := make(map[int64]struct{}, len(found))
	for _, s := range found {
		present[s.ID] = struct{}{}
	}
	missing := make([]int64, 0)
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// validateGroup проверяет, что слоты одного ключа, не в прошлом и идут подряд
// Слоты сортируются по времени начала на месте
func validateGroup(slots []*domain.Slot, now time.Time) error {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.Minutes() < slots[j].StartTime.Minutes()
	})

	key := slots[0].Key()
	for _, s := range slots[1:] {
		if s.Key() != key {
			return fmt.Errorf("%w: slots belong to different rooms, practitioners or dates", ErrNotContiguous)
		}
	}
	if slots[0].HasStarted(now) {
		return fmt.Errorf("%w: %s %s", ErrSlotInPast, slots[0].Date.Format(domain.DateFormat), slots[0].StartTime)
	}
	for i := 1; i < len(slots); i++ {
		if !domain.AreContiguous(slots[i-1], slots[i]) {
			return fmt.Errorf("%w: gap between %s and %s", ErrNotContiguous, slots[i-1].EndTime, slots[i].StartTime)
		}
	}
	return nil
}

// unavailableIDs возвращает ID слотов, которые уже не свободны
func unavailableIDs(slots []*domain.Slot) []int64 {
	ids := make([]int64, 0)
	for _, s := range slots {
		if !s.IsAvailable() {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
