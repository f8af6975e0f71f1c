package get_slot_groups

import (
	"bytes"
	"sort"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
)

// GroupConsecutiveSlots находит все окна из подряд идущих свободных слотов,
// покрывающие длительность услуги
//
// Окно шириной ceil(serviceDuration/slotUnit) пробуется с каждой позиции независимо,
// поэтому пересекающиеся группы (08:00-08:45 и 08:15-09:00) возвращаются обе:
// взаимное исключение решается при бронировании, а не здесь.
// Занятые и выключенные слоты исключаются до построения окон, поэтому окно через
// такой слот разрывается проверкой смежности. Пул может содержать несколько
// кабинетов, врачей и дат: окно не пересекает границу ключа.
func GroupConsecutiveSlots(pool []*domain.Slot, serviceDurationMinutes, slotUnitMinutes int) []domain.SlotGroup {
	groups := make([]domain.SlotGroup, 0)

	required := domain.RequiredSlotCount(serviceDurationMinutes, slotUnitMinutes)
	if required == 0 || len(pool) == 0 {
		return groups
	}

	available := make([]*domain.Slot, 0, len(pool))
	for _, s := range pool {
		if s != nil && s.IsAvailable() {
			available = append(available, s)
		}
	}
	sortForGrouping(available)

	for i := 0; i+required <= len(available); i++ {
		window := available[i : i+required]
		if !isContiguousRun(window) {
			continue
		}

		ids := make([]int64, required)
		for k, s := range window {
			ids[k] = s.ID
		}
		groups = append(groups, domain.SlotGroup{
			SlotIDs:      ids,
			DisplayStart: window[0].StartTime,
			DisplayEnd:   window[required-1].EndTime,
		})
	}

	return groups
}

func isContiguousRun(window []*domain.Slot) bool {
	for k := 1; k < len(window); k++ {
		if !domain.AreContiguous(window[k-1], window[k]) {
			return false
		}
	}
	return true
}

// sortForGrouping упорядочивает слоты по ключу (кабинет, врач, дата), затем по времени начала
func sortForGrouping(slots []*domain.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if c := bytes.Compare(a.RoomID[:], b.RoomID[:]); c != 0 {
			return c < 0
		}
		if c := bytes.Compare(a.PractitionerID[:], b.PractitionerID[:]); c != 0 {
			return c < 0
		}
		if da, db := domain.DateOf(a.Date), domain.DateOf(b.Date); !da.Equal(db) {
			return da.Before(db)
		}
		if a.StartTime.Minutes() != b.StartTime.Minutes() {
			return a.StartTime.Minutes() < b.StartTime.Minutes()
		}
		return a.ID < b.ID
	})
}
