package get_slot_groups

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

var (
	testRoom         = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testPractitioner = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testDate         = domain.NewDate(2025, time.March, 3)
)

// pool n подряд идущих 15-минутных слотов с 08:00
func pool(n int) []*domain.Slot {
	slots := make([]*domain.Slot, n)
	start := types.MustTimeString("08:00")
	for i := 0; i < n; i++ {
		end, _ := start.AddMinutes(15)
		slots[i] = &domain.Slot{
			ID:             int64(i + 1),
			RoomID:         testRoom,
			PractitionerID: testPractitioner,
			Date:           testDate,
			ShiftName:      "morning",
			StartTime:      start,
			EndTime:        end,
			Status:         domain.SlotAvailable,
		}
		start = end
	}
	return slots
}

func spans(groups []domain.SlotGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.DisplayStart.String() + "-" + g.DisplayEnd.String()
	}
	return out
}

func TestGroupConsecutiveSlots_Durations(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		want     []string
	}{
		{
			name:     "15 minutes",
			duration: 15,
			want:     []string{"08:00-08:15", "08:15-08:30", "08:30-08:45", "08:45-09:00", "09:00-09:15"},
		},
		{
			name:     "30 minutes",
			duration: 30,
			want:     []string{"08:00-08:30", "08:15-08:45", "08:30-09:00", "08:45-09:15"},
		},
		{
			name:     "45 minutes",
			duration: 45,
			want:     []string{"08:00-08:45", "08:15-09:00", "08:30-09:15"},
		},
		{
			name:     "20 minutes rounds up to two slots",
			duration: 20,
			want:     []string{"08:00-08:30", "08:15-08:45", "08:30-09:00", "08:45-09:15"},
		},
		{
			name:     "longer than the pool",
			duration: 90,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := GroupConsecutiveSlots(pool(5), tt.duration, 15)
			assert.Equal(t, tt.want, spans(groups))
		})
	}
}

func TestGroupConsecutiveSlots_BookedSlotBreaksWindows(t *testing.T) {
	// 08:00-09:30, третий слот (08:30-08:45) занят
	slots := pool(6)
	slots[2].Status = domain.SlotBooked

	groups := GroupConsecutiveSlots(slots, 45, 15)
	require.Len(t, groups, 1)
	assert.Equal(t, "08:45-09:30", spans(groups)[0])
	assert.Equal(t, []int64{4, 5, 6}, groups[0].SlotIDs)

	// На пяти слотах после занятого остаётся только два подряд: групп нет
	five := pool(5)
	five[2].Status = domain.SlotBooked
	assert.Empty(t, GroupConsecutiveSlots(five, 45, 15))
}

func TestGroupConsecutiveSlots_DisabledSlotIsExcluded(t *testing.T) {
	slots := pool(4)
	slots[1].Status = domain.SlotDisabled

	groups := GroupConsecutiveSlots(slots, 30, 15)
	assert.Equal(t, []string{"08:30-09:00"}, spans(groups))
}

func TestGroupConsecutiveSlots_IdentityCase(t *testing.T) {
	slots := pool(8)
	slots[3].Status = domain.SlotBooked
	slots[6].Status = domain.SlotDisabled

	groups := GroupConsecutiveSlots(slots, 15, 15)
	require.Len(t, groups, 6)
	for _, g := range groups {
		assert.Len(t, g.SlotIDs, 1)
	}
}

func TestGroupConsecutiveSlots_CountGuarantee(t *testing.T) {
	for m := 0; m <= 10; m++ {
		for required := 1; required <= 4; required++ {
			groups := GroupConsecutiveSlots(pool(m), required*15, 15)
			want := 0
			if m >= required {
				want = m - required + 1
			}
			assert.Len(t, groups, want, "m=%d required=%d", m, required)
		}
	}
}

func TestGroupConsecutiveSlots_EmptyInputs(t *testing.T) {
	assert.Empty(t, GroupConsecutiveSlots(nil, 30, 15))
	assert.Empty(t, GroupConsecutiveSlots(pool(4), 0, 15))
	assert.Empty(t, GroupConsecutiveSlots(pool(4), 30, 0))
	assert.NotNil(t, GroupConsecutiveSlots(nil, 30, 15))
}

func TestGroupConsecutiveSlots_UnsortedPool(t *testing.T) {
	slots := pool(4)
	shuffled := []*domain.Slot{slots[3], slots[0], slots[2], slots[1]}

	groups := GroupConsecutiveSlots(shuffled, 30, 15)
	assert.Equal(t, []string{"08:00-08:30", "08:15-08:45", "08:30-09:00"}, spans(groups))
}

func TestGroupConsecutiveSlots_ShiftBoundary(t *testing.T) {
	morning := pool(2) // 08:00-08:30
	next := pool(4)[2:]
	for _, s := range next {
		s.ShiftName = "late-morning" // 08:30-09:00, сразу за утренней сменой
	}
	contiguous := append(append([]*domain.Slot{}, morning...), next...)
	assert.Len(t, GroupConsecutiveSlots(contiguous, 60, 15), 1)

	// Разрыв между сменами: 08:00-08:30 и 10:00-10:30
	gap := pool(2)
	later := pool(2)
	for i, s := range later {
		s.ID = int64(10 + i)
		s.StartTime, _ = s.StartTime.AddMinutes(120)
		s.EndTime, _ = s.EndTime.AddMinutes(120)
		s.ShiftName = "noon"
	}
	assert.Empty(t, GroupConsecutiveSlots(append(gap, later...), 60, 15))
}

func TestGroupConsecutiveSlots_ToleratesOneMinuteDrift(t *testing.T) {
	slots := pool(2)
	slots[1].StartTime = types.MustTimeString("08:16")
	slots[1].EndTime = types.MustTimeString("08:31")

	assert.Len(t, GroupConsecutiveSlots(slots, 30, 15), 1)
}

func TestGroupConsecutiveSlots_SupersetPoolDoesNotMixKeys(t *testing.T) {
	first := pool(2)
	other := pool(2)
	for _, s := range other {
		s.ID += 100
		s.RoomID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	}

	groups := GroupConsecutiveSlots(append(first, other...), 30, 15)
	require.Len(t, groups, 2)
	assert.Equal(t, []int64{1, 2}, groups[0].SlotIDs)
	assert.Equal(t, []int64{101, 102}, groups[1].SlotIDs)
}
