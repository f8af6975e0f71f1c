package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

func TestSlotFilter_NilVersusEmpty(t *testing.T) {
	room := uuid.New()
	slot := &Slot{
		RoomID:         room,
		PractitionerID: uuid.New(),
		Date:           monday,
		ShiftName:      "morning",
		StartTime:      types.MustTimeString("08:00"),
		EndTime:        types.MustTimeString("08:15"),
		Status:         SlotAvailable,
	}

	all := SlotFilter{DateFrom: monday, DateTo: monday}
	assert.True(t, all.Matches(slot))
	assert.False(t, all.MatchesNothing())

	none := SlotFilter{DateFrom: monday, DateTo: monday, RoomIDs: []uuid.UUID{}}
	assert.False(t, none.Matches(slot))
	assert.True(t, none.MatchesNothing())

	byRoom := SlotFilter{DateFrom: monday, DateTo: monday, RoomIDs: []uuid.UUID{room}}
	assert.True(t, byRoom.Matches(slot))

	otherShift := SlotFilter{DateFrom: monday, DateTo: monday, Shifts: []string{"evening"}}
	assert.False(t, otherShift.Matches(slot))

	outOfRange := SlotFilter{DateFrom: monday.AddDate(0, 0, 1), DateTo: monday.AddDate(0, 0, 2)}
	assert.False(t, outOfRange.Matches(slot))

	onlyBooked := all.WithStatuses(SlotBooked)
	assert.False(t, onlyBooked.Matches(slot))
	assert.Nil(t, all.Statuses)
}

func TestSlotFilter_MatchesIgnoresClockTime(t *testing.T) {
	slot := &Slot{Date: monday.Add(15 * time.Hour), Status: SlotAvailable}
	f := SlotFilter{DateFrom: monday, DateTo: monday}
	assert.True(t, f.Matches(slot))
}

func TestAreContiguous(t *testing.T) {
	room, doc := uuid.New(), uuid.New()
	mk := func(start, end string) *Slot {
		return &Slot{
			RoomID:         room,
			PractitionerID: doc,
			Date:           monday,
			StartTime:      types.MustTimeString(start),
			EndTime:        types.MustTimeString(end),
		}
	}

	assert.True(t, AreContiguous(mk("08:00", "08:15"), mk("08:15", "08:30")))
	assert.True(t, AreContiguous(mk("08:00", "08:15"), mk("08:16", "08:31")))
	assert.False(t, AreContiguous(mk("08:00", "08:15"), mk("08:30", "08:45")))

	other := mk("08:15", "08:30")
	other.RoomID = uuid.New()
	assert.False(t, AreContiguous(mk("08:00", "08:15"), other))

	nextDay := mk("08:15", "08:30")
	nextDay.Date = monday.AddDate(0, 0, 1)
	assert.False(t, AreContiguous(mk("08:00", "08:15"), nextDay))
}

func TestRequiredSlotCount(t *testing.T) {
	assert.Equal(t, 1, RequiredSlotCount(15, 15))
	assert.Equal(t, 2, RequiredSlotCount(20, 15))
	assert.Equal(t, 3, RequiredSlotCount(45, 15))
	assert.Equal(t, 0, RequiredSlotCount(0, 15))
	assert.Equal(t, 0, RequiredSlotCount(30, 0))
}
