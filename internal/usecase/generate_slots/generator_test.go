package generate_slots

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicSlots/internal/domain"
	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

// 2025-03-03 - понедельник
var today = domain.NewDate(2025, time.March, 3)

func testConfig() *domain.ShiftConfig {
	return &domain.ShiftConfig{
		SlotUnitMinutes:       15,
		MaxBookingHorizonDays: 14,
		Shifts: []domain.Shift{
			{Name: "evening", StartTime: types.MustTimeString("17:00"), EndTime: types.MustTimeString("17:30"), IsActive: true},
			{Name: "morning", StartTime: types.MustTimeString("08:00"), EndTime: types.MustTimeString("09:15"), IsActive: true},
			{Name: "lunch", StartTime: types.MustTimeString("12:00"), EndTime: types.MustTimeString("13:00"), IsActive: false},
		},
	}
}

func openCalendar() domain.HolidayCalendar {
	return domain.HolidayCalendar{OpenWithoutWeeklyRules: true}
}

func dayRequest(date time.Time, mode Mode) DayRequest {
	return DayRequest{RoomID: uuid.New(), PractitionerID: uuid.New(), Date: date, Mode: mode}
}

func TestGenerateDay_ShiftOrderAndTimes(t *testing.T) {
	req := dayRequest(today, ModePatient)

	plan, err := GenerateDay(testConfig(), openCalendar(), req, today)
	require.NoError(t, err)
	require.False(t, plan.Closed)
	require.Len(t, plan.Slots, 7)

	// Сначала evening (определена первой), затем morning; lunch неактивна
	wantStarts := []string{"17:00", "17:15", "08:00", "08:15", "08:30", "08:45", "09:00"}
	for i, s := range plan.Slots {
		assert.Equal(t, wantStarts[i], s.StartTime.String())
		assert.Equal(t, 15, s.EndTime.Minutes()-s.StartTime.Minutes())
		assert.Equal(t, domain.SlotAvailable, s.Status)
		assert.Equal(t, req.RoomID, s.RoomID)
		assert.Equal(t, req.PractitionerID, s.PractitionerID)
		assert.True(t, s.Date.Equal(today))
	}
	assert.Equal(t, "evening", plan.Slots[0].ShiftName)
	assert.Equal(t, "morning", plan.Slots[6].ShiftName)
}

func TestGenerateDay_ClosedDays(t *testing.T) {
	calendar := domain.HolidayCalendar{Rules: []domain.HolidayRule{
		domain.ClosedRange(today.AddDate(0, 0, 1), today.AddDate(0, 0, 2), "конференция"),
		domain.FixedNonWorkingWeekday(time.Sunday),
	}}

	plan, err := GenerateDay(testConfig(), calendar, dayRequest(today.AddDate(0, 0, 2), ModePatient), today)
	require.NoError(t, err)
	assert.True(t, plan.Closed)
	assert.Equal(t, domain.ClosedByRange, plan.ClosedReason)
	assert.Empty(t, plan.Slots)

	plan, err = GenerateDay(testConfig(), calendar, dayRequest(today.AddDate(0, 0, 6), ModePatient), today)
	require.NoError(t, err)
	assert.True(t, plan.Closed)
	assert.Equal(t, domain.ClosedByWeekday, plan.ClosedReason)

	plan, err = GenerateDay(testConfig(), calendar, dayRequest(today, ModePatient), today)
	require.NoError(t, err)
	assert.False(t, plan.Closed)
}

func TestGenerateDay_DateBounds(t *testing.T) {
	_, err := GenerateDay(testConfig(), openCalendar(), dayRequest(today.AddDate(0, 0, -1), ModeAdmin), today)
	assert.ErrorIs(t, err, ErrDateInPast)

	farAway := today.AddDate(0, 0, 15)
	_, err = GenerateDay(testConfig(), openCalendar(), dayRequest(farAway, ModePatient), today)
	assert.ErrorIs(t, err, ErrBeyondHorizon)

	plan, err := GenerateDay(testConfig(), openCalendar(), dayRequest(farAway, ModeAdmin), today)
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Slots)

	lastDay := today.AddDate(0, 0, 14)
	_, err = GenerateDay(testConfig(), openCalendar(), dayRequest(lastDay, ModePatient), today)
	assert.NoError(t, err)

	unlimited := testConfig()
	unlimited.MaxBookingHorizonDays = 0
	_, err = GenerateDay(unlimited, openCalendar(), dayRequest(today.AddDate(1, 0, 0), ModePatient), today)
	assert.NoError(t, err)
}

func TestGenerateDay_NonDivisibleShiftIsConfigurationError(t *testing.T) {
	cfg := testConfig()
	cfg.Shifts = append(cfg.Shifts, domain.Shift{
		Name:      "odd",
		StartTime: types.MustTimeString("14:00"),
		EndTime:   types.MustTimeString("14:50"),
		IsActive:  true,
	})

	_, err := GenerateDay(cfg, openCalendar(), dayRequest(today, ModePatient), today)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
