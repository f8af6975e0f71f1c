package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

func shift(name, start, end string, active bool) Shift {
	return Shift{
		Name:      name,
		StartTime: types.MustTimeString(start),
		EndTime:   types.MustTimeString(end),
		IsActive:  active,
	}
}

func TestShiftConfig_SlotCount(t *testing.T) {
	cfg := &ShiftConfig{SlotUnitMinutes: 15}

	n, err := cfg.SlotCount(shift("morning", "08:00", "12:00", true))
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	_, err = cfg.SlotCount(shift("odd", "08:00", "08:50", true))
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = cfg.SlotCount(shift("reversed", "12:00", "08:00", true))
	assert.ErrorIs(t, err, ErrConfiguration)

	zero := &ShiftConfig{SlotUnitMinutes: 0}
	_, err = zero.SlotCount(shift("morning", "08:00", "12:00", true))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestShiftConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ShiftConfig
		wantErr bool
	}{
		{
			name: "valid three shifts",
			cfg: ShiftConfig{
				SlotUnitMinutes:       15,
				MaxBookingHorizonDays: 30,
				Shifts: []Shift{
					shift("morning", "08:00", "12:00", true),
					shift("afternoon", "13:00", "17:00", true),
					shift("evening", "17:00", "20:00", false),
				},
			},
		},
		{
			name: "overlap with inactive shift",
			cfg: ShiftConfig{
				SlotUnitMinutes: 15,
				Shifts: []Shift{
					shift("morning", "08:00", "12:00", true),
					shift("late-morning", "11:00", "13:00", false),
				},
			},
			wantErr: true,
		},
		{
			name: "duplicate names",
			cfg: ShiftConfig{
				SlotUnitMinutes: 15,
				Shifts: []Shift{
					shift("morning", "08:00", "09:00", true),
					shift("morning", "10:00", "11:00", true),
				},
			},
			wantErr: true,
		},
		{
			name: "not divisible",
			cfg: ShiftConfig{
				SlotUnitMinutes: 20,
				Shifts:          []Shift{shift("morning", "08:00", "08:50", true)},
			},
			wantErr: true,
		},
		{
			name:    "unit too small",
			cfg:     ShiftConfig{SlotUnitMinutes: 0},
			wantErr: true,
		},
		{
			name:    "negative horizon",
			cfg:     ShiftConfig{SlotUnitMinutes: 15, MaxBookingHorizonDays: -1},
			wantErr: true,
		},
		{
			name: "empty name",
			cfg: ShiftConfig{
				SlotUnitMinutes: 15,
				Shifts:          []Shift{shift("  ", "08:00", "09:00", true)},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfiguration)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestShiftConfig_ActiveShiftsKeepsOrder(t *testing.T) {
	cfg := &ShiftConfig{
		Shifts: []Shift{
			shift("evening", "17:00", "20:00", true),
			shift("morning", "08:00", "12:00", false),
			shift("afternoon", "13:00", "17:00", true),
		},
	}

	active := cfg.ActiveShifts()
	require.Len(t, active, 2)
	assert.Equal(t, "evening", active[0].Name)
	assert.Equal(t, "afternoon", active[1].Name)

	_, ok := cfg.ShiftByName("morning")
	assert.True(t, ok)
	_, ok = cfg.ShiftByName("night")
	assert.False(t, ok)
}
