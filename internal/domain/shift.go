package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicSlots/pkg/types"
)

// Shift именованная рабочая смена дня (утро, день, вечер)
type Shift struct {
	Name      string
	StartTime types.TimeString
	EndTime   types.TimeString
	IsActive  bool
}

// DurationMinutes длительность смены в минутах
func (s Shift) DurationMinutes() int {
	return s.EndTime.Minutes() - s.StartTime.Minutes()
}

// ShiftConfig конфигурация расписания клиники (одна на клинику)
// Порядок Shifts - порядок определения смен, в нём же выдаются слоты
type ShiftConfig struct {
	Shifts                []Shift
	SlotUnitMinutes       int
	MaxBookingHorizonDays int // 0 = без ограничений
	UpdatedAt             time.Time
}

// HasHorizonLimit возвращает true, если пациент не может бронировать дальше горизонта
func (c *ShiftConfig) HasHorizonLimit() bool {
	return c.MaxBookingHorizonDays > 0
}

// ActiveShifts активные смены в порядке определения
func (c *ShiftConfig) ActiveShifts() []Shift {
	active := make([]Shift, 0, len(c.Shifts))
	for _, s := range c.Shifts {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active
}

// ShiftByName ищет смену по имени
func (c *ShiftConfig) ShiftByName(name string) (Shift, bool) {
	for _, s := range c.Shifts {
		if s.Name == name {
			return s, true
		}
	}
	return Shift{}, false
}

// ShiftNames имена всех смен (в том числе неактивных)
func (c *ShiftConfig) ShiftNames() []string {
	names := make([]string, len(c.Shifts))
	for i, s := range c.Shifts {
		names[i] = s.Name
	}
	return names
}

// SlotCount количество слотов в смене; длительность обязана делиться на единицу слота
func (c *ShiftConfig) SlotCount(s Shift) (int, error) {
	if c.SlotUnitMinutes <= 0 {
		return 0, fmt.Errorf("%w: slotUnitMinutes must be positive", ErrConfiguration)
	}
	duration := s.DurationMinutes()
	if duration <= 0 {
		return 0, fmt.Errorf("%w: shift %q ends before it starts", ErrConfiguration, s.Name)
	}
	if duration%c.SlotUnitMinutes != 0 {
		return 0, fmt.Errorf("%w: shift %q duration %d is not divisible by slot unit %d",
			ErrConfiguration, s.Name, duration, c.SlotUnitMinutes)
	}
	return duration / c.SlotUnitMinutes, nil
}

// Validate проверяет инварианты конфигурации:
// уникальные непустые имена, end > start, кратность единице слота, смены не пересекаются
func (c *ShiftConfig) Validate() error {
	if c.SlotUnitMinutes < MinSlotUnitMinutes || c.SlotUnitMinutes > MaxSlotUnitMinutes {
		return fmt.Errorf("%w: slotUnitMinutes must be between %d and %d",
			ErrConfiguration, MinSlotUnitMinutes, MaxSlotUnitMinutes)
	}
	if c.MaxBookingHorizonDays < MinBookingHorizonDays || c.MaxBookingHorizonDays > MaxBookingHorizonDays {
		return fmt.Errorf("%w: maxBookingHorizonDays must be between %d and %d",
			ErrConfiguration, MinBookingHorizonDays, MaxBookingHorizonDays)
	}
	if len(c.Shifts) > MaxShiftsPerDay {
		return fmt.Errorf("%w: at most %d shifts per day", ErrConfiguration, MaxShiftsPerDay)
	}

	seen := make(map[string]struct{}, len(c.Shifts))
	for _, s := range c.Shifts {
		name := strings.TrimSpace(s.Name)
		if name == "" || len(name) > MaxShiftNameLength {
			return fmt.Errorf("%w: shift name must be 1..%d characters", ErrConfiguration, MaxShiftNameLength)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate shift %q", ErrConfiguration, name)
		}
		seen[name] = struct{}{}

		if err := s.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: shift %q start: %v", ErrConfiguration, name, err)
		}
		if err := s.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: shift %q end: %v", ErrConfiguration, name, err)
		}
		if _, err := c.SlotCount(s); err != nil {
			return err
		}
	}

	// Пересечения проверяем по всем сменам: неактивная смена может быть включена позже
	ordered := make([]Shift, len(c.Shifts))
	copy(ordered, c.Shifts)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Minutes() < ordered[j].StartTime.Minutes()
	})
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if cur.StartTime.Minutes() < prev.EndTime.Minutes() {
			return fmt.Errorf("%w: shifts %q and %q overlap", ErrConfiguration, prev.Name, cur.Name)
		}
	}

	return nil
}
