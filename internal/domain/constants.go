package domain

// Значения конфигурации по умолчанию
const (
	DefaultSlotUnitMinutes       = 15
	DefaultMaxBookingHorizonDays = 30
)

// Ограничения бизнес-валидации
const (
	MinSlotUnitMinutes        = 5
	MaxSlotUnitMinutes        = 240
	MinBookingHorizonDays     = 0
	MaxBookingHorizonDays     = 365
	MaxShiftsPerDay           = 8
	MaxShiftNameLength        = 64
	MaxServiceDurationMinutes = 480 // 8 часов
	MaxFilterRangeDays        = 366
	MaxReserveSlots           = 32
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ContiguityToleranceMinutes допуск при проверке смежности слотов (округления при импорте)
const ContiguityToleranceMinutes = 1
