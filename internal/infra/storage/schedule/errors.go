package schedule

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда строка настроек расписания отсутствует (миграции не применены)
	ErrSettingsNotFound = errors.New("schedule.repository: schedule settings not found")

	// ErrHolidayRuleNotFound возвращается, когда правило календаря не найдено
	ErrHolidayRuleNotFound = errors.New("schedule.repository: holiday rule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
