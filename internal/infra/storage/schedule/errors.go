package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда расписание специалиста не найдено
	ErrScheduleNotFound = errors.New("schedule.repository: schedule not found")

	// ErrBlockedPeriodNotFound возвращается, когда блокировка не найдена
	ErrBlockedPeriodNotFound = errors.New("schedule.repository: blocked period not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")

	// ErrEncodeSchedule возвращается при ошибке сериализации расписания
	// Типизированные структуры кодируются в JSON только на границе хранилища
	ErrEncodeSchedule = errors.New("schedule.repository: failed to encode schedule")

	// ErrDecodeSchedule возвращается при ошибке десериализации расписания
	ErrDecodeSchedule = errors.New("schedule.repository: failed to decode schedule")
)
