package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда расписание специалиста не найдено
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrBlockedPeriodNotFound возвращается, когда блокировка не найдена
	ErrBlockedPeriodNotFound = errors.New("blocked period not found")

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidWindow возвращается при некорректном рабочем окне
	ErrInvalidWindow = errors.New("invalid working window")

	// ErrInvalidOverrideDate возвращается при некорректной дате переопределения
	ErrInvalidOverrideDate = errors.New("invalid override date")

	// ErrInvalidPeriod возвращается при некорректном периоде блокировки
	ErrInvalidPeriod = errors.New("invalid blocked period")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
