package create_appointment

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_appointment: business not found")

	// ErrSpecialistNotFound возвращается, когда специалист не найден
	ErrSpecialistNotFound = errors.New("create_appointment: specialist not found")

	// ErrSpecialistInactive возвращается, когда специалист деактивирован
	ErrSpecialistInactive = errors.New("create_appointment: specialist is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInvalidRange возвращается при некорректном интервале записи
	ErrInvalidRange = errors.New("create_appointment: invalid appointment range")

	// ErrInvalidTimezone возвращается, когда часовой пояс бизнеса не удалось загрузить
	ErrInvalidTimezone = errors.New("create_appointment: invalid business timezone")

	// ErrOutsideWorkingHours возвращается, когда интервал не попадает в рабочее окно
	ErrOutsideWorkingHours = errors.New("create_appointment: slot is outside working hours")

	// ErrSlotBlocked возвращается, когда интервал пересекает блокировку специалиста
	ErrSlotBlocked = errors.New("create_appointment: slot intersects a blocked period")

	// ErrSlotTaken возвращается, когда интервал уже занят другой записью
	ErrSlotTaken = errors.New("create_appointment: slot is already taken")

	// ErrWriteConflict возвращается при конфликте сериализации, запрос можно повторить
	ErrWriteConflict = errors.New("create_appointment: write conflict, please retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
