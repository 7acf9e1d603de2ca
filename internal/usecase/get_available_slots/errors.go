package get_available_slots

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("get_available_slots: business not found")

	// ErrSpecialistNotFound возвращается, когда специалист не найден
	ErrSpecialistNotFound = errors.New("get_available_slots: specialist not found")

	// ErrSpecialistInactive возвращается, когда специалист деактивирован
	ErrSpecialistInactive = errors.New("get_available_slots: specialist is not active")

	// ErrInvalidDate возвращается при некорректной дате запроса
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrInvalidDuration возвращается при некорректной длительности услуги
	ErrInvalidDuration = errors.New("get_available_slots: invalid duration")

	// ErrInvalidTimezone возвращается, когда часовой пояс бизнеса не удалось загрузить
	ErrInvalidTimezone = errors.New("get_available_slots: invalid business timezone")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
