package submit_change_request

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("submit_change_request: appointment not found")

	// ErrAppointmentNotChangeable возвращается, когда запись уже нельзя изменить
	ErrAppointmentNotChangeable = errors.New("submit_change_request: appointment can no longer be changed")

	// ErrChangesDisabled возвращается, когда бизнес запретил такой тип изменений
	ErrChangesDisabled = errors.New("submit_change_request: changes of this type are disabled")

	// ErrTooLate возвращается, когда до начала записи осталось меньше
	// минимального срока подачи запроса
	ErrTooLate = errors.New("submit_change_request: too late to request a change")

	// ErrInvalidRange возвращается при некорректном запрошенном интервале
	ErrInvalidRange = errors.New("submit_change_request: invalid requested range")

	// ErrRequestAlreadyPending возвращается, когда по записи уже есть
	// нерешённый запрос
	ErrRequestAlreadyPending = errors.New("submit_change_request: a pending request already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_change_request: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_change_request: internal error")
)
