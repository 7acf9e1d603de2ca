package decide_change_request

import "errors"

var (
	// ErrRequestNotFound возвращается, когда запрос на изменение не найден
	ErrRequestNotFound = errors.New("decide_change_request: change request not found")

	// ErrAlreadyDecided возвращается, когда запрос уже решён
	// Терминальные статусы неизменяемы
	ErrAlreadyDecided = errors.New("decide_change_request: request already decided")

	// ErrAccessDenied возвращается, когда пользователь не менеджер бизнеса
	ErrAccessDenied = errors.New("decide_change_request: access denied")

	// ErrAppointmentNotChangeable возвращается, когда запись уже нельзя изменить
	ErrAppointmentNotChangeable = errors.New("decide_change_request: appointment can no longer be changed")

	// ErrSlotNoLongerAvailable возвращается, когда запрошенный слот заняли
	// между подачей запроса и одобрением; запрос при этом остаётся pending
	ErrSlotNoLongerAvailable = errors.New("decide_change_request: requested slot is no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("decide_change_request: invalid input data")

	// ErrWriteConflict возвращается при конфликте сериализации, запрос можно повторить
	ErrWriteConflict = errors.New("decide_change_request: write conflict, please retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("decide_change_request: internal error")
)
