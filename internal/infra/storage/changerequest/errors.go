package changerequest

import "errors"

var (
	// ErrRequestNotFound возвращается, когда запрос на изменение не найден
	ErrRequestNotFound = errors.New("changerequest.repository: change request not found")

	// ErrAlreadyDecided возвращается при попытке изменить решённый запрос
	// Терминальные статусы неизменяемы, проверяется на уровне UPDATE ... WHERE status = 'pending'
	ErrAlreadyDecided = errors.New("changerequest.repository: request already decided")

	// ErrPendingRequestExists возвращается, когда для записи уже есть
	// pending-запрос (частичный уникальный индекс в БД)
	ErrPendingRequestExists = errors.New("changerequest.repository: pending request already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("changerequest.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("changerequest.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("changerequest.repository: failed to scan row")
)
