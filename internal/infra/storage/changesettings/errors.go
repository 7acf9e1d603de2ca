package changesettings

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда настройки не найдены
	ErrSettingsNotFound = errors.New("changesettings.repository: settings not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("changesettings.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("changesettings.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("changesettings.repository: failed to scan row")
)
