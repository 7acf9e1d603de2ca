package businessservice

import "time"

// Business модель бизнеса из BusinessService
type Business struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Timezone   string  `json:"timezone"` // IANA имя, например "Europe/Moscow"
	ManagerIDs []int64 `json:"manager_ids"`
}

// Location возвращает часовой пояс бизнеса
// Все вычисления слотов обязаны выполняться в нём, не в серверном поясе
func (b *Business) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.Timezone)
}

// IsManager проверяет, входит ли пользователь в менеджеры бизнеса
func (b *Business) IsManager(userID int64) bool {
	for _, id := range b.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Specialist модель специалиста из BusinessService
// Профильные поля (имя, фото, описание) ядро не использует
type Specialist struct {
	ID         int64 `json:"id"`
	BusinessID int64 `json:"business_id"`
	IsActive   bool  `json:"is_active"`
}

// ErrorResponse модель ошибки от BusinessService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
