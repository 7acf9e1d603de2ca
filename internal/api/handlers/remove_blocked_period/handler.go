package remove_blocked_period

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avorotn/SBP-SchedulingService/internal/api/handlers"
	"github.com/avorotn/SBP-SchedulingService/internal/api/middleware"
	"github.com/avorotn/SBP-SchedulingService/internal/service/schedule"
)

const (
	msgInvalidSpecialistID   = "некорректный ID специалиста"
	msgInvalidPeriodID       = "некорректный ID блокировки"
	msgUnauthorized          = "требуется аутентификация"
	msgScheduleNotFound      = "расписание не найдено"
	msgBlockedPeriodNotFound = "блокировка не найдена"
	msgAccessDenied          = "нет доступа к расписанию"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/specialists/{specialistId}/blocked-periods/{periodId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	specialistID, err := strconv.ParseInt(vars["specialistId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /specialists/{id}/blocked-periods/{id} - Invalid specialist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpecialistID)
		return
	}

	periodID, err := strconv.ParseInt(vars["periodId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /specialists/{id}/blocked-periods/{id} - Invalid period ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriodID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /specialists/{id}/blocked-periods/{id} - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	if err := h.service.RemoveBlockedPeriod(r.Context(), specialistID, periodID, userID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrScheduleNotFound):
			h.logger.Warn("DELETE /specialists/{id}/blocked-periods/{id} - Schedule not found: specialist_id=%d", specialistID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, schedule.ErrBlockedPeriodNotFound):
			h.logger.Warn("DELETE /specialists/{id}/blocked-periods/{id} - Period not found: id=%d", periodID)
			handlers.RespondNotFound(w, msgBlockedPeriodNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /specialists/{id}/blocked-periods/{id} - Access denied: specialist_id=%d, user_id=%d",
				specialistID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("DELETE /specialists/{id}/blocked-periods/{id} - Failed to remove period: id=%d, error=%v",
				periodID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /specialists/{id}/blocked-periods/{id} - Period removed: id=%d, specialist_id=%d",
		periodID, specialistID)
	w.WriteHeader(http.StatusNoContent)
}
