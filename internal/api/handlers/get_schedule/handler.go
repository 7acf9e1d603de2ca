package get_schedule

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
	msgInvalidSpecialistID = "некорректный ID специалиста"
	msgUnauthorized        = "требуется аутентификация"
	msgScheduleNotFound    = "расписание не найдено"
	msgAccessDenied        = "нет доступа к расписанию"
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

// Handle GET /api/v1/specialists/{specialistId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	specialistID, err := strconv.ParseInt(vars["specialistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /specialists/{id}/schedule - Invalid specialist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpecialistID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /specialists/{id}/schedule - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), specialistID, userID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrScheduleNotFound):
			h.logger.Warn("GET /specialists/{id}/schedule - Schedule not found: specialist_id=%d", specialistID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("GET /specialists/{id}/schedule - Access denied: specialist_id=%d, user_id=%d",
				specialistID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("GET /specialists/{id}/schedule - Failed to get schedule: specialist_id=%d, error=%v",
				specialistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /specialists/{id}/schedule - Schedule retrieved: specialist_id=%d", specialistID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
