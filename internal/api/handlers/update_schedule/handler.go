package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avorotn/SBP-SchedulingService/internal/api/handlers"
	"github.com/avorotn/SBP-SchedulingService/internal/api/middleware"
	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/service/schedule"
	"github.com/avorotn/SBP-SchedulingService/internal/service/schedule/models"
)

const (
	msgInvalidSpecialistID = "некорректный ID специалиста"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgUnauthorized        = "требуется аутентификация"
	msgAccessDenied        = "нет доступа к расписанию"
	msgInvalidWindow       = "некорректное рабочее окно"
	msgInvalidOverrideDate = "некорректная дата переопределения"
	msgBusinessNotFound    = "бизнес не найден"
)

// UpdateScheduleRequest HTTP request model
type UpdateScheduleRequest struct {
	BusinessID    int64                       `json:"businessId,omitempty"`
	WeeklyHours   *domain.WeeklyHours         `json:"weeklyHours,omitempty"`
	DateOverrides map[string]domain.DayWindow `json:"dateOverrides,omitempty"`
}

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

// Handle PUT /api/v1/specialists/{specialistId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	specialistID, err := strconv.ParseInt(vars["specialistId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /specialists/{id}/schedule - Invalid specialist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpecialistID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /specialists/{id}/schedule - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /specialists/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateSchedule(r.Context(), specialistID, &models.UpdateScheduleRequest{
		UserID:        userID,
		BusinessID:    req.BusinessID,
		WeeklyHours:   req.WeeklyHours,
		DateOverrides: req.DateOverrides,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /specialists/{id}/schedule - Access denied: specialist_id=%d, user_id=%d",
				specialistID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, schedule.ErrBusinessNotFound):
			h.logger.Warn("PUT /specialists/{id}/schedule - Business not found: specialist_id=%d", specialistID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, schedule.ErrInvalidWindow):
			h.logger.Warn("PUT /specialists/{id}/schedule - Invalid window: specialist_id=%d, error=%v", specialistID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, schedule.ErrInvalidOverrideDate):
			h.logger.Warn("PUT /specialists/{id}/schedule - Invalid override date: specialist_id=%d, error=%v", specialistID, err)
			handlers.RespondBadRequest(w, msgInvalidOverrideDate)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /specialists/{id}/schedule - Invalid input: specialist_id=%d, error=%v", specialistID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /specialists/{id}/schedule - Failed to update schedule: specialist_id=%d, error=%v",
				specialistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /specialists/{id}/schedule - Schedule updated: specialist_id=%d", specialistID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
