package add_blocked_period

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/avorotn/SBP-SchedulingService/internal/api/handlers"
	"github.com/avorotn/SBP-SchedulingService/internal/api/middleware"
	"github.com/avorotn/SBP-SchedulingService/internal/service/schedule"
	"github.com/avorotn/SBP-SchedulingService/internal/service/schedule/models"
)

const (
	msgInvalidSpecialistID = "некорректный ID специалиста"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTimestamp    = "некорректный формат времени, ожидается ISO 8601"
	msgUnauthorized        = "требуется аутентификация"
	msgScheduleNotFound    = "расписание не найдено"
	msgAccessDenied        = "нет доступа к расписанию"
	msgInvalidPeriod       = "начало периода должно быть раньше конца"
)

// AddBlockedPeriodRequest HTTP request model
type AddBlockedPeriodRequest struct {
	StartAt string  `json:"startAt"` // ISO 8601
	EndAt   string  `json:"endAt"`   // ISO 8601
	Reason  *string `json:"reason,omitempty"`
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

// Handle POST /api/v1/specialists/{specialistId}/blocked-periods
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	specialistID, err := strconv.ParseInt(vars["specialistId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /specialists/{id}/blocked-periods - Invalid specialist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpecialistID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /specialists/{id}/blocked-periods - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req AddBlockedPeriodRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /specialists/{id}/blocked-periods - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		h.logger.Warn("POST /specialists/{id}/blocked-periods - Invalid startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimestamp)
		return
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		h.logger.Warn("POST /specialists/{id}/blocked-periods - Invalid endAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTimestamp)
		return
	}

	result, err := h.service.AddBlockedPeriod(r.Context(), specialistID, &models.AddBlockedPeriodRequest{
		UserID:  userID,
		StartAt: startAt,
		EndAt:   endAt,
		Reason:  req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrScheduleNotFound):
			h.logger.Warn("POST /specialists/{id}/blocked-periods - Schedule not found: specialist_id=%d", specialistID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /specialists/{id}/blocked-periods - Access denied: specialist_id=%d, user_id=%d",
				specialistID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, schedule.ErrInvalidPeriod):
			h.logger.Warn("POST /specialists/{id}/blocked-periods - Invalid period: specialist_id=%d", specialistID)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("POST /specialists/{id}/blocked-periods - Failed to add period: specialist_id=%d, error=%v",
				specialistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /specialists/{id}/blocked-periods - Period added: id=%d, specialist_id=%d",
		result.ID, specialistID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
