package get_specialist_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/avorotn/SBP-SchedulingService/internal/api/handlers"
	"github.com/avorotn/SBP-SchedulingService/internal/api/middleware"
	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/service/appointments"
	"github.com/avorotn/SBP-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidSpecialistID = "некорректный ID специалиста"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus       = "некорректный статус"
	msgUnauthorized        = "требуется аутентификация"
	msgSpecialistNotFound  = "специалист не найден"
	msgAccessDenied        = "нет доступа к записям специалиста"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/specialists/{specialistId}/appointments
// Query params: from, to (YYYY-MM-DD), status, includeCancelled
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	specialistID, err := strconv.ParseInt(vars["specialistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /specialists/{id}/appointments - Invalid specialist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpecialistID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /specialists/{id}/appointments - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	req := &models.GetSpecialistAppointmentsRequest{
		UserID:           userID,
		SpecialistID:     specialistID,
		IncludeCancelled: r.URL.Query().Get("includeCancelled") == "true",
	}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			h.logger.Warn("GET /specialists/{id}/appointments - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.From = &from
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			h.logger.Warn("GET /specialists/{id}/appointments - Invalid to date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		// Верхняя граница исключительна: конец дня = начало следующего
		endOfDay := to.AddDate(0, 0, 1)
		req.To = &endOfDay
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetSpecialistAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrSpecialistNotFound):
			h.logger.Warn("GET /specialists/{id}/appointments - Specialist not found: id=%d", specialistID)
			handlers.RespondNotFound(w, msgSpecialistNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /specialists/{id}/appointments - Access denied: specialist_id=%d, user_id=%d",
				specialistID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /specialists/{id}/appointments - Invalid status filter: specialist_id=%d", specialistID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /specialists/{id}/appointments - Failed to get appointments: specialist_id=%d, error=%v",
				specialistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /specialists/{id}/appointments - Appointments retrieved: specialist_id=%d, count=%d",
		specialistID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
