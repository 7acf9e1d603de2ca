package get_managed_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/avorotn/SBP-SchedulingService/internal/api/handlers"
	"github.com/avorotn/SBP-SchedulingService/internal/service/appointments"
	"github.com/avorotn/SBP-SchedulingService/pkg/managetoken"
)

const (
	msgInvalidToken        = "недействительная ссылка управления записью"
	msgExpiredToken        = "срок действия ссылки истёк"
	msgAppointmentNotFound = "запись не найдена"
)

type Handler struct {
	service     AppointmentService
	requestRepo ChangeRequestRepository
	verifier    TokenVerifier
	logger      Logger
}

func NewHandler(service AppointmentService, requestRepo ChangeRequestRepository, verifier TokenVerifier, logger Logger) *Handler {
	return &Handler{
		service:     service,
		requestRepo: requestRepo,
		verifier:    verifier,
		logger:      logger,
	}
}

// Handle GET /api/v1/manage/{token}/appointment
// Публичный маршрут: владение подписанным токеном заменяет аутентификацию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := h.verifier.Verify(vars["token"])
	if err != nil {
		switch {
		case errors.Is(err, managetoken.ErrTokenExpired):
			h.logger.Warn("GET /manage/{token}/appointment - Expired token")
			handlers.RespondUnauthorized(w, msgExpiredToken)
		default:
			h.logger.Warn("GET /manage/{token}/appointment - Invalid token: %v", err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
		}
		return
	}

	result, err := h.service.GetByManageToken(r.Context(), appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("GET /manage/{token}/appointment - Appointment not found: id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		default:
			h.logger.Error("GET /manage/{token}/appointment - Failed to get appointment: id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	requests, err := h.requestRepo.ListByAppointment(r.Context(), appointmentID)
	if err != nil {
		h.logger.Error("GET /manage/{token}/appointment - Failed to load change requests: id=%d, error=%v",
			appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /manage/{token}/appointment - Appointment retrieved: id=%d, change_requests=%d",
		appointmentID, len(requests))
	handlers.RespondJSON(w, http.StatusOK, &ManagedAppointmentResponse{
		Appointment:    result,
		ChangeRequests: FromDomainChangeRequests(requests),
	})
}
