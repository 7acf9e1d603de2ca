package submit_change_request

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/avorotn/SBP-SchedulingService/internal/api/handlers"
	submitChangeRequest "github.com/avorotn/SBP-SchedulingService/internal/usecase/submit_change_request"
	"github.com/avorotn/SBP-SchedulingService/pkg/managetoken"
)

const (
	msgInvalidToken        = "недействительная ссылка управления записью"
	msgExpiredToken        = "срок действия ссылки истёк"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidStartAt      = "некорректный формат requestedStartAt, ожидается ISO 8601"
	msgAppointmentNotFound = "запись не найдена"
	msgNotChangeable       = "запись уже нельзя изменить"
	msgChangesDisabled     = "изменение записей запрещено настройками бизнеса"
	msgTooLate             = "слишком поздно менять запись"
	msgAlreadyPending      = "по записи уже есть нерешённый запрос"
)

type Handler struct {
	useCase  SubmitChangeRequestUseCase
	verifier TokenVerifier
	logger   Logger
}

func NewHandler(useCase SubmitChangeRequestUseCase, verifier TokenVerifier, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		verifier: verifier,
		logger:   logger,
	}
}

// Handle POST /api/v1/manage/{token}/change-requests
// Публичный маршрут: владение подписанным токеном заменяет аутентификацию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := h.verifier.Verify(vars["token"])
	if err != nil {
		switch {
		case errors.Is(err, managetoken.ErrTokenExpired):
			h.logger.Warn("POST /manage/{token}/change-requests - Expired token")
			handlers.RespondUnauthorized(w, msgExpiredToken)
		default:
			h.logger.Warn("POST /manage/{token}/change-requests - Invalid token: %v", err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
		}
		return
	}

	var req SubmitChangeRequestRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /manage/{token}/change-requests - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("POST /manage/{token}/change-requests - Invalid requestedStartAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, submitChangeRequest.ErrAppointmentNotFound):
			h.logger.Warn("POST /manage/{token}/change-requests - Appointment not found: id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, submitChangeRequest.ErrAppointmentNotChangeable):
			h.logger.Warn("POST /manage/{token}/change-requests - Not changeable: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgNotChangeable)

		case errors.Is(err, submitChangeRequest.ErrChangesDisabled):
			h.logger.Warn("POST /manage/{token}/change-requests - Changes disabled: appointment_id=%d", appointmentID)
			handlers.RespondForbidden(w, msgChangesDisabled)

		case errors.Is(err, submitChangeRequest.ErrTooLate):
			h.logger.Warn("POST /manage/{token}/change-requests - Too late: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgTooLate)

		case errors.Is(err, submitChangeRequest.ErrRequestAlreadyPending):
			h.logger.Warn("POST /manage/{token}/change-requests - Request already pending: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgAlreadyPending)

		case errors.Is(err, submitChangeRequest.ErrInvalidInput), errors.Is(err, submitChangeRequest.ErrInvalidRange):
			h.logger.Warn("POST /manage/{token}/change-requests - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /manage/{token}/change-requests - Failed to submit request: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /manage/{token}/change-requests - Request submitted: id=%d, appointment_id=%d, auto_decided=%t",
		result.ChangeRequest.ID, appointmentID, result.AutoDecided)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
