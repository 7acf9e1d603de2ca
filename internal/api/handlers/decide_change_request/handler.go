package decide_change_request

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avorotn/SBP-SchedulingService/internal/api/handlers"
	"github.com/avorotn/SBP-SchedulingService/internal/api/middleware"
	decideChangeRequest "github.com/avorotn/SBP-SchedulingService/internal/usecase/decide_change_request"
)

const (
	msgInvalidRequestID   = "некорректный ID запроса на изменение"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не аутентифицирован"
	msgRequestNotFound    = "запрос на изменение не найден"
	msgAlreadyDecided     = "запрос уже рассмотрен"
	msgAccessDenied       = "доступ запрещён"
	msgNotChangeable      = "запись уже нельзя изменить"
	msgSlotNotAvailable   = "запрошенное время больше недоступно, запрос остаётся на рассмотрении"
	msgWriteConflict      = "конфликт одновременного доступа, повторите попытку"
)

type Handler struct {
	useCase DecideChangeRequestUseCase
	logger  Logger
}

func NewHandler(useCase DecideChangeRequestUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/change-requests/{requestId}/decide
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	requestID, err := strconv.ParseInt(vars["requestId"], 10, 64)
	if err != nil || requestID <= 0 {
		h.logger.Warn("POST /change-requests/{requestId}/decide - Invalid request ID: %s", vars["requestId"])
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /change-requests/{requestId}/decide - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req DecideChangeRequestRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /change-requests/{requestId}/decide - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(requestID, userID))
	if err != nil {
		switch {
		case errors.Is(err, decideChangeRequest.ErrRequestNotFound):
			h.logger.Warn("POST /change-requests/{requestId}/decide - Request not found: id=%d", requestID)
			handlers.RespondNotFound(w, msgRequestNotFound)

		case errors.Is(err, decideChangeRequest.ErrAlreadyDecided):
			h.logger.Warn("POST /change-requests/{requestId}/decide - Already decided: id=%d", requestID)
			handlers.RespondConflict(w, msgAlreadyDecided)

		case errors.Is(err, decideChangeRequest.ErrAccessDenied):
			h.logger.Warn("POST /change-requests/{requestId}/decide - Access denied: id=%d, user_id=%d", requestID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, decideChangeRequest.ErrAppointmentNotChangeable):
			h.logger.Warn("POST /change-requests/{requestId}/decide - Appointment not changeable: id=%d", requestID)
			handlers.RespondConflict(w, msgNotChangeable)

		case errors.Is(err, decideChangeRequest.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /change-requests/{requestId}/decide - Slot no longer available: id=%d", requestID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, decideChangeRequest.ErrWriteConflict):
			h.logger.Warn("POST /change-requests/{requestId}/decide - Write conflict: id=%d", requestID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgWriteConflict)

		case errors.Is(err, decideChangeRequest.ErrInvalidInput):
			h.logger.Warn("POST /change-requests/{requestId}/decide - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /change-requests/{requestId}/decide - Failed to decide: id=%d, user_id=%d, error=%v",
				requestID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /change-requests/{requestId}/decide - Decided: id=%d, decision=%s, user_id=%d",
		requestID, req.Decision, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
