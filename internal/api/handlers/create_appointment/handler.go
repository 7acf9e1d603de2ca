package create_appointment

import (
	"errors"
	"net/http"

	"github.com/avorotn/SBP-SchedulingService/internal/api/handlers"
	"github.com/avorotn/SBP-SchedulingService/internal/api/middleware"
	createAppointment "github.com/avorotn/SBP-SchedulingService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidStartAt      = "некорректный формат startAt, ожидается ISO 8601"
	msgUnauthorized        = "требуется аутентификация"
	msgBusinessNotFound    = "бизнес не найден"
	msgSpecialistNotFound  = "специалист не найден"
	msgSpecialistInactive  = "специалист недоступен для записи"
	msgSlotTaken           = "выбранное время уже занято"
	msgSlotBlocked         = "выбранное время недоступно"
	msgOutsideWorkingHours = "выбранное время вне рабочих часов"
	msgWriteConflict       = "не удалось сохранить запись, попробуйте ещё раз"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Invalid startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrBusinessNotFound):
			h.logger.Warn("POST /appointments - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createAppointment.ErrSpecialistNotFound):
			h.logger.Warn("POST /appointments - Specialist not found: specialist_id=%d", req.SpecialistID)
			handlers.RespondNotFound(w, msgSpecialistNotFound)

		case errors.Is(err, createAppointment.ErrSpecialistInactive):
			h.logger.Warn("POST /appointments - Specialist inactive: specialist_id=%d", req.SpecialistID)
			handlers.RespondBadRequest(w, msgSpecialistInactive)

		case errors.Is(err, createAppointment.ErrSlotTaken):
			h.logger.Warn("POST /appointments - Slot taken: user_id=%d, specialist_id=%d", userID, req.SpecialistID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createAppointment.ErrSlotBlocked):
			h.logger.Warn("POST /appointments - Slot blocked: user_id=%d, specialist_id=%d", userID, req.SpecialistID)
			handlers.RespondConflict(w, msgSlotBlocked)

		case errors.Is(err, createAppointment.ErrOutsideWorkingHours):
			h.logger.Warn("POST /appointments - Outside working hours: user_id=%d, specialist_id=%d", userID, req.SpecialistID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createAppointment.ErrWriteConflict):
			h.logger.Warn("POST /appointments - Write conflict: user_id=%d, specialist_id=%d", userID, req.SpecialistID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgWriteConflict)

		case errors.Is(err, createAppointment.ErrInvalidInput), errors.Is(err, createAppointment.ErrInvalidRange):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: id=%d, user_id=%d",
		result.Appointment.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
