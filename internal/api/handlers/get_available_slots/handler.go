package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avorotn/SBP-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/avorotn/SBP-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidBusinessID   = "некорректный ID бизнеса"
	msgInvalidSpecialistID = "некорректный ID специалиста"
	msgMissingDate         = "дата обязательна"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration     = "некорректная длительность услуги"
	msgBusinessNotFound    = "бизнес не найден"
	msgSpecialistNotFound  = "специалист не найден"
	msgSpecialistInactive  = "специалист недоступен для записи"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/specialists/{specialistId}/available-slots
// Query params: date (required, YYYY-MM-DD), durationMinutes (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем businessId из URL
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/specialists/{id}/available-slots - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	// Извлекаем specialistId из URL
	specialistID, err := strconv.ParseInt(vars["specialistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/specialists/{id}/available-slots - Invalid specialist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpecialistID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /businesses/{id}/specialists/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Извлекаем опциональную длительность
	durationMinutes := 0
	if durationStr := r.URL.Query().Get("durationMinutes"); durationStr != "" {
		durationMinutes, err = strconv.Atoi(durationStr)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/specialists/{id}/available-slots - Invalid duration: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
	}

	useCaseReq, err := ToUseCaseRequest(businessID, specialistID, dateStr, durationMinutes)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/specialists/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/specialists/{id}/available-slots - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getAvailableSlots.ErrSpecialistNotFound):
			h.logger.Warn("GET /businesses/{id}/specialists/{id}/available-slots - Specialist not found: specialist_id=%d", specialistID)
			handlers.RespondNotFound(w, msgSpecialistNotFound)

		case errors.Is(err, getAvailableSlots.ErrSpecialistInactive):
			h.logger.Warn("GET /businesses/{id}/specialists/{id}/available-slots - Specialist inactive: specialist_id=%d", specialistID)
			handlers.RespondBadRequest(w, msgSpecialistInactive)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput), errors.Is(err, getAvailableSlots.ErrInvalidDuration):
			h.logger.Warn("GET /businesses/{id}/specialists/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /businesses/{id}/specialists/{id}/available-slots - Failed to get slots: business_id=%d, specialist_id=%d, error=%v",
				businessID, specialistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/specialists/{id}/available-slots - Slots retrieved: business_id=%d, specialist_id=%d, slots_count=%d",
		businessID, specialistID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
