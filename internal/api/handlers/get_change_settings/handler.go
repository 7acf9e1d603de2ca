package get_change_settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avorotn/SBP-SchedulingService/internal/api/handlers"
	"github.com/avorotn/SBP-SchedulingService/internal/api/middleware"
	"github.com/avorotn/SBP-SchedulingService/internal/service/changesettings"
)

const (
	msgInvalidBusinessID   = "некорректный ID бизнеса"
	msgInvalidSpecialistID = "некорректный ID специалиста"
	msgUnauthorized        = "требуется аутентификация"
	msgBusinessNotFound    = "бизнес не найден"
	msgAccessDenied        = "нет доступа к настройкам"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/change-settings
// Query params: specialistId (optional) - настройки уровня специалиста
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/change-settings - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /businesses/{id}/change-settings - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var specialistID *int64
	if specialistStr := r.URL.Query().Get("specialistId"); specialistStr != "" {
		parsed, err := strconv.ParseInt(specialistStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/change-settings - Invalid specialist ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSpecialistID)
			return
		}
		specialistID = &parsed
	}

	result, err := h.service.GetSettings(r.Context(), businessID, specialistID, userID)
	if err != nil {
		switch {
		case errors.Is(err, changesettings.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/change-settings - Business not found: id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, changesettings.ErrAccessDenied):
			h.logger.Warn("GET /businesses/{id}/change-settings - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("GET /businesses/{id}/change-settings - Failed to get settings: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/change-settings - Settings retrieved: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
