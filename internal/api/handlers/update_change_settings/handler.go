package update_change_settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avorotn/SBP-SchedulingService/internal/api/handlers"
	"github.com/avorotn/SBP-SchedulingService/internal/api/middleware"
	"github.com/avorotn/SBP-SchedulingService/internal/service/changesettings"
	"github.com/avorotn/SBP-SchedulingService/internal/service/changesettings/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется аутентификация"
	msgBusinessNotFound   = "бизнес не найден"
	msgAccessDenied       = "нет доступа к настройкам"
)

// UpdateSettingsRequest HTTP request model
type UpdateSettingsRequest struct {
	SpecialistID          *int64 `json:"specialistId,omitempty"`
	Enabled               bool   `json:"enabled"`
	AllowReschedule       bool   `json:"allowReschedule"`
	AllowCancel           bool   `json:"allowCancel"`
	MinHoursBefore        int    `json:"minHoursBefore"`
	RequireMasterApproval bool   `json:"requireMasterApproval"`
}

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

// Handle PUT /api/v1/businesses/{businessId}/change-settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/change-settings - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /businesses/{id}/change-settings - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/change-settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateSettings(r.Context(), businessID, &models.UpdateSettingsRequest{
		UserID:                userID,
		SpecialistID:          req.SpecialistID,
		Enabled:               req.Enabled,
		AllowReschedule:       req.AllowReschedule,
		AllowCancel:           req.AllowCancel,
		MinHoursBefore:        req.MinHoursBefore,
		RequireMasterApproval: req.RequireMasterApproval,
	})
	if err != nil {
		switch {
		case errors.Is(err, changesettings.ErrBusinessNotFound):
			h.logger.Warn("PUT /businesses/{id}/change-settings - Business not found: id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, changesettings.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/change-settings - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, changesettings.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/change-settings - Invalid input: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /businesses/{id}/change-settings - Failed to update settings: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/change-settings - Settings updated: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
