package submit_change_request

import (
	"fmt"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.Type != domain.ChangeTypeReschedule && req.Type != domain.ChangeTypeCancel {
		return fmt.Errorf("%w: type must be %q or %q",
			ErrInvalidInput, domain.ChangeTypeReschedule, domain.ChangeTypeCancel)
	}

	if req.Type == domain.ChangeTypeReschedule {
		if req.RequestedStartAt == nil || req.RequestedStartAt.IsZero() {
			return fmt.Errorf("%w: requestedStartAt is required for reschedule", ErrInvalidInput)
		}
	}

	if req.DurationMinutes != 0 {
		if req.DurationMinutes < domain.MinDurationMinutes || req.DurationMinutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: durationMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
		}
		if req.DurationMinutes%5 != 0 {
			return fmt.Errorf("%w: durationMinutes must be a multiple of 5", ErrInvalidInput)
		}
	}

	if req.ClientNote != nil && len(*req.ClientNote) > domain.MaxNoteLength {
		return fmt.Errorf("%w: clientNote must not exceed %d characters",
			ErrInvalidInput, domain.MaxNoteLength)
	}

	return nil
}
