package create_appointment

import (
	"fmt"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.SpecialistID <= 0 {
		return fmt.Errorf("%w: specialistID must be positive", ErrInvalidInput)
	}

	if req.ClientID != nil && *req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if req.ClientNote != nil && len(*req.ClientNote) > domain.MaxNoteLength {
		return fmt.Errorf("%w: clientNote must not exceed %d characters",
			ErrInvalidInput, domain.MaxNoteLength)
	}

	return nil
}

// resolveDuration подставляет длительность по умолчанию и валидирует границы
func resolveDuration(durationMinutes int) (int, error) {
	if durationMinutes == 0 {
		return domain.DefaultDurationMinutes, nil
	}

	if durationMinutes < domain.MinDurationMinutes || durationMinutes > domain.MaxDurationMinutes {
		return 0, fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if durationMinutes%5 != 0 {
		return 0, fmt.Errorf("%w: durationMinutes must be a multiple of 5", ErrInvalidInput)
	}

	return durationMinutes, nil
}
