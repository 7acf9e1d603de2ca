package get_available_slots

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

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
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
			ErrInvalidDuration, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	if durationMinutes%5 != 0 {
		return 0, fmt.Errorf("%w: durationMinutes must be a multiple of 5", ErrInvalidDuration)
	}

	return durationMinutes, nil
}
