package decide_change_request

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RequestID <= 0 {
		return fmt.Errorf("%w: requestID must be positive", ErrInvalidInput)
	}

	if req.ActorUserID < 0 {
		return fmt.Errorf("%w: actorUserID must not be negative", ErrInvalidInput)
	}

	if req.Decision != DecisionApprove && req.Decision != DecisionReject {
		return fmt.Errorf("%w: decision must be %q or %q",
			ErrInvalidInput, DecisionApprove, DecisionReject)
	}

	return nil
}
