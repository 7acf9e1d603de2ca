package submit_change_request

import (
	"context"

	submitChangeRequest "github.com/avorotn/SBP-SchedulingService/internal/usecase/submit_change_request"
)

type SubmitChangeRequestUseCase interface {
	Execute(ctx context.Context, req *submitChangeRequest.Request) (*submitChangeRequest.Response, error)
}

// TokenVerifier проверяет токен управления записью
type TokenVerifier interface {
	Verify(tokenString string) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
