package decide_change_request

import (
	"context"

	decideChangeRequest "github.com/avorotn/SBP-SchedulingService/internal/usecase/decide_change_request"
)

type DecideChangeRequestUseCase interface {
	Execute(ctx context.Context, req *decideChangeRequest.Request) (*decideChangeRequest.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
