package trigger_sweep

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/usecase/sweep"
)

type SweepUseCase interface {
	Execute(ctx context.Context, req *sweep.Request) (*sweep.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
