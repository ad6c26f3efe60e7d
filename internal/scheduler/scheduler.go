package scheduler

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/usecase/sweep"
)

// Sweeper прогон sweep по всей области
type Sweeper interface {
	Execute(ctx context.Context, req *sweep.Request) (*sweep.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler периодически запускает sweep. Задержка перехода после окончания слота
// не больше интервала.
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	timeout  time.Duration
	logger   Logger
}

// New создает планировщик; timeout ограничивает один прогон (0 - интервал)
func New(sweeper Sweeper, interval, timeout time.Duration, logger Logger) *Scheduler {
	if timeout <= 0 {
		timeout = interval
	}
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Start блокируется до отмены ctx. Первый прогон сразу, чтобы догнать простой сервиса.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Scheduler: started, interval=%s", s.interval)
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler: stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.sweeper.Execute(runCtx, &sweep.Request{})
	if err != nil {
		s.logger.Error("Scheduler: sweep failed: %v", err)
		return
	}
	if resp.Transitioned > 0 || resp.Failed > 0 {
		s.logger.Info("Scheduler: sweep run=%s transitioned=%d failed=%d", resp.RunID, resp.Transitioned, resp.Failed)
	}
}
