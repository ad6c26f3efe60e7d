package sweep

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// UseCase переводит закончившиеся бронирования в конечные статусы.
// Безопасен при повторных и параллельных вызовах: каждый переход условный.
type UseCase struct {
	reservationRepo ReservationRepository
	expirer         Expirer
	cfg             Config
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	expirer Expirer,
	cfg Config,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = domain.DefaultSweepBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = domain.DefaultSweepWorkers
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		expirer:         expirer,
		cfg:             cfg,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// SetTimeProvider подменяет источник времени
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

type counters struct {
	scanned      atomic.Int64
	transitioned atomic.Int64
	failed       atomic.Int64
}

// Execute один прогон sweep в области req.
// Ошибки отдельных переходов логируются и считаются в Failed; прогон прерывает только ошибка выборки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	started := time.Now()
	now := uc.timeProvider.Now()
	uc.logger.Info("Sweep: run=%s scope=%s now=%s", runID, describeScope(req), now.Format(time.RFC3339))

	var c counters
	err := uc.run(ctx, req, now, &c)

	resp := &Response{
		RunID:        runID,
		Scanned:      int(c.scanned.Load()),
		Transitioned: int(c.transitioned.Load()),
		Failed:       int(c.failed.Load()),
	}
	uc.metrics.ObserveSweep(resp.Transitioned, time.Since(started), err)

	if err != nil {
		uc.logger.Error("Sweep: run=%s aborted after %d transitions: %v", runID, resp.Transitioned, err)
		return resp, err
	}

	uc.logger.Info("Sweep: run=%s scanned=%d transitioned=%d failed=%d", runID, resp.Scanned, resp.Transitioned, resp.Failed)
	return resp, nil
}

func (uc *UseCase) run(ctx context.Context, req *Request, now time.Time, c *counters) error {
	for _, status := range domain.ExpirableStatuses() {
		var cursor *domain.SweepCursor

		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			page, err := uc.reservationRepo.GetExpired(ctx, domain.ExpiredFilter{
				Status: status,
				EndsBy: now,
				UserID: req.UserID,
				RoomID: req.RoomID,
				After:  cursor,
				Limit:  uint64(uc.cfg.BatchSize),
			})
			if err != nil {
				return fmt.Errorf("%w: failed to list expired %s reservations: %w", ErrInternal, status, err)
			}
			if len(page) == 0 {
				break
			}

			c.scanned.Add(int64(len(page)))
			uc.processPage(ctx, page, now, c)

			// Курсор только ограничивает работу прогона; переведённые строки и так выпадают из выборки
			last := page[len(page)-1]
			cursor = &domain.SweepCursor{EndAt: last.EndAt, ID: last.ID}

			if len(page) < uc.cfg.BatchSize {
				break
			}
		}
	}
	return nil
}

// processPage применяет переходы страницы параллельно, не больше cfg.Workers одновременно
func (uc *UseCase) processPage(ctx context.Context, page []*domain.Reservation, now time.Time, c *counters) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.Workers)

	for _, r := range page {
		r := r
		g.Go(func() error {
			applied, err := uc.expirer.Expire(gctx, r, now)
			if err != nil {
				c.failed.Add(1)
				uc.logger.Warn("Sweep: reservation=%d status=%s not transitioned: %v", r.ID, r.Status, err)
				return nil
			}
			if applied {
				c.transitioned.Add(1)
			}
			return nil
		})
	}

	_ = g.Wait()
}
