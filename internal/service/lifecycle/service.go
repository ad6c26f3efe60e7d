package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle/models"
)

// Service жизненный цикл бронирований: ручные переходы, авто-истечение и чтение
type Service struct {
	reservationRepo  ReservationRepository
	notificationRepo NotificationRepository
	txManager        TransactionManager
	maxActive        int
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	reservationRepo ReservationRepository,
	notificationRepo NotificationRepository,
	txManager TransactionManager,
	maxActive int,
	metrics Metrics,
	logger Logger,
) *Service {
	if maxActive <= 0 {
		maxActive = domain.DefaultMaxActiveReservations
	}
	return &Service{
		reservationRepo:  reservationRepo,
		notificationRepo: notificationRepo,
		txManager:        txManager,
		maxActive:        maxActive,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// SetTimeProvider подменяет источник времени
func (s *Service) SetTimeProvider(tp TimeProvider) {
	s.timeProvider = tp
}

// Approve подтверждает заявку (только администратор)
func (s *Service) Approve(ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error) {
	return s.transition(ctx, id, domain.TriggerApprove, actor)
}

// Reject отклоняет заявку (только администратор)
func (s *Service) Reject(ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error) {
	return s.transition(ctx, id, domain.TriggerReject, actor)
}

// StartUse отмечает, что подтверждённое бронирование началось (только администратор)
func (s *Service) StartUse(ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error) {
	return s.transition(ctx, id, domain.TriggerStart, actor)
}

// Cancel отменяет бронирование владельцем, пока окно не закончилось
func (s *Service) Cancel(ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error) {
	return s.transition(ctx, id, domain.TriggerCancel, actor)
}

// transition ручной переход. Строка блокируется на время транзакции,
// статус меняется условно (WHERE status = исходный), уведомление пишется в той же транзакции.
func (s *Service) transition(ctx context.Context, id int64, trigger domain.Trigger, actor models.Actor) (*models.ReservationResponse, error) {
	s.logger.Info("Transition: reservation=%d trigger=%s actor=%d admin=%t", id, trigger, actor.UserID, actor.IsAdmin)

	if id <= 0 {
		return nil, fmt.Errorf("%w: reservation id must be positive", ErrInvalidInput)
	}

	var (
		updated *domain.Reservation
		applied domain.Transition
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		updated = nil

		current, err := s.reservationRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: Transition - repository error: %w", ErrInternal, err)
		}

		if err := checkAccess(current, trigger, actor); err != nil {
			return err
		}

		t, ok := domain.TransitionFor(current.Status, trigger)
		if !ok {
			return fmt.Errorf("%w: cannot %s reservation in status %s", ErrInvalidTransition, trigger, current.Status)
		}

		// Закончившееся бронирование ждёт sweep; отклонить заявку ещё можно
		if trigger != domain.TriggerReject && current.HasEnded(s.timeProvider.Now()) {
			return fmt.Errorf("%w: reservation window has ended", ErrInvalidTransition)
		}

		res, err := s.reservationRepo.UpdateStatus(txCtx, domain.StatusUpdate{
			ID:   current.ID,
			From: current.Status,
			To:   t.To,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrStatusConflict) {
				return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
			}
			return fmt.Errorf("%w: Transition - update status: %w", ErrInternal, err)
		}

		if _, err := s.notificationRepo.Create(txCtx, domain.NewNotification(res.UserID, t.Notification, domain.PayloadFromReservation(res))); err != nil {
			return fmt.Errorf("%w: Transition - create notification: %w", ErrInternal, err)
		}

		updated = res
		applied = t
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrReservationNotFound):
			s.logger.Warn("Transition: reservation id=%d not found", id)
		case errors.Is(err, ErrAccessDenied), errors.Is(err, ErrInvalidTransition):
			s.logger.Warn("Transition: reservation=%d trigger=%s rejected: %v", id, trigger, err)
		default:
			s.logger.Error("Transition: reservation=%d trigger=%s failed: %v", id, trigger, err)
		}
		return nil, err
	}

	s.metrics.IncTransition(string(applied.From), string(applied.To), string(trigger))
	s.logger.Info("Transition: reservation=%d %s -> %s", id, applied.From, applied.To)
	return models.FromDomainReservation(updated), nil
}

// Expire применяет автоматический переход для закончившегося бронирования.
// Идемпотентно: если статус уже изменился (другой sweep или ручное действие), возвращает false без ошибки.
func (s *Service) Expire(ctx context.Context, r *domain.Reservation, now time.Time) (bool, error) {
	t, ok := domain.TransitionFor(r.Status, domain.TriggerExpire)
	if !ok || !r.HasEnded(now) {
		return false, nil
	}

	applied := false
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		applied = false

		res, err := s.reservationRepo.UpdateStatus(txCtx, domain.StatusUpdate{
			ID:     r.ID,
			From:   r.Status,
			To:     t.To,
			EndsBy: &now,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrStatusConflict) {
				return nil
			}
			return fmt.Errorf("%w: Expire - update status: %w", ErrInternal, err)
		}

		if _, err := s.notificationRepo.Create(txCtx, domain.NewNotification(res.UserID, t.Notification, domain.PayloadFromReservation(res))); err != nil {
			return fmt.Errorf("%w: Expire - create notification: %w", ErrInternal, err)
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if applied {
		s.metrics.IncTransition(string(t.From), string(t.To), string(domain.TriggerExpire))
		s.logger.Info("Expire: reservation=%d %s -> %s", r.ID, t.From, t.To)
	}
	return applied, nil
}

// GetByID получает бронирование. Доступно владельцу и администратору.
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, actor.UserID)

	r, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.IsAdmin && !r.IsOwnedBy(actor.UserID) {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainReservation(r), nil
}

// ListActive бронирования пользователя, которые занимают слот и ещё не закончились, по времени начала
func (s *Service) ListActive(ctx context.Context, userID int64) (*models.ReservationListResponse, error) {
	s.logger.Info("ListActive: fetching active reservations for user=%d", userID)

	reservations, err := s.reservationRepo.GetActiveByUser(ctx, userID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("ListActive: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservationList(reservations), nil
}

// CountActive число активных бронирований пользователя (учитываются в лимите)
func (s *Service) CountActive(ctx context.Context, userID int64) (*models.ActiveCountResponse, error) {
	count, err := s.reservationRepo.CountActiveByUser(ctx, userID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("CountActive: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: CountActive - repository error: %v", ErrInternal, err)
	}
	return &models.ActiveCountResponse{Active: count, Limit: s.maxActive}, nil
}

// ListUserReservations история бронирований пользователя, новые сверху.
// Опционально фильтрует по статусу.
func (s *Service) ListUserReservations(ctx context.Context, req *models.ListUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	filter := domain.UserReservationsFilter{UserID: req.UserID}
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	reservations, err := s.reservationRepo.GetByUser(ctx, filter)
	if err != nil {
		s.logger.Error("ListUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: ListUserReservations - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservationList(reservations), nil
}

// ListReservations бронирования всех пользователей для администратора, по времени начала.
// По умолчанию только занимающие слот; status=pending даёт очередь на подтверждение.
func (s *Service) ListReservations(ctx context.Context, req *models.ListReservationsRequest, actor models.Actor) (*models.ReservationListResponse, error) {
	s.logger.Info("ListReservations: admin=%d room=%v status=%v includeInactive=%t", actor.UserID, req.RoomID, req.Status, req.IncludeInactive)

	if !actor.IsAdmin {
		s.logger.Warn("ListReservations: access denied for user=%d", actor.UserID)
		return nil, ErrAccessDenied
	}

	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, fmt.Errorf("%w: period end is before its start", ErrInvalidInput)
	}

	filter := domain.ReservationsFilter{
		RoomID:          req.RoomID,
		From:            req.From,
		To:              req.To,
		IncludeInactive: req.IncludeInactive,
	}

	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	limit := req.Limit
	switch {
	case limit <= 0:
		limit = domain.DefaultReservationsLimit
	case limit > domain.MaxReservationsLimit:
		limit = domain.MaxReservationsLimit
	}
	filter.Limit = uint64(limit)

	reservations, err := s.reservationRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListReservations: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListReservations - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservationList(reservations), nil
}

// checkAccess отмена только владельцем, остальные ручные переходы только администратором
func checkAccess(r *domain.Reservation, trigger domain.Trigger, actor models.Actor) error {
	switch trigger {
	case domain.TriggerCancel:
		if !r.IsOwnedBy(actor.UserID) {
			return fmt.Errorf("%w: only the owner can cancel", ErrAccessDenied)
		}
	case domain.TriggerApprove, domain.TriggerReject, domain.TriggerStart:
		if !actor.IsAdmin {
			return fmt.Errorf("%w: admin role required", ErrAccessDenied)
		}
	default:
		return fmt.Errorf("%w: trigger %s is not manual", ErrInvalidTransition, trigger)
	}
	return nil
}
