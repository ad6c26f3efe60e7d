package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/reservation"
	roomClient "github.com/m04kA/SMC-RoomBookingService/internal/integrations/roomservice"
)

// Тайм-аут записи уведомления booking_created после коммита
const emitTimeout = 5 * time.Second

// UseCase use case допуска нового бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	rooms           RoomProvider
	notifier        NotificationEmitter
	txManager       TransactionManager
	calendar        *domain.Calendar
	rules           Rules
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	rooms RoomProvider,
	notifier NotificationEmitter,
	txManager TransactionManager,
	calendar *domain.Calendar,
	rules Rules,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if rules.MaxActiveReservations <= 0 {
		rules.MaxActiveReservations = domain.DefaultMaxActiveReservations
	}
	if rules.AdvanceBookingDays < 0 {
		rules.AdvanceBookingDays = domain.DefaultAdvanceBookingDays
	}

	return &UseCase{
		reservationRepo: reservationRepo,
		rooms:           rooms,
		notifier:        notifier,
		txManager:       txManager,
		calendar:        calendar,
		rules:           rules,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// SetTimeProvider подменяет источник времени
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute выполняет допуск бронирования.
// Проверки слота и лимита вместе с записью идут в одной сериализуемой транзакции
// под advisory-блокировками слота и пользователя (всегда в этом порядке).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d room=%d date=%s slot=%s people=%d",
		req.UserID, req.RoomID, req.Date, req.SlotID, req.NumberOfPeople)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Комната и вместимость
	room, err := uc.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, roomClient.ErrRoomNotFound) {
			uc.logger.Warn("CreateReservation: room id=%d not found", req.RoomID)
			return nil, ErrRoomNotFound
		}
		uc.logger.Error("CreateReservation: failed to get room id=%d: %v", req.RoomID, err)
		return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
	}

	if err := validateCapacity(room, req.NumberOfPeople); err != nil {
		uc.logger.Warn("CreateReservation: %v", err)
		return nil, err
	}

	window, err := uc.calendar.Window(req.Date, req.SlotID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.Reservation

	// 3. Атомарная проверка и запись
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// now берём на каждую попытку: повтор после конфликта видит актуальное время
		now := uc.timeProvider.Now()

		if err := validateTime(window, now, uc.rules.AdvanceBookingDays); err != nil {
			return err
		}

		if err := uc.reservationRepo.LockKeys(txCtx, slotLockKey(req), userLockKey(req.UserID)); err != nil {
			return fmt.Errorf("%w: failed to acquire locks: %w", ErrInternal, err)
		}

		occupying, err := uc.reservationRepo.GetOccupyingBySlot(txCtx, req.RoomID, req.Date, req.SlotID)
		if err != nil {
			return fmt.Errorf("%w: failed to check slot: %w", ErrInternal, err)
		}
		if len(occupying) > 0 {
			return fmt.Errorf("%w: reservation id=%d holds the slot", ErrSlotTaken, occupying[0].ID)
		}

		active, err := uc.reservationRepo.CountActiveByUser(txCtx, req.UserID, now)
		if err != nil {
			return fmt.Errorf("%w: failed to count active reservations: %w", ErrInternal, err)
		}
		if active >= uc.rules.MaxActiveReservations {
			return fmt.Errorf("%w: user has %d of %d", ErrQuotaExceeded, active, uc.rules.MaxActiveReservations)
		}

		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			UserID:         req.UserID,
			RoomID:         room.ID,
			RoomName:       room.Name,
			RoomCode:       room.Code,
			SlotID:         req.SlotID,
			SlotDate:       req.Date,
			StartAt:        window.Start,
			EndAt:          window.End,
			Status:         domain.StatusPending,
			NumberOfPeople: req.NumberOfPeople,
			Accessories:    normalizeAccessories(req.Accessories),
			Note:           req.Note,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotOccupied) {
				return fmt.Errorf("%w: occupancy index violation", ErrSlotTaken)
			}
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			uc.logger.Warn("CreateReservation: rejected user=%d room=%d date=%s slot=%s: %v",
				req.UserID, req.RoomID, req.Date, req.SlotID, err)
			uc.metrics.IncAdmissionRejected(reason)
			return nil, err
		}
		uc.logger.Error("CreateReservation: transaction failed: %v", err)
		return nil, err
	}

	uc.metrics.IncReservationCreated()
	uc.logger.Info("CreateReservation: created reservation id=%d", result.ID)

	// 4. Уведомление вне транзакции: его ошибка не откатывает бронирование
	emitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emitTimeout)
	defer cancel()
	uc.notifier.Emit(emitCtx, domain.NewNotification(result.UserID, domain.NotificationBookingCreated, domain.PayloadFromReservation(result)))

	return toResponse(result), nil
}

// rejectionReason метка бизнес-отказа для метрик; пустая строка для прочих ошибок
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTime):
		return "invalid_time"
	case errors.Is(err, ErrTooFarAhead):
		return "too_far_ahead"
	case errors.Is(err, ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	}
	return ""
}
