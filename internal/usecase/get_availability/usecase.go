package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	roomClient "github.com/m04kA/SMC-RoomBookingService/internal/integrations/roomservice"
)

// UseCase use case сетки доступности слотов
type UseCase struct {
	reservationRepo ReservationRepository
	rooms           RoomProvider
	calendar        *domain.Calendar
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	rooms RoomProvider,
	calendar *domain.Calendar,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		rooms:           rooms,
		calendar:        calendar,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// SetTimeProvider подменяет источник времени
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute считает состояние каждого слота дня для запрошенных комнат.
// Только чтение, пересчитывается на каждый запрос.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: rooms=%v date=%s", req.RoomIDs, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Комнаты должны существовать в каталоге
	rooms := make([]*domain.Room, 0, len(req.RoomIDs))
	for _, id := range req.RoomIDs {
		room, err := uc.rooms.GetRoom(ctx, id)
		if err != nil {
			if errors.Is(err, roomClient.ErrRoomNotFound) {
				uc.logger.Warn("GetAvailability: room id=%d not found", id)
				return nil, fmt.Errorf("%w: id=%d", ErrRoomNotFound, id)
			}
			uc.logger.Error("GetAvailability: failed to get room id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: failed to get room: %v", ErrInternal, err)
		}
		rooms = append(rooms, room)
	}

	// 3. Одним запросом получаем занимающие бронирования всех комнат
	reservations, err := uc.reservationRepo.GetOccupyingByRoomsAndDate(ctx, req.RoomIDs, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %w", ErrInternal, err)
	}

	// 4. Классификация слотов
	now := uc.timeProvider.Now()
	today := uc.calendar.Today(now)
	windows := uc.calendar.SlotsFor(req.Date)
	byRoom := groupByRoom(reservations)

	resp := &Response{
		Date:  req.Date,
		Rooms: make([]RoomAvailability, 0, len(rooms)),
	}
	for _, room := range rooms {
		resp.Rooms = append(resp.Rooms, RoomAvailability{
			RoomID:   room.ID,
			RoomName: room.Name,
			RoomCode: room.Code,
			Slots:    classifySlots(windows, byRoom[room.ID], today, now),
		})
	}

	return resp, nil
}
