package roomservice

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// StaticProvider каталог комнат из конфигурации
type StaticProvider struct {
	rooms map[int64]domain.Room
}

// NewStaticProvider создает каталог из списка комнат
func NewStaticProvider(rooms []domain.Room) *StaticProvider {
	byID := make(map[int64]domain.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}
	return &StaticProvider{rooms: byID}
}

func (p *StaticProvider) GetRoom(_ context.Context, roomID int64) (*domain.Room, error) {
	room, ok := p.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return &room, nil
}
