package roomservice

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// CachedProvider кеширует комнаты в памяти процесса.
// Комнаты для движка неизменяемы, поэтому кешируются только успешные ответы.
type CachedProvider struct {
	next  Provider
	cache *cache.Cache
}

// NewCachedProvider оборачивает provider кешем с указанным TTL
func NewCachedProvider(next Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	key := strconv.FormatInt(roomID, 10)

	if cached, ok := p.cache.Get(key); ok {
		room := *cached.(*domain.Room)
		return &room, nil
	}

	room, err := p.next.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	stored := *room
	p.cache.SetDefault(key, &stored)
	return room, nil
}
