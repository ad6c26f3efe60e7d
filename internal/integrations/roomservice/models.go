package roomservice

import "github.com/m04kA/SMC-RoomBookingService/internal/domain"

// Room модель комнаты из RoomService
type Room struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Floor       int    `json:"floor"`
	CapacityMin int    `json:"capacity_min"`
	CapacityMax int    `json:"capacity_max"`
}

// ToDomain конвертирует ответ сервиса в доменную модель
func (r *Room) ToDomain() *domain.Room {
	return &domain.Room{
		ID:          r.ID,
		Name:        r.Name,
		Code:        r.Code,
		Floor:       r.Floor,
		CapacityMin: r.CapacityMin,
		CapacityMax: r.CapacityMax,
	}
}

// ErrorResponse модель ошибки от RoomService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
