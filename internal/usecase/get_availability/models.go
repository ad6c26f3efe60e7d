package get_availability

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// MaxRoomsPerRequest ограничение обзора дня по числу комнат
const MaxRoomsPerRequest = 50

// Request модель запроса сетки доступности
type Request struct {
	RoomIDs []int64    // Одна комната для GetAvailability, несколько для обзора дня
	Date    types.Date // Календарный день в часовом поясе площадки
}

// Response сетка доступности на день
type Response struct {
	Date  types.Date
	Rooms []RoomAvailability
}

// RoomAvailability слоты одной комнаты; порядок комнат как в запросе
type RoomAvailability struct {
	RoomID   int64
	RoomName string
	RoomCode string
	Slots    []Slot
}

// Slot состояние слота; бронирования наружу не раскрываются
type Slot struct {
	ID    domain.SlotID
	Start time.Time
	End   time.Time
	State domain.SlotState
}
