package domain

// SlotState состояние слота в сетке доступности
type SlotState string

const (
	SlotFree SlotState = "free"
	// SlotHeld есть заявка в статусе pending
	SlotHeld SlotState = "held"
	// SlotBusy есть подтверждённое или идущее бронирование
	SlotBusy SlotState = "busy"
	SlotPast SlotState = "past"
)

// rank приоритет при наложении: past > busy > held > free
func (s SlotState) rank() int {
	switch s {
	case SlotPast:
		return 3
	case SlotBusy:
		return 2
	case SlotHeld:
		return 1
	default:
		return 0
	}
}

// Dominates true, если s перекрывает other
func (s SlotState) Dominates(other SlotState) bool {
	return s.rank() > other.rank()
}

// StateForStatus вклад бронирования в состояние слота
func StateForStatus(status ReservationStatus) SlotState {
	switch status {
	case StatusPending:
		return SlotHeld
	case StatusApproved, StatusInUse:
		return SlotBusy
	default:
		return SlotFree
	}
}
