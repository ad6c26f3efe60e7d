package domain

// Room комната из каталога; для движка бронирований только чтение
type Room struct {
	ID          int64
	Name        string
	Code        string
	Floor       int
	CapacityMin int
	CapacityMax int
}

// FitsCapacity проверяет, что количество людей в допустимом диапазоне комнаты.
// Нулевая граница означает отсутствие ограничения.
func (r *Room) FitsCapacity(people int) bool {
	if people <= 0 {
		return false
	}
	if r.CapacityMin > 0 && people < r.CapacityMin {
		return false
	}
	if r.CapacityMax > 0 && people > r.CapacityMax {
		return false
	}
	return true
}
