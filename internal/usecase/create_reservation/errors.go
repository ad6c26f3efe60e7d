package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrCapacityMismatch количество людей вне вместимости комнаты
	ErrCapacityMismatch = errors.New("create_reservation: number of people does not fit room capacity")

	// ErrRoomNotFound возвращается, когда комнаты нет в каталоге
	ErrRoomNotFound = errors.New("create_reservation: room not found")

	// ErrInvalidTime слот уже начался или закончился
	ErrInvalidTime = errors.New("create_reservation: slot is in the past")

	// ErrTooFarAhead начало слота дальше горизонта бронирования
	ErrTooFarAhead = errors.New("create_reservation: slot is beyond the advance booking horizon")

	// ErrSlotTaken слот уже занят другим бронированием
	ErrSlotTaken = errors.New("create_reservation: slot is already taken")

	// ErrQuotaExceeded у пользователя максимум активных бронирований
	ErrQuotaExceeded = errors.New("create_reservation: active reservations limit exceeded")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
