package roomservice

import "errors"

var (
	// ErrRoomNotFound возвращается, когда комнаты нет в каталоге
	ErrRoomNotFound = errors.New("room not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("roomservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("roomservice client: invalid response")

	// ErrServiceUnavailable каталог комнат недоступен (сеть, timeout, 5xx)
	ErrServiceUnavailable = errors.New("roomservice client: service unavailable")
)
