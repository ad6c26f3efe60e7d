package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrSlotOccupied возвращается при нарушении уникальности занятого слота
	ErrSlotOccupied = errors.New("reservation.repository: slot is already occupied")

	// ErrStatusConflict возвращается, когда условное обновление статуса не нашло строку в ожидаемом статусе
	ErrStatusConflict = errors.New("reservation.repository: reservation is not in expected status")

	// ErrNotInTransaction возвращается при попытке взять блокировку вне транзакции
	ErrNotInTransaction = errors.New("reservation.repository: lock requires transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
