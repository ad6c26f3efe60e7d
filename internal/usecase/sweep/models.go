package sweep

// Config параметры прогона
type Config struct {
	BatchSize int // Размер страницы
	Workers   int // Параллельных переходов внутри страницы
}

// Request область sweep; пустая область означает все бронирования
type Request struct {
	UserID *int64
	RoomID *int64
}

// Response итог прогона
type Response struct {
	RunID        string // Идентификатор прогона для логов
	Scanned      int
	Transitioned int
	Failed       int
}
