package domain

import "time"

// Правила допуска бронирований по умолчанию
const (
	DefaultMaxActiveReservations = 2
	DefaultAdvanceBookingDays    = 7
	DefaultTimezone              = "UTC"
)

// Ограничения входных данных
const (
	MaxAccessories     = 10
	MaxAccessoryLength = 64
	MaxNoteLength      = 500
)

// Параметры sweep по умолчанию
const (
	DefaultSweepBatchSize = 50
	DefaultSweepInterval  = 60 * time.Second
	DefaultSweepWorkers   = 4
)

// Пагинация уведомлений
const (
	DefaultNotificationsLimit = 20
	MaxNotificationsLimit     = 100
)

// Выборка бронирований для администратора
const (
	DefaultReservationsLimit = 100
	MaxReservationsLimit     = 500
)

// DateFormat формат даты в API (YYYY-MM-DD)
const DateFormat = "2006-01-02"
