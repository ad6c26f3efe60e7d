package domain

// Trigger событие, которое двигает бронирование по жизненному циклу
type Trigger string

const (
	TriggerApprove Trigger = "approve"
	TriggerReject  Trigger = "reject"
	TriggerCancel  Trigger = "cancel"
	TriggerStart   Trigger = "start"
	// TriggerExpire окно бронирования закончилось (sweep)
	TriggerExpire Trigger = "expire"
)

// Transition разрешённый переход и уведомление, которое он порождает
type Transition struct {
	From         ReservationStatus
	Trigger      Trigger
	To           ReservationStatus
	Notification NotificationKind
}

// transitions полная таблица переходов. Всё, чего здесь нет, запрещено.
var transitions = []Transition{
	{From: StatusPending, Trigger: TriggerApprove, To: StatusApproved, Notification: NotificationBookingApproved},
	{From: StatusPending, Trigger: TriggerReject, To: StatusRejected, Notification: NotificationBookingRejected},
	{From: StatusPending, Trigger: TriggerCancel, To: StatusCanceled, Notification: NotificationBookingCancelled},
	{From: StatusPending, Trigger: TriggerExpire, To: StatusRejected, Notification: NotificationBookingRejected},

	{From: StatusApproved, Trigger: TriggerStart, To: StatusInUse, Notification: NotificationBookingStarted},
	{From: StatusApproved, Trigger: TriggerCancel, To: StatusCanceled, Notification: NotificationBookingCancelled},
	{From: StatusApproved, Trigger: TriggerExpire, To: StatusCompleted, Notification: NotificationBookingCompleted},

	{From: StatusInUse, Trigger: TriggerExpire, To: StatusCompleted, Notification: NotificationBookingCompleted},
}

// TransitionFor ищет переход из статуса from по событию
func TransitionFor(from ReservationStatus, trigger Trigger) (Transition, bool) {
	for _, t := range transitions {
		if t.From == from && t.Trigger == trigger {
			return t, true
		}
	}
	return Transition{}, false
}

// ExpirableStatuses статусы, которые sweep переводит по окончании окна, в порядке обработки
func ExpirableStatuses() []ReservationStatus {
	result := make([]ReservationStatus, 0, 3)
	for _, t := range transitions {
		if t.Trigger == TriggerExpire {
			result = append(result, t.From)
		}
	}
	return result
}
