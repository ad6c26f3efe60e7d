package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionFor(t *testing.T) {
	tests := []struct {
		from    ReservationStatus
		trigger Trigger
		to      ReservationStatus
		kind    NotificationKind
		ok      bool
	}{
		{StatusPending, TriggerApprove, StatusApproved, NotificationBookingApproved, true},
		{StatusPending, TriggerReject, StatusRejected, NotificationBookingRejected, true},
		{StatusPending, TriggerExpire, StatusRejected, NotificationBookingRejected, true},
		{StatusApproved, TriggerExpire, StatusCompleted, NotificationBookingCompleted, true},
		{StatusApproved, TriggerCancel, StatusCanceled, NotificationBookingCancelled, true},
		{StatusPending, TriggerCancel, StatusCanceled, NotificationBookingCancelled, true},
		{StatusApproved, TriggerStart, StatusInUse, NotificationBookingStarted, true},
		{StatusInUse, TriggerExpire, StatusCompleted, NotificationBookingCompleted, true},
		{StatusApproved, TriggerApprove, "", "", false},
		{StatusInUse, TriggerCancel, "", "", false},
		{StatusPending, TriggerStart, "", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.trigger), func(t *testing.T) {
			tr, ok := TransitionFor(tt.from, tt.trigger)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.to, tr.To)
			assert.Equal(t, tt.kind, tr.Notification)
		})
	}
}

func TestTransitions_TerminalStatesHaveNoExit(t *testing.T) {
	triggers := []Trigger{TriggerApprove, TriggerReject, TriggerCancel, TriggerStart, TriggerExpire}

	for _, status := range TerminalStatuses {
		for _, trigger := range triggers {
			_, ok := TransitionFor(status, trigger)
			assert.False(t, ok, "%s must be terminal, got transition on %s", status, trigger)
		}
	}
}

func TestTransitions_AlwaysLeaveSourceState(t *testing.T) {
	for _, tr := range transitions {
		assert.NotEqual(t, tr.From, tr.To)
		assert.True(t, tr.From.IsOccupying())
		assert.True(t, tr.To.IsValid())
	}
}

func TestExpirableStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]ReservationStatus{StatusPending, StatusApproved, StatusInUse},
		ExpirableStatuses(),
	)
}
