package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotState_Dominates(t *testing.T) {
	assert.True(t, SlotPast.Dominates(SlotBusy))
	assert.True(t, SlotBusy.Dominates(SlotHeld))
	assert.True(t, SlotHeld.Dominates(SlotFree))
	assert.False(t, SlotHeld.Dominates(SlotBusy))
	assert.False(t, SlotFree.Dominates(SlotFree))
}

func TestStateForStatus(t *testing.T) {
	assert.Equal(t, SlotHeld, StateForStatus(StatusPending))
	assert.Equal(t, SlotBusy, StateForStatus(StatusApproved))
	assert.Equal(t, SlotBusy, StateForStatus(StatusInUse))
	assert.Equal(t, SlotFree, StateForStatus(StatusCanceled))
}

func TestRoom_FitsCapacity(t *testing.T) {
	room := &Room{CapacityMin: 4, CapacityMax: 6}

	assert.False(t, room.FitsCapacity(0))
	assert.False(t, room.FitsCapacity(3))
	assert.True(t, room.FitsCapacity(4))
	assert.True(t, room.FitsCapacity(6))
	assert.False(t, room.FitsCapacity(7))
	assert.True(t, (&Room{}).FitsCapacity(50))
}
