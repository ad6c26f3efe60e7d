package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

func TestCalendar_SlotsFor(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	cal := NewCalendar(loc)
	day := types.Date{Year: 2025, Month: time.March, Day: 10}

	windows := cal.SlotsFor(day)

	require.Len(t, windows, 4)
	expected := []struct {
		id         SlotID
		start, end int
	}{
		{SlotS1, 8, 10},
		{SlotS2, 10, 12},
		{SlotS3, 13, 15},
		{SlotS4, 15, 17},
	}
	for i, e := range expected {
		assert.Equal(t, e.id, windows[i].Slot.ID)
		assert.Equal(t, time.Date(2025, time.March, 10, e.start, 0, 0, 0, loc), windows[i].Start)
		assert.Equal(t, time.Date(2025, time.March, 10, e.end, 0, 0, 0, loc), windows[i].End)
		assert.Equal(t, day, windows[i].Day)
	}
}

func TestCalendar_Window_UnknownSlot(t *testing.T) {
	cal := NewCalendar(time.UTC)

	_, err := cal.Window(types.Date{Year: 2025, Month: 1, Day: 1}, "S9")

	assert.ErrorIs(t, err, ErrUnknownSlot)
}

func TestCalendar_IsPast(t *testing.T) {
	cal := NewCalendar(time.UTC)
	day := types.Date{Year: 2025, Month: time.March, Day: 10}
	s1, _ := SlotByID(SlotS1)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before start", time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC), false},
		{"in progress", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), false},
		{"exactly at end", time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), true},
		{"after end", time.Date(2025, 3, 10, 10, 1, 0, 0, time.UTC), true},
		{"next day", time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cal.IsPast(s1, day, tt.now))
		})
	}
}

func TestCalendar_Today_UsesLocation(t *testing.T) {
	cal := NewCalendar(time.FixedZone("ICT", 7*3600))

	// 20:00 UTC - уже следующий день в UTC+7
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, types.Date{Year: 2025, Month: time.March, Day: 11}, cal.Today(now))
}
