package domain

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// SlotID идентификатор слота в дневном каталоге
type SlotID string

const (
	SlotS1 SlotID = "S1"
	SlotS2 SlotID = "S2"
	SlotS3 SlotID = "S3"
	SlotS4 SlotID = "S4"
)

var ErrUnknownSlot = errors.New("domain: unknown slot")

// Slot фиксированный интервал дня [StartHour, EndHour)
type Slot struct {
	ID        SlotID
	StartHour int
	EndHour   int
}

// catalog одинаков для всех комнат и всех дней
var catalog = []Slot{
	{ID: SlotS1, StartHour: 8, EndHour: 10},
	{ID: SlotS2, StartHour: 10, EndHour: 12},
	{ID: SlotS3, StartHour: 13, EndHour: 15},
	{ID: SlotS4, StartHour: 15, EndHour: 17},
}

// SlotByID возвращает слот каталога по идентификатору
func SlotByID(id SlotID) (Slot, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}

// SlotWindow слот, привязанный к конкретному дню
type SlotWindow struct {
	Slot  Slot
	Day   types.Date
	Start time.Time
	End   time.Time
}

// IsPast слот закончился: end <= now
func (w SlotWindow) IsPast(now time.Time) bool {
	return !w.End.After(now)
}

// Calendar каталог слотов в часовом поясе площадки.
// Календарный день всегда интерпретируется в этой локации.
type Calendar struct {
	loc *time.Location
}

// NewCalendar создает календарь; nil локация означает UTC
func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Today календарный день момента now
func (c *Calendar) Today(now time.Time) types.Date {
	return types.NewDate(now.In(c.loc))
}

// SlotsFor упорядоченные слоты дня
func (c *Calendar) SlotsFor(day types.Date) []SlotWindow {
	windows := make([]SlotWindow, 0, len(catalog))
	for _, s := range catalog {
		windows = append(windows, c.window(s, day))
	}
	return windows
}

// Window окно конкретного слота дня
func (c *Calendar) Window(day types.Date, id SlotID) (SlotWindow, error) {
	s, ok := SlotByID(id)
	if !ok {
		return SlotWindow{}, ErrUnknownSlot
	}
	return c.window(s, day), nil
}

// IsPast true, если слот дня закончился к моменту now
func (c *Calendar) IsPast(slot Slot, day types.Date, now time.Time) bool {
	return c.window(slot, day).IsPast(now)
}

func (c *Calendar) window(s Slot, day types.Date) SlotWindow {
	return SlotWindow{
		Slot:  s,
		Day:   day,
		Start: day.At(s.StartHour, c.loc),
		End:   day.At(s.EndHour, c.loc),
	}
}
