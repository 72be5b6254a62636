package domain

// Grid resolution
const (
	SlotsPerDay = 48
	SlotMinutes = 30
)

// Slots is one boolean per half-hour of a day
type Slots [SlotsPerDay]bool

// Count returns the number of set slots
func (s Slots) Count() int {
	n := 0
	for _, v := range s {
		if v {
			n++
		}
	}
	return n
}

// DayGrid is the half-hour activity grid of one day.
// Derived grids set at most one field per slot; legacy grids may not.
type DayGrid struct {
	Work    Slots `json:"work"`
	Break   Slots `json:"break"`
	NonWork Slots `json:"nonWork"`
}

// Normalized resolves overlapping slots: work wins over break, and either wins over non-work
func (g DayGrid) Normalized() DayGrid {
	out := g
	for i := 0; i < SlotsPerDay; i++ {
		if out.Work[i] {
			out.Break[i] = false
		}
		if out.Work[i] || out.Break[i] {
			out.NonWork[i] = false
		}
	}
	return out
}

// ActivitySlots counts slots recorded as work or break
func (g DayGrid) ActivitySlots() int {
	n := 0
	for i := 0; i < SlotsPerDay; i++ {
		if g.Work[i] || g.Break[i] {
			n++
		}
	}
	return n
}
