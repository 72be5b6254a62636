package compliance

import (
	"github.com/workdiary/backend/internal/domain"
)

// Reset lengths, in slots, of continuous time without work
const (
	Reset24h = 48
	Reset48h = 96
)

// Segment is an inclusive range of day indices between two resets
type Segment struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether day i lies in the segment
func (s Segment) Contains(i int) bool {
	return i >= s.Start && i <= s.End
}

// SegmentDays splits days wherever the no-work run spanning a day boundary
// reaches resetSlots, or where anchor marks either neighbour of the boundary.
// anchor may be nil.
func SegmentDays(grids []domain.DayGrid, resetSlots int, anchor func(day int) bool) []Segment {
	return segmentUntil(grids, resetSlots, anchor, len(grids)*domain.SlotsPerDay)
}

// segmentUntil is SegmentDays with the timeline ending at horizon (a flat slot
// index). Slots from horizon on have not elapsed and never count as no-work.
func segmentUntil(grids []domain.DayGrid, resetSlots int, anchor func(day int) bool, horizon int) []Segment {
	if len(grids) == 0 {
		return nil
	}
	work := flatten(grids, func(g domain.DayGrid) domain.Slots { return g.Work })
	isAnchor := func(day int) bool { return anchor != nil && anchor(day) }

	cut := func(day int) bool {
		boundary := (day + 1) * domain.SlotsPerDay
		if isAnchor(day) || isAnchor(day+1) {
			return true
		}
		if boundary >= horizon {
			return false
		}
		return falseRunAround(work[:horizon], boundary) >= resetSlots
	}

	segments := make([]Segment, 0, 2)
	current := Segment{Start: 0}
	for day := 0; day < len(grids)-1; day++ {
		if cut(day) {
			current.End = day
			segments = append(segments, current)
			current = Segment{Start: day + 1}
		}
	}
	current.End = len(grids) - 1
	return append(segments, current)
}

// falseRunAround measures the run of false values touching the boundary from both sides
func falseRunAround(values []bool, boundary int) int {
	n := 0
	for i := boundary - 1; i >= 0 && !values[i]; i-- {
		n++
	}
	for i := boundary; i < len(values) && !values[i]; i++ {
		n++
	}
	return n
}

func flatten(grids []domain.DayGrid, field func(domain.DayGrid) domain.Slots) []bool {
	out := make([]bool, 0, len(grids)*domain.SlotsPerDay)
	for _, g := range grids {
		s := field(g)
		out = append(out, s[:]...)
	}
	return out
}
