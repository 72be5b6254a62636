package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/workdiary/backend/internal/domain"
)

func TestSegmentDays(t *testing.T) {
	busy := domain.DayGrid{Work: span(0, 40)}       // 4h gap at day end
	lateStart := domain.DayGrid{Work: span(30, 48)} // 15h gap at day start
	idle := domain.DayGrid{NonWork: span(0, 48)}    // whole day without work
	earlyEnd := domain.DayGrid{Work: span(0, 10)}   // 19h gap at day end

	tests := []struct {
		name   string
		grids  []domain.DayGrid
		reset  int
		anchor func(int) bool
		want   []Segment
	}{
		{
			name:  "single day",
			grids: []domain.DayGrid{busy},
			reset: Reset24h,
			want:  []Segment{{0, 0}},
		},
		{
			name:  "short gaps never cut",
			grids: []domain.DayGrid{busy, busy, busy},
			reset: Reset24h,
			want:  []Segment{{0, 2}},
		},
		{
			name:  "gap spanning midnight reaches 24h",
			grids: []domain.DayGrid{earlyEnd, lateStart},
			reset: Reset24h,
			want:  []Segment{{0, 0}, {1, 1}},
		},
		{
			name:  "same gap is short of 48h",
			grids: []domain.DayGrid{earlyEnd, lateStart},
			reset: Reset48h,
			want:  []Segment{{0, 1}},
		},
		{
			name:  "idle day makes a 48h reset on both sides",
			grids: []domain.DayGrid{earlyEnd, idle, lateStart, busy},
			reset: Reset48h,
			want:  []Segment{{0, 0}, {1, 1}, {2, 3}},
		},
		{
			name:   "anchor day cuts both boundaries",
			grids:  []domain.DayGrid{busy, busy, busy},
			reset:  Reset24h,
			anchor: func(day int) bool { return day == 1 },
			want:   []Segment{{0, 0}, {1, 1}, {2, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentDays(tt.grids, tt.reset, tt.anchor))
		})
	}
}

func TestSegmentDays_CoversEveryDay(t *testing.T) {
	grids := []domain.DayGrid{{Work: span(0, 10)}, {}, {}, {Work: span(20, 30)}, {Work: span(0, 48)}}
	segments := SegmentDays(grids, Reset24h, nil)

	next := 0
	for _, s := range segments {
		assert.Equal(t, next, s.Start)
		assert.GreaterOrEqual(t, s.End, s.Start)
		next = s.End + 1
	}
	assert.Equal(t, len(grids), next)
}

func TestSegmentDays_Empty(t *testing.T) {
	assert.Nil(t, SegmentDays(nil, Reset24h, nil))
}

func TestSegmentUntil_StopsAtHorizon(t *testing.T) {
	worked := domain.DayGrid{Work: span(0, 46)}
	grids := []domain.DayGrid{worked, worked, {}, {}}

	// Day 3 has only run 4 slots; its empty remainder is not a reset
	horizon := 2*domain.SlotsPerDay + 4
	assert.Equal(t, []Segment{{Start: 0, End: 3}}, segmentUntil(grids, Reset24h, nil, horizon))

	assert.Equal(t, []Segment{{Start: 0, End: 1}, {Start: 2, End: 2}, {Start: 3, End: 3}}, SegmentDays(grids, Reset24h, nil))
}
