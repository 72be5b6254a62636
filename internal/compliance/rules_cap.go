package compliance

import (
	"github.com/workdiary/backend/internal/domain"
)

const (
	fourteenDayLimitSlots = 336 // 168h
	fourteenDayWarnSlots  = 280 // 140h
	singleWeekWarnSlots   = 168 // 84h
)

// checkFourteenDay sums work per 48h-reset segment over the previous and current week
func (ev *evaluation) checkFourteenDay(out *findings) {
	if len(ev.current) == 0 {
		return
	}
	views := make([]dayView, 0, len(ev.previous)+len(ev.current))
	views = append(views, ev.previous...)
	views = append(views, ev.current...)
	grids := gridsOf(views)
	hasPrevious := len(ev.previous) > 0

	for _, seg := range segmentUntil(grids, Reset48h, nil, ev.horizon(views, len(ev.previous))) {
		if seg.End < len(ev.previous) {
			continue
		}
		work := 0
		for i := seg.Start; i <= seg.End; i++ {
			work += grids[i].Work.Count()
		}
		label := spanLabel(views, seg.Start, seg.End)

		switch {
		case work > fourteenDayLimitSlots:
			out.violation(domain.IconFourteenDay, label,
				"More than 168 hrs work in 14 days (%s hrs)", formatHours(work))
		case hasPrevious && work > fourteenDayWarnSlots:
			out.warning(domain.IconFourteenDay, label,
				"Approaching the 168 hrs work limit in 14 days (%s hrs)", formatHours(work))
		case !hasPrevious && work > singleWeekWarnSlots:
			out.warning(domain.IconFourteenDay, label,
				"%s hrs work this week and the previous week sheet is not available, so the 168 hrs 14-day limit cannot be fully checked",
				formatHours(work))
		}
	}
}
