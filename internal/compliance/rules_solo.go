package compliance

import (
	"strconv"

	"github.com/workdiary/backend/internal/domain"
	"github.com/workdiary/backend/pkg/utils"
)

const (
	minActivitySlotsDaily = 24  // 12h
	restBlockSlots        = 14  // 7h
	maxElapsedSlots       = 34  // 17h
	rollingWindowSlots    = 144 // 72h
	minRollingRestSlots   = 54  // 27h
	minRollingRestBlocks  = 3
)

func formatHours(slots int) string {
	h := utils.RoundTo(float64(slots)*domain.SlotMinutes/60, 1)
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// checkDailyNonWork flags long days without a 7h continuous rest.
// A day still in progress with no rest yet is not judged.
func (ev *evaluation) checkDailyNonWork(out *findings) {
	for _, d := range ev.current {
		if ev.skipBeforeDeclared(d) || ev.isDeclaredDay(d) {
			continue
		}
		if d.grid.ActivitySlots() < minActivitySlotsDaily {
			continue
		}
		longest := longestRun(d.grid.NonWork[:])
		if longest >= restBlockSlots || (longest == 0 && d.today) {
			continue
		}
		out.violation(domain.IconNonWork, d.label(),
			"Less than 7 continuous hrs non-work in 24 hrs (longest %s hrs)", formatHours(longest))
	}
}

// elapsedTally counts slots since the last 7h rest
type elapsedTally struct {
	elapsed int
	rest    int
}

func (t elapsedTally) step(active bool) elapsedTally {
	if !active {
		t.rest++
		if t.rest >= restBlockSlots {
			t.elapsed = 0
		}
		return t
	}
	if t.rest < restBlockSlots {
		t.elapsed += t.rest
	}
	t.rest = 0
	t.elapsed++
	return t
}

// check17Hour flags the first slot of each 24h-reset segment that is more than
// 17 hrs after the last 7h rest
func (ev *evaluation) check17Hour(out *findings) {
	views, offset := ev.extended()
	grids := gridsOf(views)
	work := flatten(grids, func(g domain.DayGrid) domain.Slots { return g.Work })
	brk := flatten(grids, func(g domain.DayGrid) domain.Slots { return g.Break })

	for _, seg := range segmentUntil(grids, Reset24h, ev.declaredAnchor(views), ev.horizon(views, offset)) {
		// A segment opens on the tail of a reset
		t := elapsedTally{rest: restBlockSlots}
		for s := seg.Start * domain.SlotsPerDay; s < (seg.End+1)*domain.SlotsPerDay; s++ {
			active := work[s] || brk[s]
			t = t.step(active)
			if !active || t.elapsed <= maxElapsedSlots {
				continue
			}
			day := views[s/domain.SlotsPerDay]
			if s/domain.SlotsPerDay < offset || ev.isDeclaredDay(day) || day.grid.Work.Count() == 0 {
				continue
			}
			out.violation(domain.IconElapsed17h, day.label(),
				"More than 17 hrs elapsed without 7 continuous hrs non-work")
			break
		}
	}
}

func (ev *evaluation) declaredAnchor(views []dayView) func(int) bool {
	if ev.declared == nil {
		return nil
	}
	return func(day int) bool { return ev.isDeclaredDay(views[day]) }
}

// check72Hour looks back 72 hrs from now inside the segment containing now
func (ev *evaluation) check72Hour(out *findings) {
	if !ev.clock.positioned || len(ev.current) == 0 {
		return
	}
	views, offset := ev.extended()
	grids := gridsOf(views)
	nowDay := offset + ev.clock.dayIndex
	nowSlot := nowDay*domain.SlotsPerDay + ev.clock.slot

	var seg Segment
	for _, s := range segmentUntil(grids, Reset24h, ev.declaredAnchor(views), ev.horizon(views, offset)) {
		if s.Contains(nowDay) {
			seg = s
			break
		}
	}
	if nowSlot-seg.Start*domain.SlotsPerDay < rollingWindowSlots {
		return
	}

	nonWork := flatten(grids, func(g domain.DayGrid) domain.Slots { return g.NonWork })
	window := nonWork[nowSlot-rollingWindowSlots : nowSlot]

	total := 0
	for _, v := range window {
		if v {
			total++
		}
	}
	blocks := 0
	for _, r := range runs(window) {
		if r.length() >= restBlockSlots {
			blocks++
		}
	}

	const label = "72 hrs window ending now"
	if total < minRollingRestSlots {
		out.warning(domain.IconRolling72h, label,
			"Less than 27 hrs non-work in the last 72 hrs (%s hrs)", formatHours(total))
	}
	if blocks < minRollingRestBlocks {
		out.warning(domain.IconRolling72h, label,
			"Fewer than 3 blocks of 7 continuous hrs non-work in the last 72 hrs (%d found)", blocks)
	}
}
