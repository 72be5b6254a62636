package compliance

import (
	"time"

	"github.com/workdiary/backend/internal/domain"
)

const (
	maxWorkWithoutBreak = 5 * time.Hour
	minBreakTotal       = 20 * time.Minute
	fiveHourSlots       = 10
)

// breakTally is the fold state of the break-from-driving rule
type breakTally struct {
	workSince   time.Duration
	restTotal   time.Duration
	longestRest time.Duration
	flagged     bool
}

func (t breakTally) validBreak() bool {
	return t.restTotal >= minBreakTotal && t.longestRest >= minBreakBlock
}

// rest folds in one contiguous rest block; a qualifying break starts a new work block
func (t breakTally) rest(block time.Duration) breakTally {
	t.restTotal += block
	if block > t.longestRest {
		t.longestRest = block
	}
	if t.validBreak() {
		return breakTally{}
	}
	return t
}

// work folds in a work span and reports whether it crossed the 5h limit for the first time
func (t breakTally) work(d time.Duration) (breakTally, bool) {
	t.workSince += d
	if t.flagged || t.workSince <= maxWorkWithoutBreak {
		return t, false
	}
	t.flagged = true
	return t, true
}

// activitySpan is a run of work or of rest (break and idle merged)
type activitySpan struct {
	rest bool
	dur  time.Duration
}

func spansOf(intervals []interval) []activitySpan {
	var out []activitySpan
	var lastEnd time.Time
	for _, iv := range intervals {
		isRest := iv.state != stateWorking
		n := len(out)
		if n > 0 && out[n-1].rest == isRest && iv.start.Equal(lastEnd) {
			out[n-1].dur += iv.duration()
		} else {
			out = append(out, activitySpan{rest: isRest, dur: iv.duration()})
		}
		lastEnd = iv.end
	}
	return out
}

func (ev *evaluation) checkBreaks(out *findings) {
	for _, d := range ev.current {
		if d.fromEvent && len(d.record.Events) > 0 {
			checkEventBreaks(d, out)
			continue
		}
		work := d.grid.Work.Count()
		if work >= fiveHourSlots && d.grid.Break.Count() == 0 {
			out.warning(domain.IconBreak, d.label(),
				"%s hrs work recorded with no 20 min break recorded", formatHours(work))
		}
	}
}

func checkEventBreaks(d dayView, out *findings) {
	var t breakTally
	for _, span := range spansOf(d.intervals) {
		if span.rest {
			t = t.rest(span.dur)
			continue
		}
		attempted := t.restTotal
		var crossed bool
		t, crossed = t.work(span.dur)
		if !crossed {
			continue
		}
		if attempted > 0 {
			out.violation(domain.IconBreak, d.label(),
				"Break of %d min did not meet 20 min total with a 10 min continuous block within 5 hrs work",
				int(attempted/time.Minute))
		} else {
			out.violation(domain.IconBreak, d.label(), "More than 5 hrs work without a 20 min break")
		}
	}
}
