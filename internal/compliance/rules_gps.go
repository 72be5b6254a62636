package compliance

import (
	"time"

	"github.com/workdiary/backend/internal/domain"
	"github.com/workdiary/backend/pkg/utils"
)

const (
	movingBreakMinDuration = 20 * time.Minute
	maxFixAccuracyMeters   = 500
	movingBreakKm          = 5
	minOdometerRatio       = 0.3
	maxOdometerRatio       = 3.33
)

// checkGPS runs the plausibility checks; these are never violations
func (ev *evaluation) checkGPS(out *findings) {
	total, missing := 0, 0
	for _, d := range ev.current {
		events := sortedEvents(d.record.Events)
		total += len(events)
		for _, e := range events {
			if e.Location == nil {
				missing++
			}
		}
		checkMovingBreaks(d, events, out)
		checkOdometer(d, events, out)
	}
	if total > 0 && missing*2 > total {
		out.warning(domain.IconGPS, "Week",
			"%d of %d events have no GPS location; evidentiary GPS coverage is low", missing, total)
	}
}

func checkMovingBreaks(d dayView, events []domain.ActivityEvent, out *findings) {
	for i := 0; i+1 < len(events); i++ {
		start, end := events[i], events[i+1]
		if start.Kind != domain.KindBreak || end.Kind != domain.KindWork {
			continue
		}
		if end.Time.Sub(start.Time) < movingBreakMinDuration {
			continue
		}
		if !accurate(start.Location) || !accurate(end.Location) {
			continue
		}
		km := distanceKm(start.Location, end.Location)
		if km <= movingBreakKm {
			continue
		}
		out.warning(domain.IconGPS, d.label(),
			"Break at %s may have been taken in a moving vehicle (%.1f km between break start and end)",
			start.Time.Format("15:04"), km)
	}
}

func checkOdometer(d dayView, events []domain.ActivityEvent, out *findings) {
	if d.record.StartOdometerKm == nil || d.record.EndOdometerKm == nil {
		return
	}
	odo := *d.record.EndOdometerKm - *d.record.StartOdometerKm
	if odo <= 0 {
		return
	}

	var located []*domain.Location
	for _, e := range events {
		if e.Location != nil {
			located = append(located, e.Location)
		}
	}
	if len(located) < 2 {
		return
	}
	gps := 0.0
	for i := 1; i < len(located); i++ {
		gps += distanceKm(located[i-1], located[i])
	}

	ratio := gps / odo
	if ratio >= minOdometerRatio && ratio <= maxOdometerRatio {
		return
	}
	out.warning(domain.IconOdometer, d.label(),
		"GPS distance of %.1f km does not match odometer distance of %.1f km",
		utils.RoundTo(gps, 1), utils.RoundTo(odo, 1))
}

func accurate(loc *domain.Location) bool {
	return loc != nil && loc.Accuracy != nil && *loc.Accuracy <= maxFixAccuracyMeters
}

func distanceKm(a, b *domain.Location) float64 {
	return utils.Haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}
