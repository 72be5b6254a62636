package compliance

import (
	"strings"
	"time"

	"github.com/workdiary/backend/internal/domain"
)

// Monday
var testWeekStart = domain.NewDate(2026, time.October, 12)

func at(d domain.Date, hour, minute int) time.Time {
	return d.Midnight(time.UTC).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func span(from, to int) domain.Slots {
	var s domain.Slots
	for i := from; i < to; i++ {
		s[i] = true
	}
	return s
}

// workDay records work from midnight for workSlots, then non-work for restSlots
func workDay(workSlots, restSlots int) domain.DayRecord {
	return domain.DayRecord{Grid: domain.DayGrid{
		Work:    span(0, workSlots),
		NonWork: span(workSlots, workSlots+restSlots),
	}}
}

func restDay() domain.DayRecord {
	return domain.DayRecord{Grid: domain.DayGrid{NonWork: span(0, domain.SlotsPerDay)}}
}

func week(days ...domain.DayRecord) []domain.DayRecord {
	out := make([]domain.DayRecord, 7)
	copy(out, days)
	return out
}

func repeat(d domain.DayRecord, n int) []domain.DayRecord {
	out := make([]domain.DayRecord, n)
	for i := range out {
		out[i] = d
	}
	return out
}

func ev(t time.Time, kind domain.ActivityKind) domain.ActivityEvent {
	return domain.ActivityEvent{Time: t, Kind: kind}
}

func located(e domain.ActivityEvent, lat, lng, accuracy float64) domain.ActivityEvent {
	e.Location = &domain.Location{Latitude: lat, Longitude: lng, Accuracy: &accuracy}
	return e
}

func byIcon(findings []domain.Finding, icon domain.RuleIcon) []domain.Finding {
	var out []domain.Finding
	for _, f := range findings {
		if f.RuleIcon == icon {
			out = append(out, f)
		}
	}
	return out
}

func withMessage(findings []domain.Finding, parts ...string) []domain.Finding {
	var out []domain.Finding
next:
	for _, f := range findings {
		for _, p := range parts {
			if !strings.Contains(f.Message, p) {
				continue next
			}
		}
		out = append(out, f)
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
