package service

import (
	"context"
	"time"

	"github.com/workdiary/backend/internal/compliance"
	"github.com/workdiary/backend/internal/domain"
)

// ComplianceService runs the fatigue rules with the server's clock and time zone
type ComplianceService struct {
	location *time.Location
	now      func() time.Time
}

// NewComplianceService creates a new compliance service
func NewComplianceService(location *time.Location) *ComplianceService {
	if location == nil {
		location = time.UTC
	}
	return &ComplianceService{
		location: location,
		now:      time.Now,
	}
}

// WithClock replaces the wall-clock; used by tests and batch replays
func (s *ComplianceService) WithClock(now func() time.Time) *ComplianceService {
	return &ComplianceService{location: s.location, now: now}
}

// Check evaluates an ad-hoc request.
// The server clock is used only when the client did not place itself in the week.
func (s *ComplianceService) Check(ctx context.Context, req domain.ComplianceRequest) []domain.Finding {
	opts := domain.ComplianceOptions{
		DriverType:           domain.ParseDriverType(req.DriverType),
		PreviousWeekDays:     req.PrevWeekDays,
		DeclaredLast24hBreak: req.Last24hBreak,
		WeekStartDate:        req.WeekStarting,
		PreviousWeekStart:    req.PrevWeekStarting,
		CurrentDayIndex:      req.CurrentDayIndex,
		SlotsElapsedToday:    req.SlotOffsetWithinToday,
		Location:             s.location,
	}
	if req.CurrentDayIndex == nil {
		opts.AsOf = s.now()
	}
	return compliance.Evaluate(req.Days, opts)
}

// CheckSheet evaluates a stored sheet; prev may be nil
func (s *ComplianceService) CheckSheet(ctx context.Context, sheet domain.Sheet, prev *domain.Sheet) []domain.Finding {
	week := sheet.WeekStarting
	opts := domain.ComplianceOptions{
		DriverType:           sheet.DriverType,
		DeclaredLast24hBreak: sheet.Last24hBreak,
		AsOf:                 s.now(),
		Location:             s.location,
	}
	if !week.IsZero() {
		opts.WeekStartDate = &week
	}
	if prev != nil {
		prevWeek := prev.WeekStarting
		opts.PreviousWeekDays = prev.Days
		if !prevWeek.IsZero() {
			opts.PreviousWeekStart = &prevWeek
		}
	}
	return compliance.Evaluate(sheet.Days, opts)
}

// Tally counts violations and warnings
func Tally(findings []domain.Finding) (violations, warnings int) {
	for _, f := range findings {
		if f.IsViolation() {
			violations++
		} else {
			warnings++
		}
	}
	return violations, warnings
}
