package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/workdiary/backend/internal/domain"
)

// OversightService evaluates every stored sheet for the oversight report
type OversightService struct {
	repo       SheetRepository
	sheets     *SheetService
	compliance *ComplianceService
	workers    int
}

// ReportOptions filters the oversight report
type ReportOptions struct {
	OnlyViolations bool
}

// NewOversightService creates a new oversight service
func NewOversightService(repo SheetRepository, compliance *ComplianceService, workers int) *OversightService {
	if workers < 1 {
		workers = 1
	}
	return &OversightService{
		repo:       repo,
		sheets:     NewSheetService(repo, compliance),
		compliance: compliance,
		workers:    workers,
	}
}

// Run evaluates all sheets concurrently, at most workers at a time
func (s *OversightService) Run(ctx context.Context, opts ReportOptions) (domain.OversightReport, error) {
	started := time.Now()

	sheets, err := s.repo.ListSheets(ctx)
	if err != nil {
		return domain.OversightReport{}, fmt.Errorf("oversight: failed to list sheets: %w", err)
	}

	entries := make([]domain.OversightEntry, len(sheets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, sheet := range sheets {
		i, sheet := i, sheet
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prev, err := s.sheets.previous(gctx, sheet)
			if err != nil {
				return fmt.Errorf("oversight: sheet %s: %w", sheet.ID, err)
			}
			findings := s.compliance.CheckSheet(gctx, sheet, prev)
			violations, warnings := Tally(findings)
			entries[i] = domain.OversightEntry{
				SheetID:      sheet.ID,
				DriverID:     sheet.DriverID,
				WeekStarting: sheet.WeekStarting,
				HasPrevious:  prev != nil,
				Violations:   violations,
				Warnings:     warnings,
				Findings:     findings,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.OversightReport{}, err
	}

	report := domain.OversightReport{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now(),
		Sheets:      make([]domain.OversightEntry, 0, len(entries)),
	}
	for _, e := range entries {
		if opts.OnlyViolations && e.Violations == 0 {
			continue
		}
		report.Sheets = append(report.Sheets, e)
		report.TotalViolations += e.Violations
		report.TotalWarnings += e.Warnings
	}
	sort.Slice(report.Sheets, func(i, j int) bool {
		a, b := report.Sheets[i], report.Sheets[j]
		if a.DriverID != b.DriverID {
			return a.DriverID < b.DriverID
		}
		return a.WeekStarting.Before(b.WeekStarting)
	})

	log.Printf("Oversight report %s: %d sheets, %d violations, %d warnings (%s)",
		report.ID, len(sheets), report.TotalViolations, report.TotalWarnings, time.Since(started).Round(time.Millisecond))
	return report, nil
}
