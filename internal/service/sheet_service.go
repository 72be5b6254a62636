package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/workdiary/backend/internal/domain"
)

// SheetService stores sheets and evaluates them with their previous week attached
type SheetService struct {
	repo       SheetRepository
	compliance *ComplianceService
}

// NewSheetService creates a new sheet service
func NewSheetService(repo SheetRepository, compliance *ComplianceService) *SheetService {
	return &SheetService{repo: repo, compliance: compliance}
}

// Save validates and persists a sheet
func (s *SheetService) Save(ctx context.Context, sheet domain.Sheet) (domain.Sheet, error) {
	if sheet.DriverID == "" {
		return domain.Sheet{}, fmt.Errorf("sheet: %w: driverId is required", domain.ErrInvalidSheet)
	}
	if sheet.WeekStarting.IsZero() {
		return domain.Sheet{}, fmt.Errorf("sheet: %w: weekStarting is required", domain.ErrInvalidSheet)
	}
	if len(sheet.Days) > 7 {
		return domain.Sheet{}, fmt.Errorf("sheet: %w: at most 7 days, got %d", domain.ErrInvalidSheet, len(sheet.Days))
	}
	sheet.DriverType = domain.ParseDriverType(string(sheet.DriverType))

	saved, err := s.repo.SaveSheet(ctx, sheet)
	if err != nil {
		return domain.Sheet{}, fmt.Errorf("sheet: failed to save: %w", err)
	}
	return saved, nil
}

// Evaluate loads a sheet and its previous week and runs the rules
func (s *SheetService) Evaluate(ctx context.Context, id string) ([]domain.Finding, error) {
	sheet, err := s.repo.GetSheet(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sheet: failed to load %s: %w", id, err)
	}
	prev, err := s.previous(ctx, sheet)
	if err != nil {
		return nil, err
	}
	return s.compliance.CheckSheet(ctx, sheet, prev), nil
}

// previous returns nil when the driver has no sheet for the week before
func (s *SheetService) previous(ctx context.Context, sheet domain.Sheet) (*domain.Sheet, error) {
	prev, err := s.repo.PreviousSheet(ctx, sheet.DriverID, sheet.WeekStarting)
	if errors.Is(err, domain.ErrSheetNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("Failed to load previous sheet for %s: %v", sheet.ID, err)
		return nil, fmt.Errorf("sheet: failed to load previous week: %w", err)
	}
	return &prev, nil
}
