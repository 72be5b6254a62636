package domain

import (
	"context"
	"errors"
)

var (
	// ErrSheetNotFound is returned when no sheet matches a lookup
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrInvalidSheet is returned when a sheet fails validation
	ErrInvalidSheet = errors.New("invalid sheet")
)

// SheetRepository defines the interface for work diary persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type SheetRepository interface {
	// SaveSheet inserts or replaces a sheet, assigning an ID when empty
	SaveSheet(ctx context.Context, sheet Sheet) (Sheet, error)

	// GetSheet retrieves a sheet by ID
	GetSheet(ctx context.Context, id string) (Sheet, error)

	// ListSheets retrieves every stored sheet
	ListSheets(ctx context.Context) ([]Sheet, error)

	// PreviousSheet retrieves the driver's sheet starting 7 days before weekStarting
	PreviousSheet(ctx context.Context, driverID string, weekStarting Date) (Sheet, error)

	// Health checks storage connectivity
	Health(ctx context.Context) error
}
