package postgres

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/workdiary/backend/internal/domain"
)

// MockRepository implements domain.SheetRepository in memory for testing/demo mode
type MockRepository struct {
	mu     sync.RWMutex
	sheets map[string]domain.Sheet
}

// NewMockRepository creates a new mock repository, optionally seeded
func NewMockRepository(seed ...domain.Sheet) *MockRepository {
	r := &MockRepository{sheets: make(map[string]domain.Sheet)}
	for _, s := range seed {
		r.put(s)
	}
	return r
}

// put upserts by driver and week, like the unique index in PostgresRepository
func (r *MockRepository) put(sheet domain.Sheet) domain.Sheet {
	for id, s := range r.sheets {
		if s.DriverID == sheet.DriverID && s.WeekStarting == sheet.WeekStarting {
			sheet.ID = id
			break
		}
	}
	if sheet.ID == "" {
		sheet.ID = uuid.New().String()
	}
	if sheet.UpdatedAt.IsZero() {
		sheet.UpdatedAt = time.Now().UTC()
	}
	r.sheets[sheet.ID] = cloneSheet(sheet)
	return sheet
}

// SaveSheet stores a copy of the sheet, replacing the driver's sheet for the same week
func (r *MockRepository) SaveSheet(ctx context.Context, sheet domain.Sheet) (domain.Sheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sheet.UpdatedAt = time.Now().UTC()
	return r.put(sheet), nil
}

// GetSheet returns a copy of the stored sheet
func (r *MockRepository) GetSheet(ctx context.Context, id string) (domain.Sheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sheets[id]
	if !ok {
		return domain.Sheet{}, domain.ErrSheetNotFound
	}
	return cloneSheet(s), nil
}

// ListSheets returns every sheet ordered by driver and week
func (r *MockRepository) ListSheets(ctx context.Context) ([]domain.Sheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Sheet, 0, len(r.sheets))
	for _, s := range r.sheets {
		out = append(out, cloneSheet(s))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DriverID != out[j].DriverID {
			return out[i].DriverID < out[j].DriverID
		}
		return out[i].WeekStarting.Before(out[j].WeekStarting)
	})
	return out, nil
}

// PreviousSheet finds the driver's sheet starting 7 days earlier
func (r *MockRepository) PreviousSheet(ctx context.Context, driverID string, weekStarting domain.Date) (domain.Sheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	want := weekStarting.AddDays(-7)
	for _, s := range r.sheets {
		if s.DriverID == driverID && s.WeekStarting == want {
			return cloneSheet(s), nil
		}
	}
	return domain.Sheet{}, domain.ErrSheetNotFound
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}

// cloneSheet copies the slices so callers never share storage with the map
func cloneSheet(s domain.Sheet) domain.Sheet {
	out := s
	out.Days = make([]domain.DayRecord, len(s.Days))
	for i, d := range s.Days {
		d.Events = append([]domain.ActivityEvent(nil), d.Events...)
		out.Days[i] = d
	}
	if s.Last24hBreak != nil {
		d := *s.Last24hBreak
		out.Last24hBreak = &d
	}
	return out
}
