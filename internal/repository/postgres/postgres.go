package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/workdiary/backend/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS work_diary_sheets (
		id             UUID PRIMARY KEY,
		driver_id      TEXT NOT NULL,
		driver_type    TEXT NOT NULL,
		week_starting  DATE NOT NULL,
		last_24h_break DATE,
		days           JSONB NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS work_diary_sheets_driver_week
		ON work_diary_sheets (driver_id, week_starting);
`

const selectSheet = `
	SELECT id::text, driver_id, driver_type, week_starting, last_24h_break, days, updated_at
	FROM work_diary_sheets
`

// PostgresRepository implements domain.SheetRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the sheets table when missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to ensure schema: %w", err)
	}
	return nil
}

// SaveSheet upserts a sheet keyed by driver and week; an existing row keeps its ID
func (r *PostgresRepository) SaveSheet(ctx context.Context, sheet domain.Sheet) (domain.Sheet, error) {
	if sheet.ID == "" {
		sheet.ID = uuid.New().String()
	}
	sheet.UpdatedAt = time.Now().UTC()

	days, err := json.Marshal(sheet.Days)
	if err != nil {
		return domain.Sheet{}, fmt.Errorf("postgres: failed to encode days: %w", err)
	}

	query := `
		INSERT INTO work_diary_sheets (
			id, driver_id, driver_type, week_starting, last_24h_break, days, updated_at
		) VALUES ($1::text::uuid, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (driver_id, week_starting) DO UPDATE SET
			driver_type = EXCLUDED.driver_type,
			last_24h_break = EXCLUDED.last_24h_break,
			days = EXCLUDED.days,
			updated_at = EXCLUDED.updated_at
		RETURNING id::text
	`

	// Nullable DATE column gets nil rather than a zero date
	var lastBreak interface{}
	if sheet.Last24hBreak != nil && !sheet.Last24hBreak.IsZero() {
		lastBreak = sheet.Last24hBreak.Midnight(time.UTC)
	}

	err = r.pool.QueryRow(ctx, query,
		sheet.ID, sheet.DriverID, string(sheet.DriverType), sheet.WeekStarting.Midnight(time.UTC),
		lastBreak, days, sheet.UpdatedAt,
	).Scan(&sheet.ID)
	if err != nil {
		return domain.Sheet{}, fmt.Errorf("postgres: failed to save sheet: %w", err)
	}

	return sheet, nil
}

// GetSheet retrieves a sheet by ID
func (r *PostgresRepository) GetSheet(ctx context.Context, id string) (domain.Sheet, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Sheet{}, domain.ErrSheetNotFound
	}
	row := r.pool.QueryRow(ctx, selectSheet+` WHERE id = $1::text::uuid`, id)
	return scanSheet(row)
}

// ListSheets retrieves every sheet ordered by driver and week
func (r *PostgresRepository) ListSheets(ctx context.Context) ([]domain.Sheet, error) {
	rows, err := r.pool.Query(ctx, selectSheet+` ORDER BY driver_id, week_starting`)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query sheets: %w", err)
	}
	defer rows.Close()

	var results []domain.Sheet
	for rows.Next() {
		sheet, err := scanSheet(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate sheets: %w", err)
	}

	return results, nil
}

// PreviousSheet retrieves the driver's sheet for the week before weekStarting
func (r *PostgresRepository) PreviousSheet(ctx context.Context, driverID string, weekStarting domain.Date) (domain.Sheet, error) {
	row := r.pool.QueryRow(ctx, selectSheet+` WHERE driver_id = $1 AND week_starting = $2`,
		driverID, weekStarting.AddDays(-7).Midnight(time.UTC))
	return scanSheet(row)
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

func scanSheet(row pgx.Row) (domain.Sheet, error) {
	var (
		s          domain.Sheet
		driverType string
		week       time.Time
		lastBreak  *time.Time
		days       []byte
	)
	err := row.Scan(&s.ID, &s.DriverID, &driverType, &week, &lastBreak, &days, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Sheet{}, domain.ErrSheetNotFound
	}
	if err != nil {
		return domain.Sheet{}, fmt.Errorf("postgres: failed to scan sheet row: %w", err)
	}

	s.DriverType = domain.ParseDriverType(driverType)
	s.WeekStarting = domain.DateOf(week.UTC())
	if lastBreak != nil {
		d := domain.DateOf(lastBreak.UTC())
		s.Last24hBreak = &d
	}
	if err := json.Unmarshal(days, &s.Days); err != nil {
		return domain.Sheet{}, fmt.Errorf("postgres: failed to decode days: %w", err)
	}
	return s, nil
}
