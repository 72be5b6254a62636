package domain

import "time"

// Sheet is a stored week of a driver's work diary
type Sheet struct {
	ID           string      `json:"id"`
	DriverID     string      `json:"driverId"`
	DriverType   DriverType  `json:"driverType"`
	WeekStarting Date        `json:"weekStarting"`
	Last24hBreak *Date       `json:"last24hBreak,omitempty"`
	Days         []DayRecord `json:"days"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// OversightEntry summarizes the findings of one sheet
type OversightEntry struct {
	SheetID      string    `json:"sheetId" yaml:"sheet_id"`
	DriverID     string    `json:"driverId" yaml:"driver_id"`
	WeekStarting Date      `json:"weekStarting" yaml:"week_starting"`
	HasPrevious  bool      `json:"hasPreviousWeek" yaml:"has_previous_week"`
	Violations   int       `json:"violations" yaml:"violations"`
	Warnings     int       `json:"warnings" yaml:"warnings"`
	Findings     []Finding `json:"findings" yaml:"findings"`
}

// OversightReport is the batch evaluation of every stored sheet
type OversightReport struct {
	ID              string           `json:"id" yaml:"id"`
	GeneratedAt     time.Time        `json:"generatedAt" yaml:"generated_at"`
	Sheets          []OversightEntry `json:"sheets" yaml:"sheets"`
	TotalViolations int              `json:"totalViolations" yaml:"total_violations"`
	TotalWarnings   int              `json:"totalWarnings" yaml:"total_warnings"`
}
