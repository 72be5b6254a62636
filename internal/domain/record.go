package domain

import (
	"strings"
	"time"
)

// DriverType selects the rule set applied to a sheet
type DriverType string

const (
	DriverSolo  DriverType = "solo"
	DriverTwoUp DriverType = "two-up"
)

// ParseDriverType maps client spellings onto a DriverType; anything unknown is solo
func ParseDriverType(s string) DriverType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "two-up", "twoup", "two_up", "two up", "2up":
		return DriverTwoUp
	default:
		return DriverSolo
	}
}

// DayRecord is one calendar day of a work diary sheet.
// Events win over Grid when both are present.
type DayRecord struct {
	Date            Date            `json:"date"`
	Grid            DayGrid         `json:"grid"`
	Events          []ActivityEvent `json:"events,omitempty"`
	StartOdometerKm *float64        `json:"startOdometer,omitempty"`
	EndOdometerKm   *float64        `json:"endOdometer,omitempty"`
}

// ComplianceOptions carries everything besides the days themselves
type ComplianceOptions struct {
	DriverType           DriverType
	PreviousWeekDays     []DayRecord
	DeclaredLast24hBreak *Date
	WeekStartDate        *Date
	PreviousWeekStart    *Date

	// Position of "now" inside the week. Ignored when AsOf and WeekStartDate are both set.
	CurrentDayIndex   *int
	SlotsElapsedToday *int

	// AsOf is the evaluation wall-clock; zero means every day is treated as complete
	AsOf time.Time
	// AssumeIdleFrom caps work/break derivation for today; later time up to AsOf is non-work
	AssumeIdleFrom *time.Time
	// Location defines local midnight; nil means UTC
	Location *time.Location
}

// ComplianceRequest is the JSON body of a compliance check
type ComplianceRequest struct {
	Days                  []DayRecord `json:"days"`
	DriverType            string      `json:"driverType"`
	PrevWeekDays          []DayRecord `json:"prevWeekDays,omitempty"`
	Last24hBreak          *Date       `json:"last24hBreak,omitempty"`
	WeekStarting          *Date       `json:"weekStarting,omitempty"`
	PrevWeekStarting      *Date       `json:"prevWeekStarting,omitempty"`
	CurrentDayIndex       *int        `json:"currentDayIndex,omitempty"`
	SlotOffsetWithinToday *int        `json:"slotOffsetWithinToday,omitempty"`
}

// ComplianceResponse wraps the findings of a check
type ComplianceResponse struct {
	Results []Finding `json:"results"`
}
