package domain

// Severity of a finding
type Severity string

const (
	SeverityViolation Severity = "violation"
	SeverityWarning   Severity = "warning"
)

// RuleIcon classifies which rule family produced a finding
type RuleIcon string

const (
	IconBreak       RuleIcon = "break"
	IconNonWork     RuleIcon = "non-work"
	IconElapsed17h  RuleIcon = "17h"
	IconRolling72h  RuleIcon = "72h"
	IconTwoUp       RuleIcon = "two-up"
	IconFourteenDay RuleIcon = "14-day"
	IconGPS         RuleIcon = "gps"
	IconOdometer    RuleIcon = "odometer"
)

// Finding is a single compliance result
type Finding struct {
	Severity    Severity `json:"severity" yaml:"severity"`
	RuleIcon    RuleIcon `json:"ruleIcon" yaml:"rule_icon"`
	PeriodLabel string   `json:"periodLabel" yaml:"period"`
	Message     string   `json:"message" yaml:"message"`
}

// IsViolation reports whether the finding is a breach rather than a warning
func (f Finding) IsViolation() bool {
	return f.Severity == SeverityViolation
}
