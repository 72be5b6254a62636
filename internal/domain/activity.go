package domain

import "time"

// ActivityKind is the state a driver switches into at an event
type ActivityKind string

const (
	KindWork  ActivityKind = "work"
	KindBreak ActivityKind = "break"
	KindStop  ActivityKind = "stop"
)

// Continues reports whether the kind stays in effect until the next event
func (k ActivityKind) Continues() bool {
	return k == KindWork || k == KindBreak
}

// Location is a GPS fix attached to an event
type Location struct {
	Latitude  float64  `json:"lat"`
	Longitude float64  `json:"lng"`
	Accuracy  *float64 `json:"accuracy,omitempty"` // meters
}

// ActivityEvent is a single state transition recorded by the driver
type ActivityEvent struct {
	Time     time.Time    `json:"time"`
	Kind     ActivityKind `json:"type"`
	Location *Location    `json:"location,omitempty"`
}
