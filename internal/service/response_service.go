package service

import (
	"time"

	"sunset_relay/internal/models"
)

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "RELAY_ON", "RELAY_OFF", "FETCH_OK", ...
}

// ProbeParams are the coordinates and delay under test.
type ProbeParams struct {
	Lat   float64
	Lng   float64
	Delay int
}

// ProbeResult is what a sunset probe would schedule today.
type ProbeResult struct {
	Sunset   string
	Delay    int // clamped
	Trigger  time.Time
	OffDay   time.Weekday
	OffEntry models.ScheduleEntry
	Zone     string
}
