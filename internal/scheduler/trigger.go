package scheduler

import (
	"errors"
	"fmt"
	"time"

	"sunset_relay/internal/models"
)

// sunsetLayout is the leading part of the ISO-8601 sunset string; anything
// after it (zone designator, fractional seconds) is ignored.
const sunsetLayout = "2006-01-02T15:04:05"

// ErrMalformedSunset is returned when a sunset string cannot be parsed.
var ErrMalformedSunset = errors.New("malformed sunset timestamp")

// ParseSunset parses an ISO-8601 sunset time and interprets it as UTC.
func ParseSunset(s string) (time.Time, error) {
	if len(s) < len(sunsetLayout) {
		return time.Time{}, fmt.Errorf("%w: %q is too short", ErrMalformedSunset, s)
	}
	t, err := time.ParseInLocation(sunsetLayout, s[:len(sunsetLayout)], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedSunset, err)
	}
	return t, nil
}

// ComputeTrigger returns the instant the relay should turn ON: sunset plus
// the clamped delay, expressed in loc.
func ComputeTrigger(sunset string, delayMinutes int, loc *time.Location) (time.Time, error) {
	t, err := ParseSunset(sunset)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	delay := time.Duration(models.ClampDelay(delayMinutes)) * time.Minute
	return t.Add(delay).In(loc), nil
}

// FixedZone builds the local zone from a UTC offset in seconds.
func FixedZone(label string, utcOffsetSeconds int) *time.Location {
	if label == "" {
		label = fmt.Sprintf("UTC%+03d", utcOffsetSeconds/3600)
	}
	return time.FixedZone(label, utcOffsetSeconds)
}
