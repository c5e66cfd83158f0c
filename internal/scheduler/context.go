package scheduler

import (
	"time"

	"sunset_relay/internal/models"
)

// Phase is the derived state of the relay state machine.
type Phase string

const (
	PhaseOffUnscheduled Phase = "OFF_UNSCHEDULED"
	PhaseOffScheduled   Phase = "OFF_SCHEDULED"
	PhaseOn             Phase = "ON"
)

// Refresh reasons.
const (
	RefreshStartup  = "startup"
	RefreshMidnight = "midnight"
	RefreshStale    = "stale"
)

// DefaultRefreshInterval is the maximum age of the last fetch attempt.
const DefaultRefreshInterval = 24 * time.Hour

// TriggerState tracks the current sunset trigger. Zero Trigger means unset.
// LastFetch and LastAttempt come from the clock and keep their monotonic
// reading, so Sub against them ignores wall-clock jumps.
type TriggerState struct {
	Trigger     time.Time
	Scheduled   bool
	LastFetch   time.Time
	LastAttempt time.Time
	LastSunset  string
}

type dayKey struct {
	year, yday int
}

type minuteKey struct {
	day          dayKey
	hour, minute int
}

// Context owns all scheduler state. It is not safe for concurrent use; the
// controller goroutine is its only mutator.
type Context struct {
	Settings        models.Settings
	Location        *time.Location
	RefreshInterval time.Duration
	Trigger         TriggerState
	RelayOn         bool

	offFired     minuteKey
	midnightDone dayKey
}

// NewContext returns a Context in OFF_UNSCHEDULED.
func NewContext(settings models.Settings, loc *time.Location, refresh time.Duration) *Context {
	if loc == nil {
		loc = time.UTC
	}
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}
	return &Context{Settings: settings, Location: loc, RefreshInterval: refresh}
}

// Reset clears trigger state and latches and installs new settings. The
// relay is considered OFF afterwards; the caller drives the output.
func (c *Context) Reset(settings models.Settings) {
	c.Settings = settings
	c.Trigger = TriggerState{}
	c.RelayOn = false
	c.offFired = minuteKey{}
	c.midnightDone = dayKey{}
}

// Phase reports the current state machine state.
func (c *Context) Phase() Phase {
	switch {
	case c.RelayOn:
		return PhaseOn
	case c.Trigger.Scheduled:
		return PhaseOffScheduled
	default:
		return PhaseOffUnscheduled
	}
}

// Local converts now into the configured fixed zone.
func (c *Context) Local(now time.Time) time.Time {
	return now.In(c.Location)
}

// TodayOff returns today's turn-off entry for now.
func (c *Context) TodayOff(now time.Time) (time.Weekday, models.ScheduleEntry) {
	day := c.Local(now).Weekday()
	return day, c.Settings.Schedule.For(day).Clamp()
}

// RefreshReason reports why a sunset fetch is due, or "" if none is.
func (c *Context) RefreshReason(now time.Time) string {
	if c.Trigger.LastAttempt.IsZero() {
		return RefreshStartup
	}
	local := c.Local(now)
	if local.Hour() == 0 && local.Minute() == 0 && c.midnightDone != dayOf(local) {
		return RefreshMidnight
	}
	if now.Sub(c.Trigger.LastAttempt) > c.RefreshInterval {
		return RefreshStale
	}
	return ""
}

// MarkAttempt records a fetch attempt. An attempt made during the midnight
// minute satisfies that day's midnight refresh.
func (c *Context) MarkAttempt(now time.Time) {
	c.Trigger.LastAttempt = now
	local := c.Local(now)
	if local.Hour() == 0 && local.Minute() == 0 {
		c.midnightDone = dayOf(local)
	}
}

// ApplySunset arms the trigger from a fetched sunset string. On error the
// previous trigger stays as it was.
func (c *Context) ApplySunset(now time.Time, sunset string) (time.Time, error) {
	trigger, err := ComputeTrigger(sunset, c.Settings.SunsetDelayMinutes, c.Location)
	if err != nil {
		return time.Time{}, err
	}
	c.Trigger.Trigger = trigger
	c.Trigger.Scheduled = true
	c.Trigger.LastFetch = now
	c.Trigger.LastSunset = sunset
	return trigger, nil
}

// ShouldTurnOn reports whether the ON transition is due.
func (c *Context) ShouldTurnOn(now time.Time) bool {
	return !c.RelayOn && c.Trigger.Scheduled && !now.Before(c.Trigger.Trigger)
}

// TurnedOn records a completed ON transition. Scheduled stays set until OFF.
func (c *Context) TurnedOn() {
	c.RelayOn = true
}

// ShouldTurnOff reports whether today's turn-off minute has been reached and
// not yet acted upon.
func (c *Context) ShouldTurnOff(now time.Time) bool {
	return c.RelayOn && c.OffDue(now)
}

// OffDue reports whether now is inside today's turn-off minute and that
// minute has not been latched yet.
func (c *Context) OffDue(now time.Time) bool {
	key, ok := c.offKey(now)
	return ok && c.offFired != key
}

// TurnedOff records a completed OFF transition and latches the minute.
func (c *Context) TurnedOff(now time.Time) {
	if key, ok := c.offKey(now); ok {
		c.offFired = key
	}
	c.RelayOn = false
	c.Trigger.Scheduled = false
}

func (c *Context) offKey(now time.Time) (minuteKey, bool) {
	local := c.Local(now)
	entry := c.Settings.Schedule.For(local.Weekday()).Clamp()
	if local.Hour() != entry.Hour || local.Minute() != entry.Minute {
		return minuteKey{}, false
	}
	return minuteKey{day: dayOf(local), hour: entry.Hour, minute: entry.Minute}, true
}

func dayOf(t time.Time) dayKey {
	return dayKey{year: t.Year(), yday: t.YearDay()}
}
