package scheduler

import (
	"context"
	"time"

	"sunset_relay/internal/logger"
	"sunset_relay/internal/models"

	"github.com/google/uuid"
)

// Fetcher returns today's sunset as an ISO-8601 UTC string.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lng float64) (string, error)
}

// Driver switches the physical relay output.
type Driver interface {
	Set(on bool) error
}

// Recorder persists relay events.
type Recorder interface {
	Append(ctx context.Context, e models.RelayEvent) error
}

// Transition reported by Tick.
type Transition string

const (
	TransitionNone Transition = ""
	TransitionOn   Transition = "on"
	TransitionOff  Transition = "off"
)

// Engine evaluates the state machine against its collaborators.
type Engine struct {
	sc      *Context
	fetcher Fetcher
	driver  Driver
	events  Recorder
	log     *logger.Logger
}

// NewEngine wires a Context to its collaborators. events may be nil.
func NewEngine(sc *Context, fetcher Fetcher, driver Driver, events Recorder, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{sc: sc, fetcher: fetcher, driver: driver, events: events, log: log}
}

// Context exposes the owned state for snapshots. Callers must be on the
// goroutine that calls Tick.
func (e *Engine) Context() *Context { return e.sc }

// Tick runs one control iteration: refresh if due, then the ON and OFF checks.
// Nothing is evaluated while unconfigured or disconnected.
func (e *Engine) Tick(ctx context.Context, now time.Time, connected bool) Transition {
	if !e.sc.Settings.Configured || !connected {
		return TransitionNone
	}

	if reason := e.sc.RefreshReason(now); reason != "" {
		_ = e.Refresh(ctx, now, reason)
	}

	if e.sc.ShouldTurnOn(now) {
		// A trigger reached inside the turn-off minute is consumed without
		// switching the relay.
		if e.sc.OffDue(now) {
			day, entry := e.sc.TodayOff(now)
			e.sc.TurnedOff(now)
			e.log.Infow("relay_on_skipped", "reason", "turnoff_minute", "day", models.DayNames[day], "hour", entry.Hour, "minute", entry.Minute)
			return TransitionNone
		}
		if err := e.driver.Set(true); err != nil {
			e.log.Errorw("relay_on_failed", "err", err)
			return TransitionNone
		}
		e.sc.TurnedOn()
		e.log.Infow("relay_on", "reason", "sunset", "trigger", e.sc.Trigger.Trigger.Format(time.RFC3339))
		e.record(ctx, now, models.EventRelayOn, "Relay turned ON (sunset triggered)", map[string]any{
			"trigger": e.sc.Trigger.Trigger.Format(time.RFC3339),
		})
		return TransitionOn
	}

	if e.sc.ShouldTurnOff(now) {
		if err := e.driver.Set(false); err != nil {
			e.log.Errorw("relay_off_failed", "err", err)
			return TransitionNone
		}
		day, entry := e.sc.TodayOff(now)
		e.sc.TurnedOff(now)
		e.log.Infow("relay_off", "reason", "schedule", "day", models.DayNames[day], "hour", entry.Hour, "minute", entry.Minute)
		e.record(ctx, now, models.EventRelayOff, "Relay turned OFF (scheduled turnoff for "+models.DayNames[day]+")", map[string]any{
			"day":    models.DayNames[day],
			"hour":   entry.Hour,
			"minute": entry.Minute,
		})
		return TransitionOff
	}

	return TransitionNone
}

// Refresh fetches the sunset and re-arms the trigger. Failures leave the
// previous trigger armed.
func (e *Engine) Refresh(ctx context.Context, now time.Time, reason string) error {
	e.sc.MarkAttempt(now)
	s := e.sc.Settings

	e.log.Infow("sunset_fetch", "reason", reason, "lat", s.Latitude, "lng", s.Longitude)
	sunset, err := e.fetcher.Fetch(ctx, s.Latitude, s.Longitude)
	if err == nil {
		var trigger time.Time
		trigger, err = e.sc.ApplySunset(now, sunset)
		if err == nil {
			day, entry := e.sc.TodayOff(now)
			e.log.Infow("sunset_scheduled",
				"sunset_utc", sunset,
				"relay_on", trigger.Format("15:04:05 MST"),
				"relay_off", formatOff(day, entry, e.sc.Location),
			)
			e.record(ctx, now, models.EventFetchOK, "Sunset trigger armed", map[string]any{
				"reason":  reason,
				"sunset":  sunset,
				"trigger": trigger.Format(time.RFC3339),
			})
			return nil
		}
	}

	e.log.Errorw("sunset_fetch_failed", "reason", reason, "err", err)
	e.record(ctx, now, models.EventFetchFailed, "Sunset fetch failed", map[string]any{
		"reason": reason,
		"error":  err.Error(),
	})
	return err
}

// ForceOff drives the relay OFF regardless of state. Used at boot and reset.
func (e *Engine) ForceOff() error {
	if err := e.driver.Set(false); err != nil {
		return err
	}
	e.sc.RelayOn = false
	return nil
}

func (e *Engine) record(ctx context.Context, now time.Time, typ, desc string, meta map[string]any) {
	if e.events == nil {
		return
	}
	err := e.events.Append(ctx, models.RelayEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now.UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		e.log.Errorw("relay_event_append_failed", "type", typ, "err", err)
	}
}

func formatOff(day time.Weekday, entry models.ScheduleEntry, loc *time.Location) string {
	return FormatOffTime(day, entry, loc.String(), " at ")
}
