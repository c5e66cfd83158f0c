package service

import (
	"context"
	"time"

	"sunset_relay/internal/clock"
	"sunset_relay/internal/models"
	"sunset_relay/internal/scheduler"
)

const (
	currentTimeLayout = "2006-01-02 15:04:05 MST"
	triggerLayout     = "15:04:05 MST"
)

// viewSource is the controller side of the monitoring service.
type viewSource interface {
	snapshot() controllerView
	subscribe() (<-chan struct{}, func())
}

type MonitoringService struct {
	source viewSource
	clock  clock.Clock
}

func NewMonitoringService(source *ControllerService, c clock.Clock) *MonitoringService {
	if c == nil {
		c = clock.System{}
	}
	return &MonitoringService{source: source, clock: c}
}

// Status renders the latest controller view at the current time.
func (s *MonitoringService) Status(_ context.Context) (models.RelayStatus, error) {
	return buildStatus(s.source.snapshot(), s.clock.Now()), nil
}

// Changes signals after each controller update that alters the status. The
// channel is closed once ctx is done.
func (s *MonitoringService) Changes(ctx context.Context) <-chan struct{} {
	ch, cancel := s.source.subscribe()
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch
}

func buildStatus(v controllerView, now time.Time) models.RelayStatus {
	loc := v.loc
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	day := local.Weekday()
	entry := v.settings.Schedule.For(day).Clamp()
	schedule := v.settings.Schedule.Clamp()

	st := models.RelayStatus{
		Relay:        v.relayOn,
		State:        string(v.phase),
		Mode:         v.mode,
		Connected:    v.connected,
		CurrentTime:  local.Format(currentTimeLayout),
		Today:        models.DayNames[day],
		SunsetUTC:    v.trigger.LastSunset,
		RelayOnTime:  scheduler.FormatTrigger(v.trigger),
		RelayOffTime: scheduler.FormatOffTime(day, entry, loc.String(), " at "),
		SSID:         v.settings.WiFiSSID,
		Latitude:     v.settings.Latitude,
		Longitude:    v.settings.Longitude,
		Delay:        v.settings.SunsetDelayMinutes,
		Configured:   v.settings.Configured,
		Schedule:     schedule[:],
	}
	if !v.trigger.Trigger.IsZero() {
		st.NextSunset = v.trigger.Trigger.In(loc).Format(triggerLayout)
	}
	if st.State == "" {
		st.State = string(scheduler.PhaseOffUnscheduled)
	}
	if !v.trigger.LastFetch.IsZero() {
		t := v.trigger.LastFetch.UTC().Round(0)
		st.LastFetch = &t
	}
	return st
}
