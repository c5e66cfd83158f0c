package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunset_relay/internal/models"
)

type fakeFetcher struct {
	sunset string
	err    error
	calls  int
}

func (f *fakeFetcher) Fetch(_ context.Context, _, _ float64) (string, error) {
	f.calls++
	return f.sunset, f.err
}

type fakeDriver struct {
	on    bool
	fail  error
	calls []bool
}

func (d *fakeDriver) Set(on bool) error {
	d.calls = append(d.calls, on)
	if d.fail != nil {
		return d.fail
	}
	d.on = on
	return nil
}

type fakeRecorder struct {
	events []models.RelayEvent
}

func (r *fakeRecorder) Append(_ context.Context, e models.RelayEvent) error {
	r.events = append(r.events, e)
	return nil
}

func (r *fakeRecorder) types() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func configured(delay int) models.Settings {
	s := models.DefaultSettings()
	s.WiFiSSID = "home"
	s.Latitude = 41.6764
	s.Longitude = -86.2520
	s.SunsetDelayMinutes = delay
	s.Configured = true
	return s
}

type harness struct {
	sc      *Context
	fetcher *fakeFetcher
	driver  *fakeDriver
	events  *fakeRecorder
	engine  *Engine
}

func newHarness(settings models.Settings, sunset string) *harness {
	h := &harness{
		sc:      NewContext(settings, cst, 0),
		fetcher: &fakeFetcher{sunset: sunset},
		driver:  &fakeDriver{},
		events:  &fakeRecorder{},
	}
	h.engine = NewEngine(h.sc, h.fetcher, h.driver, h.events, nil)
	return h
}

func local(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, cst)
}

func TestTick_ArmsTriggerOnStartup(t *testing.T) {
	h := newHarness(configured(30), "2024-06-21T19:30:00+00:00")
	ctx := context.Background()

	got := h.engine.Tick(ctx, local(2024, 6, 21, 12, 0, 0), true)
	assert.Equal(t, TransitionNone, got)
	assert.Equal(t, 1, h.fetcher.calls)
	assert.Equal(t, PhaseOffScheduled, h.sc.Phase())
	assert.Equal(t, "2024-06-21 14:00:00", h.sc.Trigger.Trigger.Format("2006-01-02 15:04:05"))
	assert.Equal(t, "14:00:00 CST", FormatTrigger(h.sc.Trigger))
	assert.Equal(t, []string{models.EventFetchOK}, h.events.types())
}

func TestTick_TurnsOnOnceAtTrigger(t *testing.T) {
	h := newHarness(configured(30), "2024-06-21T19:30:00+00:00")
	ctx := context.Background()

	h.engine.Tick(ctx, local(2024, 6, 21, 12, 0, 0), true)
	assert.Equal(t, TransitionNone, h.engine.Tick(ctx, local(2024, 6, 21, 13, 59, 59), true))
	assert.Equal(t, TransitionOn, h.engine.Tick(ctx, local(2024, 6, 21, 14, 0, 0), true))
	assert.Equal(t, PhaseOn, h.sc.Phase())

	for i := 1; i <= 10; i++ {
		assert.Equal(t, TransitionNone, h.engine.Tick(ctx, local(2024, 6, 21, 14, 0, i), true))
	}
	assert.Equal(t, []bool{true}, h.driver.calls)
	assert.True(t, h.sc.Trigger.Scheduled, "scheduled stays set while ON")
}

func TestTick_ScheduledTurnOff(t *testing.T) {
	// 2024-06-24 is a Monday; default schedule turns off at 20:00.
	h := newHarness(configured(0), "2024-06-24T19:00:00+00:00")
	ctx := context.Background()

	require.Equal(t, TransitionOn, h.engine.Tick(ctx, local(2024, 6, 24, 13, 0, 0), true))

	assert.Equal(t, TransitionNone, h.engine.Tick(ctx, local(2024, 6, 24, 19, 59, 58), true))
	assert.True(t, h.driver.on)

	assert.Equal(t, TransitionOff, h.engine.Tick(ctx, local(2024, 6, 24, 20, 0, 0), true))
	assert.False(t, h.driver.on)
	assert.False(t, h.sc.Trigger.Scheduled)
	assert.Equal(t, PhaseOffUnscheduled, h.sc.Phase())

	for s := 1; s < 60; s++ {
		assert.Equal(t, TransitionNone, h.engine.Tick(ctx, local(2024, 6, 24, 20, 0, s), true))
	}
	assert.Equal(t, []bool{true, false}, h.driver.calls)

	off := h.events.events[len(h.events.events)-1]
	assert.Equal(t, models.EventRelayOff, off.Type)
	assert.Equal(t, "Monday", off.Metadata.(map[string]any)["day"])
}

func TestTick_OffIgnoredWhenAlreadyOff(t *testing.T) {
	h := newHarness(configured(0), "2024-06-24T19:00:00+00:00")
	ctx := context.Background()

	// tomorrow's trigger keeps the relay off through today's off minute
	h.fetcher.sunset = "2024-06-25T19:00:00+00:00"
	assert.Equal(t, TransitionNone, h.engine.Tick(ctx, local(2024, 6, 24, 20, 0, 0), true))
	assert.Empty(t, h.driver.calls)
}

func TestTick_FetchAfterOffTimeTurnsOnImmediately(t *testing.T) {
	// Today's sunset trigger is already in the past when fetched.
	h := newHarness(configured(0), "2024-06-24T19:00:00+00:00")

	got := h.engine.Tick(context.Background(), local(2024, 6, 24, 21, 0, 0), true)
	assert.Equal(t, TransitionOn, got)
}

func TestTick_MalformedFetchKeepsPreviousTrigger(t *testing.T) {
	h := newHarness(configured(30), "2024-06-21T19:30:00+00:00")
	h.sc.RefreshInterval = time.Hour
	ctx := context.Background()

	h.engine.Tick(ctx, local(2024, 6, 21, 12, 0, 0), true)
	prev := h.sc.Trigger.Trigger

	h.fetcher.sunset = "garbage"
	assert.Equal(t, TransitionNone, h.engine.Tick(ctx, local(2024, 6, 21, 13, 0, 1), true))

	assert.Equal(t, 2, h.fetcher.calls)
	assert.Equal(t, prev, h.sc.Trigger.Trigger)
	assert.True(t, h.sc.Trigger.Scheduled)
	assert.Equal(t, []string{models.EventFetchOK, models.EventFetchFailed}, h.events.types())
}

func TestTick_FailedStartupFetchStaysUnscheduled(t *testing.T) {
	h := newHarness(configured(30), "")
	h.fetcher.err = errors.New("boom")

	assert.Equal(t, TransitionNone, h.engine.Tick(context.Background(), local(2024, 6, 21, 12, 0, 0), true))
	assert.Equal(t, PhaseOffUnscheduled, h.sc.Phase())
	assert.False(t, h.sc.Trigger.LastAttempt.IsZero())
	assert.True(t, h.sc.Trigger.LastFetch.IsZero())
}

func TestTick_UnconfiguredOrDisconnected(t *testing.T) {
	ctx := context.Background()

	h := newHarness(models.DefaultSettings(), "2024-06-21T19:30:00+00:00")
	for _, now := range []time.Time{
		local(2024, 6, 21, 12, 0, 0),
		local(2024, 6, 21, 14, 0, 0),
		local(2024, 6, 21, 20, 0, 0),
	} {
		assert.Equal(t, TransitionNone, h.engine.Tick(ctx, now, true))
	}
	assert.Zero(t, h.fetcher.calls)
	assert.Empty(t, h.driver.calls)

	h = newHarness(configured(0), "2024-06-21T19:30:00+00:00")
	assert.Equal(t, TransitionNone, h.engine.Tick(ctx, local(2024, 6, 21, 14, 0, 0), false))
	assert.Zero(t, h.fetcher.calls)
}

func TestTick_MidnightRefreshOncePerDay(t *testing.T) {
	h := newHarness(configured(0), "2024-06-21T19:30:00+00:00")
	ctx := context.Background()

	h.engine.Tick(ctx, local(2024, 6, 21, 12, 0, 0), true)
	require.Equal(t, 1, h.fetcher.calls)

	h.engine.Tick(ctx, local(2024, 6, 21, 23, 59, 59), true)
	assert.Equal(t, 1, h.fetcher.calls)

	h.engine.Tick(ctx, local(2024, 6, 22, 0, 0, 0), true)
	h.engine.Tick(ctx, local(2024, 6, 22, 0, 0, 30), true)
	h.engine.Tick(ctx, local(2024, 6, 22, 0, 1, 0), true)
	assert.Equal(t, 2, h.fetcher.calls)

	h.engine.Tick(ctx, local(2024, 6, 23, 0, 0, 1), true)
	assert.Equal(t, 3, h.fetcher.calls)
}

func TestTick_StaleRefresh(t *testing.T) {
	h := newHarness(configured(0), "2024-06-21T19:30:00+00:00")
	h.sc.RefreshInterval = time.Hour
	ctx := context.Background()

	start := local(2024, 6, 21, 1, 0, 0)
	h.engine.Tick(ctx, start, true)
	h.engine.Tick(ctx, start.Add(time.Hour), true)
	assert.Equal(t, 1, h.fetcher.calls)

	h.engine.Tick(ctx, start.Add(time.Hour+time.Second), true)
	assert.Equal(t, 2, h.fetcher.calls)
}

func TestTick_DriverFailureRetried(t *testing.T) {
	h := newHarness(configured(30), "2024-06-21T19:30:00+00:00")
	ctx := context.Background()
	h.engine.Tick(ctx, local(2024, 6, 21, 12, 0, 0), true)

	h.driver.fail = errors.New("gpio busy")
	assert.Equal(t, TransitionNone, h.engine.Tick(ctx, local(2024, 6, 21, 14, 0, 0), true))
	assert.False(t, h.sc.RelayOn)

	h.driver.fail = nil
	assert.Equal(t, TransitionOn, h.engine.Tick(ctx, local(2024, 6, 21, 14, 0, 1), true))
	assert.True(t, h.driver.on)
}

func TestReset_ClearsState(t *testing.T) {
	h := newHarness(configured(30), "2024-06-21T19:30:00+00:00")
	ctx := context.Background()
	h.engine.Tick(ctx, local(2024, 6, 21, 14, 0, 0), true)
	require.Equal(t, PhaseOn, h.sc.Phase())

	require.NoError(t, h.engine.ForceOff())
	h.sc.Reset(configured(60))

	assert.Equal(t, PhaseOffUnscheduled, h.sc.Phase())
	assert.Equal(t, RefreshStartup, h.sc.RefreshReason(local(2024, 6, 21, 14, 0, 1)))
	assert.False(t, h.driver.on)
	assert.Equal(t, 60, h.sc.Settings.SunsetDelayMinutes)
}

func TestTick_TriggerInsideTurnOffMinuteNeverSwitches(t *testing.T) {
	// Monday: sunset 01:50Z Tuesday + 10 min lands on the 20:00 turn-off minute.
	h := newHarness(configured(10), "2024-06-25T01:50:00+00:00")
	ctx := context.Background()

	h.engine.Tick(ctx, local(2024, 6, 24, 12, 0, 0), true)
	require.Equal(t, "20:00:00 CST", FormatTrigger(h.sc.Trigger))

	for s := 0; s < 60; s++ {
		assert.Equal(t, TransitionNone, h.engine.Tick(ctx, local(2024, 6, 24, 20, 0, s), true))
	}
	assert.Equal(t, TransitionNone, h.engine.Tick(ctx, local(2024, 6, 24, 20, 1, 0), true))
	assert.Equal(t, TransitionNone, h.engine.Tick(ctx, local(2024, 6, 24, 23, 0, 0), true))

	assert.Empty(t, h.driver.calls)
	assert.False(t, h.sc.RelayOn)
	assert.False(t, h.sc.Trigger.Scheduled)
	assert.Equal(t, []string{models.EventFetchOK}, h.events.types())
}
