package service

import (
	"context"
	"sync"
	"time"

	"sunset_relay/internal/models"
)

var cst = time.FixedZone("CST", -6*3600)

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings models.Settings
	saved    []models.Settings
	loadErr  error
	saveErr  error
}

func newFakeSettingsRepo(s models.Settings) *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: s}
}

func (r *fakeSettingsRepo) Save(_ context.Context, s models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, s)
	r.settings = s
	return nil
}

func (r *fakeSettingsRepo) Load(_ context.Context) (models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return models.Settings{}, r.loadErr
	}
	return r.settings, nil
}

type fakeFetcher struct {
	mu     sync.Mutex
	sunset string
	err    error
	calls  int
}

func (f *fakeFetcher) Fetch(_ context.Context, _, _ float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.sunset, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeLink struct {
	mu         sync.Mutex
	connectErr error
	up         bool
	connects   []string
	apSSIDs    []string
	checks     int
}

func (l *fakeLink) Connect(_ context.Context, ssid, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connects = append(l.connects, ssid)
	if l.connectErr != nil {
		return l.connectErr
	}
	l.up = true
	return nil
}

func (l *fakeLink) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.checks++
	return l.up
}

func (l *fakeLink) checkCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.checks
}

func (l *fakeLink) StartAccessPoint(_ context.Context, ssid, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.apSSIDs = append(l.apSSIDs, ssid)
	return nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// syncingClock counts corrections like an NTP clock would.
type syncingClock struct {
	fakeClock
	syncs int
}

func (c *syncingClock) SyncWithRetry(context.Context, int, time.Duration) error {
	c.syncs++
	return nil
}

func configuredSettings() models.Settings {
	s := models.DefaultSettings()
	s.WiFiSSID = "home"
	s.WiFiPassword = "secret"
	s.Latitude = 41.6764
	s.Longitude = -86.2520
	s.SunsetDelayMinutes = 30
	s.Configured = true
	return s
}

// fakeEventRepo keeps appended events in memory and records the last query.
type fakeEventRepo struct {
	mu        sync.Mutex
	appended  []models.RelayEvent
	appendErr error

	listed    []models.RelayEvent
	listErr   error
	lastQuery [3]any // from, to, type
	queries   int
}

func (f *fakeEventRepo) Append(_ context.Context, e models.RelayEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, e)
	return nil
}

func (f *fakeEventRepo) List(_ context.Context, from, to time.Time, typ string) ([]models.RelayEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	f.lastQuery = [3]any{from, to, typ}
	return f.listed, f.listErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.appended))
	for _, e := range f.appended {
		out = append(out, e.Type)
	}
	return out
}
