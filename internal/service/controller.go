package service

import (
	"context"
	"sync"
	"time"

	"sunset_relay/internal/clock"
	"sunset_relay/internal/logger"
	"sunset_relay/internal/models"
	"sunset_relay/internal/network"
	"sunset_relay/internal/relay"
	"sunset_relay/internal/repository"
	"sunset_relay/internal/scheduler"
	"sunset_relay/internal/sunset"
)

// ControllerOptions tunes the control loop.
type ControllerOptions struct {
	Location        *time.Location
	RefreshInterval time.Duration
	APSSID          string
	APPassphrase    string
	SyncAttempts    int
	SyncInterval    time.Duration
}

// clockSyncer is implemented by clocks that can correct themselves (NTP).
type clockSyncer interface {
	SyncWithRetry(ctx context.Context, attempts int, interval time.Duration) error
}

// controllerView is the immutable snapshot handed to readers.
type controllerView struct {
	settings  models.Settings
	trigger   scheduler.TriggerState
	relayOn   bool
	phase     scheduler.Phase
	mode      string
	connected bool
	loc       *time.Location
}

// ControllerService owns the scheduler state. Only the goroutine in Run
// mutates it; everything else reads the published view.
type ControllerService struct {
	settingsRepo repository.SettingsRepo
	eventRepo    repository.EventRepo
	fetcher      sunset.Fetcher
	driver       relay.Driver
	link         network.Link
	clock        clock.Clock
	opts         ControllerOptions
	log          *logger.Logger

	engine *scheduler.Engine
	mode   string
	linkUp bool
	resets chan struct{}

	mu   sync.RWMutex
	view controllerView

	watchMu  sync.Mutex
	watchers map[chan struct{}]struct{}
}

// NewControllerService returns a controller in the starting mode.
func NewControllerService(settingsRepo repository.SettingsRepo, eventRepo repository.EventRepo, deps Deps, opts ControllerOptions) *ControllerService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.APSSID == "" {
		opts.APSSID = network.DefaultAPSSID
	}
	if opts.APPassphrase == "" {
		opts.APPassphrase = network.DefaultAPPassphrase
	}
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}

	c := &ControllerService{
		settingsRepo: settingsRepo,
		eventRepo:    eventRepo,
		fetcher:      deps.Fetcher,
		driver:       deps.Driver,
		link:         deps.Link,
		clock:        deps.Clock,
		opts:         opts,
		log:          deps.Log,
		mode:         models.ModeStarting,
		resets:       make(chan struct{}, 1),
		watchers:     make(map[chan struct{}]struct{}),
	}
	sc := scheduler.NewContext(models.DefaultSettings(), opts.Location, opts.RefreshInterval)
	c.engine = scheduler.NewEngine(sc, c.fetcher, c.driver, eventRepo, c.log)
	c.publish()
	return c
}

// Run boots the controller and ticks at the given interval until ctx is
// canceled. Reset requests re-run the boot sequence between ticks.
func (c *ControllerService) Run(ctx context.Context, tick time.Duration) {
	c.boot(ctx, false)

	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := c.engine.ForceOff(); err != nil {
				c.log.Errorw("relay_off_failed", "err", err)
			}
			c.publish()
			return
		case <-c.resets:
			c.boot(ctx, true)
		case <-t.C:
			c.step(ctx)
		}
	}
}

// RequestReset asks the loop to reload settings and restart scheduling.
// Pending requests coalesce.
func (c *ControllerService) RequestReset() {
	select {
	case c.resets <- struct{}{}:
	default:
	}
}

// step runs one scheduler tick and publishes the result. The link is
// checked once per step.
func (c *ControllerService) step(ctx context.Context) {
	now := c.clock.Now()
	c.linkUp = c.mode == models.ModeScheduling && c.link.Connected()
	c.engine.Tick(ctx, now, c.linkUp)
	c.publish()
}

// boot forces the relay off, reloads settings and brings the network up.
// Without usable settings or an uplink the controller stays in provisioning.
func (c *ControllerService) boot(ctx context.Context, reset bool) {
	sc := c.engine.Context()
	if err := c.engine.ForceOff(); err != nil {
		c.log.Errorw("relay_off_failed", "err", err)
	}

	settings, err := c.settingsRepo.Load(ctx)
	if err != nil {
		c.log.Errorw("settings_load_failed", "err", err)
		settings = models.DefaultSettings()
	}
	sc.Reset(settings)

	if reset {
		c.log.Infow("controller_reset")
		c.record(ctx, models.EventReset, "Controller reset after configuration change", nil)
	}
	c.logSchedule(settings)

	c.mode = models.ModeStarting
	c.linkUp = false
	c.publish()

	if !settings.Configured {
		c.provision(ctx, "not configured")
		return
	}

	if err := c.link.Connect(ctx, settings.WiFiSSID, settings.WiFiPassword); err != nil {
		c.log.Warnw("network_connect_failed", "ssid", settings.WiFiSSID, "err", err)
		c.provision(ctx, "connect failed")
		return
	}
	c.log.Infow("network_connected", "ssid", settings.WiFiSSID)

	c.syncClock(ctx)

	c.mode = models.ModeScheduling
	c.linkUp = true
	c.publish()
	c.log.Infow("scheduling_started", "lat", settings.Latitude, "lng", settings.Longitude, "delay", settings.SunsetDelayMinutes)
}

func (c *ControllerService) provision(ctx context.Context, reason string) {
	c.mode = models.ModeProvisioning
	c.linkUp = false
	c.publish()

	if err := c.link.StartAccessPoint(ctx, c.opts.APSSID, c.opts.APPassphrase); err != nil {
		c.log.Errorw("access_point_failed", "ssid", c.opts.APSSID, "err", err)
	} else {
		c.log.Infow("access_point_started", "ssid", c.opts.APSSID, "reason", reason)
	}
	c.record(ctx, models.EventProvisioning, "Provisioning access point started", map[string]any{
		"ssid":   c.opts.APSSID,
		"reason": reason,
	})
}

func (c *ControllerService) syncClock(ctx context.Context) {
	var err error
	if s, ok := c.clock.(clockSyncer); ok {
		err = s.SyncWithRetry(ctx, c.opts.SyncAttempts, c.opts.SyncInterval)
	} else {
		err = clock.WaitForSync(ctx, c.clock, c.opts.SyncAttempts, c.opts.SyncInterval)
	}
	if err != nil {
		c.log.Warnw("clock_sync_failed", "err", err)
		return
	}
	c.log.Infow("clock_synced", "now", c.clock.Now().In(c.opts.Location).Format("2006-01-02 15:04:05 MST"))
}

func (c *ControllerService) logSchedule(s models.Settings) {
	for day, entry := range s.Schedule.Clamp() {
		c.log.Debugw("turnoff_schedule", "day", models.DayNames[day], "hour", entry.Hour, "minute", entry.Minute)
	}
}

func (c *ControllerService) record(ctx context.Context, typ, desc string, meta map[string]any) {
	if err := appendEvent(ctx, c.eventRepo, c.clock.Now(), typ, desc, meta); err != nil {
		c.log.Errorw("relay_event_append_failed", "type", typ, "err", err)
	}
}

// publish copies the scheduler state into the shared view and wakes the
// watchers when something a reader can see has changed.
func (c *ControllerService) publish() {
	sc := c.engine.Context()
	v := controllerView{
		settings:  sc.Settings,
		trigger:   sc.Trigger,
		relayOn:   sc.RelayOn,
		phase:     sc.Phase(),
		mode:      c.mode,
		connected: c.linkUp,
		loc:       sc.Location,
	}
	c.mu.Lock()
	changed := !v.equal(c.view)
	c.view = v
	c.mu.Unlock()

	if changed {
		c.notify()
	}
}

// subscribe registers a watcher. Pending wake-ups coalesce; cancel closes
// the channel.
func (c *ControllerService) subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	c.watchMu.Lock()
	c.watchers[ch] = struct{}{}
	c.watchMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.watchMu.Lock()
			delete(c.watchers, ch)
			close(ch)
			c.watchMu.Unlock()
		})
	}
}

func (c *ControllerService) notify() {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	for ch := range c.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// equal compares the fields shown on /status, except the clock.
func (v controllerView) equal(o controllerView) bool {
	return v.relayOn == o.relayOn &&
		v.phase == o.phase &&
		v.mode == o.mode &&
		v.connected == o.connected &&
		v.trigger.Scheduled == o.trigger.Scheduled &&
		v.trigger.Trigger.Equal(o.trigger.Trigger) &&
		v.trigger.LastFetch.Equal(o.trigger.LastFetch) &&
		v.trigger.LastSunset == o.trigger.LastSunset &&
		v.settings.Configured == o.settings.Configured &&
		v.settings.UpdatedAt.Equal(o.settings.UpdatedAt)
}

func (c *ControllerService) snapshot() controllerView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}
