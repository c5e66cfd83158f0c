package service

import (
	"context"
	"time"

	"sunset_relay/internal/clock"
	"sunset_relay/internal/models"
	"sunset_relay/internal/repository"
)

// DefaultRestartDelay separates the save response from the reset.
const DefaultRestartDelay = time.Second

// resetter is the controller side of the configuration service.
type resetter interface {
	RequestReset()
}

type ConfigurationService struct {
	settingsRepo repository.SettingsRepo
	eventRepo    repository.EventRepo
	reset        resetter
	clock        clock.Clock
	delay        time.Duration
	after        func(time.Duration, func()) *time.Timer
}

func NewConfigurationService(settingsRepo repository.SettingsRepo, eventRepo repository.EventRepo, reset resetter, c clock.Clock, delay time.Duration) *ConfigurationService {
	if delay <= 0 {
		delay = DefaultRestartDelay
	}
	if c == nil {
		c = clock.System{}
	}
	return &ConfigurationService{
		settingsRepo: settingsRepo,
		eventRepo:    eventRepo,
		reset:        reset,
		clock:        c,
		delay:        delay,
		after:        time.AfterFunc,
	}
}

// SaveSettings stores s as the configured settings and schedules a
// controller reset once the caller has had time to respond.
func (s *ConfigurationService) SaveSettings(ctx context.Context, in models.Settings) error {
	now := s.clock.Now().UTC()

	in.Configured = true
	in.UpdatedAt = now
	in.SunsetDelayMinutes = models.ClampDelay(in.SunsetDelayMinutes)
	in.Schedule = in.Schedule.Clamp()

	if err := s.settingsRepo.Save(ctx, in); err != nil {
		return err
	}

	if err := appendEvent(ctx, s.eventRepo, now, models.EventConfigSaved, "Configuration saved", map[string]any{
		"ssid":  in.WiFiSSID,
		"lat":   in.Latitude,
		"lng":   in.Longitude,
		"delay": in.SunsetDelayMinutes,
	}); err != nil {
		return err
	}

	if s.reset != nil {
		s.after(s.delay, s.reset.RequestReset)
	}
	return nil
}
