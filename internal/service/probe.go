package service

import (
	"context"
	"errors"
	"time"

	"sunset_relay/internal/clock"
	"sunset_relay/internal/models"
	"sunset_relay/internal/repository"
	"sunset_relay/internal/scheduler"
	"sunset_relay/internal/sunset"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when probes arrive faster than allowed.
var ErrRateLimited = errors.New("sunset probe rate limited")

type ProbeService struct {
	fetcher      sunset.Fetcher
	settingsRepo repository.SettingsRepo
	clock        clock.Clock
	loc          *time.Location
	limiter      *rate.Limiter
}

// NewProbeService allows perMinute probes per minute with an equal burst;
// perMinute <= 0 disables limiting.
func NewProbeService(fetcher sunset.Fetcher, settingsRepo repository.SettingsRepo, c clock.Clock, loc *time.Location, perMinute int) *ProbeService {
	if c == nil {
		c = clock.System{}
	}
	if loc == nil {
		loc = time.UTC
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
	return &ProbeService{fetcher: fetcher, settingsRepo: settingsRepo, clock: c, loc: loc, limiter: limiter}
}

// ProbeSunset fetches the sunset for p and reports the trigger it would arm
// together with today's turn-off time from the stored schedule.
func (s *ProbeService) ProbeSunset(ctx context.Context, p ProbeParams) (ProbeResult, error) {
	if !s.limiter.Allow() {
		return ProbeResult{}, ErrRateLimited
	}

	raw, err := s.fetcher.Fetch(ctx, p.Lat, p.Lng)
	if err != nil {
		return ProbeResult{}, err
	}
	trigger, err := scheduler.ComputeTrigger(raw, p.Delay, s.loc)
	if err != nil {
		return ProbeResult{}, err
	}

	settings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return ProbeResult{}, err
	}
	day := s.clock.Now().In(s.loc).Weekday()

	return ProbeResult{
		Sunset:   raw,
		Delay:    models.ClampDelay(p.Delay),
		Trigger:  trigger,
		OffDay:   day,
		OffEntry: settings.Schedule.For(day).Clamp(),
		Zone:     s.loc.String(),
	}, nil
}
