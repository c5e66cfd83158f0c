package service

import (
	"context"
	"time"

	"sunset_relay/internal/clock"
	"sunset_relay/internal/logger"
	"sunset_relay/internal/models"
	"sunset_relay/internal/network"
	"sunset_relay/internal/relay"
	"sunset_relay/internal/repository"
	"sunset_relay/internal/sunset"
)

// Monitoring exposes the read-only controller status.
type Monitoring interface {
	Status(ctx context.Context) (models.RelayStatus, error)
	Changes(ctx context.Context) <-chan struct{}
}

// Configuration persists settings and schedules the controller reset.
type Configuration interface {
	SaveSettings(ctx context.Context, s models.Settings) error
}

// SunsetProbe runs an ad-hoc fetch that never touches scheduler state.
type SunsetProbe interface {
	ProbeSunset(ctx context.Context, p ProbeParams) (ProbeResult, error)
}

// EventLog exposes the append-only relay event log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.RelayEvent, error)
}

// Controller runs the relay control loop.
// Stop via context cancellation in main() for graceful shutdown.
type Controller interface {
	Run(ctx context.Context, tick time.Duration)
	RequestReset()
}

// Service aggregates all sub-services.
type Service struct {
	Monitoring
	Configuration
	SunsetProbe
	EventLog
	Controller
}

// Deps are the hardware and network collaborators of the controller.
type Deps struct {
	Fetcher sunset.Fetcher
	Driver  relay.Driver
	Link    network.Link
	Clock   clock.Clock
	Log     *logger.Logger
}

// Options tunes the services.
type Options struct {
	Controller     ControllerOptions
	RestartDelay   time.Duration
	ProbePerMinute int
}

// NewService wires the repository layer and devices into concrete services.
func NewService(repos *repository.Repository, deps Deps, opts Options) *Service {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	ctrl := NewControllerService(repos.Settings, repos.Events, deps, opts.Controller)
	return &Service{
		Monitoring:    NewMonitoringService(ctrl, deps.Clock),
		Configuration: NewConfigurationService(repos.Settings, repos.Events, ctrl, deps.Clock, opts.RestartDelay),
		SunsetProbe:   NewProbeService(deps.Fetcher, repos.Settings, deps.Clock, opts.Controller.Location, opts.ProbePerMinute),
		EventLog:      NewEventLogService(repos.Events),
		Controller:    ctrl,
	}
}
