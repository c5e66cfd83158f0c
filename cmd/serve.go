package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "sunset_relay/docs"
	"sunset_relay/internal/clock"
	"sunset_relay/internal/config"
	"sunset_relay/internal/handlers"
	"sunset_relay/internal/logger"
	"sunset_relay/internal/network"
	"sunset_relay/internal/relay"
	"sunset_relay/internal/repository"
	"sunset_relay/internal/repository/db"
	"sunset_relay/internal/scheduler"
	"sunset_relay/internal/server"
	"sunset_relay/internal/service"
	"sunset_relay/internal/sunset"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay controller and HTTP interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		serve(cfg)
		return nil
	},
}

func serve(cfg *config.Config) {
	log := logger.Get(cfg.LogLevel)
	if cfg.LogLevel != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	loc := scheduler.FixedZone(cfg.Scheduler.ZoneLabel, cfg.Scheduler.UTCOffsetSeconds)
	clk := newClock(cfg)

	fetcher, err := newFetcher(cfg, clk, loc)
	if err != nil {
		log.Fatalw("invalid sunset source", "err", err)
	}
	driver, err := relay.New(relay.Options{
		Driver:    cfg.Relay.Driver,
		Pin:       cfg.Relay.Pin,
		ActiveLow: cfg.Relay.ActiveLow,
	})
	if err != nil {
		log.Fatalw("failed to init relay", "err", err, "driver", cfg.Relay.Driver, "pin", cfg.Relay.Pin)
	}
	link, err := network.New(network.Options{
		Driver:          cfg.Network.Driver,
		Interface:       cfg.Network.Interface,
		APAddress:       cfg.Network.APAddress,
		ConnectAttempts: cfg.Network.ConnectAttempts,
		ConnectInterval: cfg.Network.ConnectInterval,
		StatusInterval:  cfg.Network.StatusInterval,
	})
	if err != nil {
		log.Fatalw("failed to init network", "err", err, "driver", cfg.Network.Driver)
	}

	// wire dependencies
	repos := repository.NewRepository(conn, repository.NewSealer(cfg.DB.Secret))
	services := service.NewService(repos, service.Deps{
		Fetcher: fetcher,
		Driver:  driver,
		Link:    link,
		Clock:   clk,
		Log:     log,
	}, service.Options{
		Controller: service.ControllerOptions{
			Location:        loc,
			RefreshInterval: cfg.Scheduler.RefreshInterval,
			APSSID:          cfg.Network.APSSID,
			APPassphrase:    cfg.Network.APPassphrase,
			SyncAttempts:    cfg.Clock.SyncAttempts,
			SyncInterval:    cfg.Clock.SyncInterval,
		},
		RestartDelay:   cfg.Scheduler.RestartDelay,
		ProbePerMinute: cfg.Sunset.ProbePerMinute,
	})
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controllerDone := make(chan struct{})
	go func() {
		defer close(controllerDone)
		services.Controller.Run(ctx, cfg.Scheduler.Tick)
	}()

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)
	log.Infow("sunset relay started", "port", cfg.Port, "zone", loc.String(), "relay", cfg.Relay.Driver, "network", cfg.Network.Driver)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
	<-controllerDone
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DB.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "sunset-relay.db")
		path = "sunset-relay.db"
	}
	return db.InitDB(path)
}

func newClock(cfg *config.Config) clock.Clock {
	if cfg.Clock.NTPServer == "" {
		return clock.System{}
	}
	return clock.NewNTP(cfg.Clock.NTPServer)
}

func newFetcher(cfg *config.Config, clk clock.Clock, loc *time.Location) (sunset.Fetcher, error) {
	return sunset.New(cfg.Sunset.Source,
		sunset.NewAPIClient(cfg.Sunset.BaseURL, cfg.Sunset.Timeout),
		sunset.NewSolarCalculator(clk.Now, loc),
	)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the controller; it drives the relay OFF on exit
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
