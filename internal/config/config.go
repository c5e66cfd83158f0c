// Package config loads the service configuration with viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "SUNSET_RELAY"

type Config struct {
	Port      string          `mapstructure:"port"`
	LogLevel  string          `mapstructure:"log_level"`
	DB        DBConfig        `mapstructure:"db"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Sunset    SunsetConfig    `mapstructure:"sunset"`
	Relay     RelayConfig     `mapstructure:"relay"`
	Network   NetworkConfig   `mapstructure:"network"`
	Clock     ClockConfig     `mapstructure:"clock"`
}

type DBConfig struct {
	Path   string `mapstructure:"path"`
	Secret string `mapstructure:"secret"`
}

type SchedulerConfig struct {
	Tick             time.Duration `mapstructure:"tick"`
	UTCOffsetSeconds int           `mapstructure:"utc_offset_seconds"`
	ZoneLabel        string        `mapstructure:"zone_label"`
	RefreshInterval  time.Duration `mapstructure:"refresh_interval"`
	RestartDelay     time.Duration `mapstructure:"restart_delay"`
}

type SunsetConfig struct {
	Source         string        `mapstructure:"source"`
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	ProbePerMinute int           `mapstructure:"probe_per_minute"`
}

type RelayConfig struct {
	Driver    string `mapstructure:"driver"`
	Pin       string `mapstructure:"pin"`
	ActiveLow bool   `mapstructure:"active_low"`
}

type NetworkConfig struct {
	Driver          string        `mapstructure:"driver"`
	Interface       string        `mapstructure:"interface"`
	APSSID          string        `mapstructure:"ap_ssid"`
	APPassphrase    string        `mapstructure:"ap_passphrase"`
	APAddress       string        `mapstructure:"ap_address"`
	ConnectAttempts int           `mapstructure:"connect_attempts"`
	ConnectInterval time.Duration `mapstructure:"connect_interval"`
	StatusInterval  time.Duration `mapstructure:"status_interval"`
}

type ClockConfig struct {
	NTPServer    string        `mapstructure:"ntp_server"`
	SyncAttempts int           `mapstructure:"sync_attempts"`
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")

	v.SetDefault("db.path", "sunset-relay.db")
	v.SetDefault("db.secret", "")

	v.SetDefault("scheduler.tick", 100*time.Millisecond)
	v.SetDefault("scheduler.utc_offset_seconds", -6*3600)
	v.SetDefault("scheduler.zone_label", "CST")
	v.SetDefault("scheduler.refresh_interval", 24*time.Hour)
	v.SetDefault("scheduler.restart_delay", time.Second)

	v.SetDefault("sunset.source", "api")
	v.SetDefault("sunset.base_url", "https://api.sunrise-sunset.org")
	v.SetDefault("sunset.timeout", 10*time.Second)
	v.SetDefault("sunset.probe_per_minute", 6)

	v.SetDefault("relay.driver", "memory")
	v.SetDefault("relay.pin", "GPIO2")
	v.SetDefault("relay.active_low", false)

	v.SetDefault("network.driver", "host")
	v.SetDefault("network.interface", "wlan0")
	v.SetDefault("network.ap_ssid", "SunsetRelay-Setup")
	v.SetDefault("network.ap_passphrase", "12345678")
	v.SetDefault("network.ap_address", "192.168.4.1")
	v.SetDefault("network.connect_attempts", 20)
	v.SetDefault("network.connect_interval", 500*time.Millisecond)
	v.SetDefault("network.status_interval", 5*time.Second)

	v.SetDefault("clock.ntp_server", "")
	v.SetDefault("clock.sync_attempts", 20)
	v.SetDefault("clock.sync_interval", 500*time.Millisecond)
}

// Load reads file (or configs/config.yml when empty), applies
// SUNSET_RELAY_* environment overrides and decodes the result. A missing
// default config file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Scheduler.Tick <= 0 {
		return fmt.Errorf("scheduler.tick must be positive, got %s", c.Scheduler.Tick)
	}
	const day = 24 * 3600
	if c.Scheduler.UTCOffsetSeconds <= -day || c.Scheduler.UTCOffsetSeconds >= day {
		return fmt.Errorf("scheduler.utc_offset_seconds out of range: %d", c.Scheduler.UTCOffsetSeconds)
	}
	if len(c.Network.APPassphrase) < 8 {
		return errors.New("network.ap_passphrase must be at least 8 characters")
	}
	return nil
}
