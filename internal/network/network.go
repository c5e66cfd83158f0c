// Package network manages station association and the provisioning access
// point.
package network

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Driver names accepted by network.driver.
const (
	DriverHost  = "host"
	DriverNMCLI = "nmcli"
)

// Provisioning access point defaults.
const (
	DefaultAPSSID       = "SunsetRelay-Setup"
	DefaultAPPassphrase = "12345678"
	DefaultAPAddress    = "192.168.4.1"
)

var (
	ErrNotConnected  = errors.New("network not connected")
	ErrUnknownDriver = errors.New("unknown network driver")
)

// Link is the device's network uplink.
type Link interface {
	Connect(ctx context.Context, ssid, password string) error
	Connected() bool
	StartAccessPoint(ctx context.Context, ssid, passphrase string) error
}

// Options configures New.
type Options struct {
	Driver          string
	Interface       string
	APAddress       string
	ConnectAttempts int
	ConnectInterval time.Duration
	StatusInterval  time.Duration
}

// New builds the link selected by opts.
func New(opts Options) (Link, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverHost, "":
		return &Host{}, nil
	case DriverNMCLI:
		return NewNMCLI(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

// Host leaves networking to the operating system and reports it as always up.
type Host struct{}

func (*Host) Connect(context.Context, string, string) error { return nil }

func (*Host) Connected() bool { return true }

func (*Host) StartAccessPoint(context.Context, string, string) error { return nil }
