package network

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	defaultInterface       = "wlan0"
	defaultConnectAttempts = 20
	defaultConnectInterval = 500 * time.Millisecond
	defaultStatusInterval  = 5 * time.Second
	statusTimeout          = 2 * time.Second
	hotspotConnection      = "sunset-relay-ap"
)

// runner executes a command and returns its combined output.
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// NMCLI drives NetworkManager through the nmcli tool. Connected answers from
// the last device check until it is older than the status interval.
type NMCLI struct {
	iface          string
	apAddress      string
	attempts       int
	interval       time.Duration
	statusInterval time.Duration
	run            runner
	now            func() time.Time

	mu      sync.Mutex
	ap      bool
	up      bool
	checked time.Time
}

func NewNMCLI(opts Options) *NMCLI {
	n := &NMCLI{
		iface:          opts.Interface,
		apAddress:      opts.APAddress,
		attempts:       opts.ConnectAttempts,
		interval:       opts.ConnectInterval,
		statusInterval: opts.StatusInterval,
		run:            execRunner,
		now:            time.Now,
	}
	if n.iface == "" {
		n.iface = defaultInterface
	}
	if n.apAddress == "" {
		n.apAddress = DefaultAPAddress
	}
	if n.attempts <= 0 {
		n.attempts = defaultConnectAttempts
	}
	if n.interval <= 0 {
		n.interval = defaultConnectInterval
	}
	if n.statusInterval <= 0 {
		n.statusInterval = defaultStatusInterval
	}
	return n
}

// Connect joins ssid and waits until the interface reports connected.
func (n *NMCLI) Connect(ctx context.Context, ssid, password string) error {
	args := []string{"device", "wifi", "connect", ssid, "ifname", n.iface}
	if password != "" {
		args = append(args, "password", password)
	}
	if out, err := n.run(ctx, "nmcli", args...); err != nil {
		return fmt.Errorf("%w: nmcli connect %q: %v: %s", ErrNotConnected, ssid, err, strings.TrimSpace(string(out)))
	}

	for i := 0; i < n.attempts; i++ {
		up := n.deviceState(ctx)
		n.mu.Lock()
		n.up, n.checked = up, n.now()
		if up {
			n.ap = false
		}
		n.mu.Unlock()
		if up {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.interval):
		}
	}
	return fmt.Errorf("%w: %q after %d attempts", ErrNotConnected, ssid, n.attempts)
}

// Connected reports whether the interface is associated as a station.
func (n *NMCLI) Connected() bool {
	n.mu.Lock()
	if n.ap {
		n.mu.Unlock()
		return false
	}
	if !n.checked.IsZero() && n.now().Sub(n.checked) < n.statusInterval {
		up := n.up
		n.mu.Unlock()
		return up
	}
	n.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
	defer cancel()
	up := n.deviceState(ctx)

	n.mu.Lock()
	n.up, n.checked = up, n.now()
	n.mu.Unlock()
	return up
}

func (n *NMCLI) deviceState(ctx context.Context) bool {
	out, err := n.run(ctx, "nmcli", "-t", "-f", "DEVICE,STATE", "device")
	if err != nil {
		return false
	}
	return deviceConnected(string(out), n.iface)
}

// StartAccessPoint brings up a WPA2 hotspot at the fixed gateway address.
func (n *NMCLI) StartAccessPoint(ctx context.Context, ssid, passphrase string) error {
	if out, err := n.run(ctx, "nmcli", "device", "wifi", "hotspot",
		"ifname", n.iface, "con-name", hotspotConnection, "ssid", ssid, "password", passphrase); err != nil {
		return fmt.Errorf("start hotspot %q: %v: %s", ssid, err, strings.TrimSpace(string(out)))
	}
	if out, err := n.run(ctx, "nmcli", "connection", "modify", hotspotConnection,
		"ipv4.method", "shared", "ipv4.addresses", n.apAddress+"/24"); err != nil {
		return fmt.Errorf("set hotspot address %s: %v: %s", n.apAddress, err, strings.TrimSpace(string(out)))
	}
	n.mu.Lock()
	n.ap = true
	n.up = false
	n.mu.Unlock()
	return nil
}

// deviceConnected parses `nmcli -t -f DEVICE,STATE device` output.
func deviceConnected(out, iface string) bool {
	for _, line := range strings.Split(out, "\n") {
		dev, state, ok := strings.Cut(strings.TrimSpace(line), ":")
		if ok && dev == iface {
			return state == "connected"
		}
	}
	return false
}
