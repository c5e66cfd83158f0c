// Package relay drives the relay output. Every driver is idempotent: setting
// the current level again is a no-op.
package relay

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Driver names accepted by relay.driver.
const (
	DriverGPIO   = "gpio"
	DriverMemory = "memory"
)

// ErrUnknownDriver is returned by New for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown relay driver")

// Driver switches the relay.
type Driver interface {
	Set(on bool) error
	State() bool
}

// Options configures New.
type Options struct {
	Driver    string
	Pin       string
	ActiveLow bool
}

// New builds the driver selected by opts.
func New(opts Options) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverGPIO:
		return NewGPIO(opts.Pin, opts.ActiveLow)
	case DriverMemory, "":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

// Memory is an in-process driver for dry runs and tests.
type Memory struct {
	mu       sync.Mutex
	on       bool
	switches int
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Set(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.on == on {
		return nil
	}
	m.on = on
	m.switches++
	return nil
}

func (m *Memory) State() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.on
}

// Switches counts actual level changes.
func (m *Memory) Switches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.switches
}
