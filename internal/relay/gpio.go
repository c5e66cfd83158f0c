package relay

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// GPIO drives a relay module wired to a single GPIO pin.
type GPIO struct {
	mu        sync.Mutex
	pin       gpio.PinOut
	activeLow bool
	on        bool
	known     bool
}

// NewGPIO initialises the host drivers and looks up the pin by name
// (e.g. "GPIO17"). The pin is not touched until the first Set.
func NewGPIO(name string, activeLow bool) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio pin %q not found", name)
	}
	return &GPIO{pin: p, activeLow: activeLow}, nil
}

func (g *GPIO) Set(on bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.known && g.on == on {
		return nil
	}
	if err := g.pin.Out(g.level(on)); err != nil {
		return fmt.Errorf("drive pin %s: %w", g.pin, err)
	}
	g.on = on
	g.known = true
	return nil
}

func (g *GPIO) State() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.on
}

func (g *GPIO) level(on bool) gpio.Level {
	if g.activeLow {
		return gpio.Level(!on)
	}
	return gpio.Level(on)
}
