// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23s17

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// ErrNotSupported is returned by pin operations the board wiring does not
// allow, like driving an input or edge detection.
var ErrNotSupported = errors.New("mcp23s17: not supported")

// portpin is one bit of a port as a gpio.PinIO. Port A pins only drive,
// port B pins only sense.
type portpin struct {
	dev  *Dev
	port Port
	bit  uint8
}

func (d *Dev) pins(port Port) []gpio.PinIO {
	result := make([]gpio.PinIO, numPins)
	for i := range numPins {
		result[i] = &portpin{dev: d, port: port, bit: uint8(i)}
	}
	return result
}

func (p *portpin) String() string {
	return p.Name()
}

// Halt implements conn.Resource. Outputs keep their level.
func (p *portpin) Halt() error {
	return nil
}

func (p *portpin) Name() string {
	if p.port == PortA {
		return fmt.Sprintf("%s_GPA%d", p.dev.name, p.bit)
	}
	return fmt.Sprintf("%s_GPB%d", p.dev.name, p.bit)
}

func (p *portpin) Number() int {
	return int(p.bit)
}

// Deprecated: use Func.
func (p *portpin) Function() string {
	return string(p.Func())
}

// In updates the pull-up of an input pin. Only gpio.PullUp, gpio.Float and
// gpio.PullNoChange are available and edges cannot be detected.
func (p *portpin) In(pull gpio.Pull, edge gpio.Edge) error {
	if p.port != PortB {
		return fmt.Errorf("%w: %s is an output", ErrNotSupported, p)
	}
	if edge != gpio.NoEdge {
		return fmt.Errorf("%w: edge detection on %s", ErrNotSupported, p)
	}
	switch pull {
	case gpio.PullUp:
		return p.dev.setPullUp(p.bit, true)
	case gpio.Float:
		return p.dev.setPullUp(p.bit, false)
	case gpio.PullNoChange:
		return nil
	default:
		return fmt.Errorf("%w: %s on %s", ErrNotSupported, pull, p)
	}
}

// Read returns the level of the pin read from the chip. Outputs are read back
// like ReadOutputs does. Errors read as gpio.Low.
func (p *portpin) Read() gpio.Level {
	var v byte
	var err error
	if p.port == PortA {
		v, err = p.dev.ReadOutputs()
	} else {
		v, err = p.dev.ReadInputs()
	}
	if err != nil {
		return gpio.Low
	}
	return gpio.Level(v&(1<<p.bit) != 0)
}

func (p *portpin) WaitForEdge(timeout time.Duration) bool {
	return false
}

func (p *portpin) Pull() gpio.Pull {
	if p.port == PortA {
		return gpio.Float
	}
	on, known := p.dev.pullUp(p.bit)
	switch {
	case !known:
		return gpio.PullNoChange
	case on:
		return gpio.PullUp
	default:
		return gpio.Float
	}
}

func (p *portpin) DefaultPull() gpio.Pull {
	return gpio.Float
}

// Out sets the output and flushes it to the chip.
func (p *portpin) Out(l gpio.Level) error {
	if p.port != PortA {
		return fmt.Errorf("%w: %s is an input", ErrNotSupported, p)
	}
	return p.dev.out(p.bit, l == gpio.High)
}

func (p *portpin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return fmt.Errorf("%w: PWM on %s", ErrNotSupported, p)
}

func (p *portpin) Func() pin.Func {
	if p.port == PortA {
		return gpio.OUT
	}
	return gpio.IN
}

func (p *portpin) SupportedFuncs() []pin.Func {
	return []pin.Func{p.Func()}
}

// SetFunc only accepts the fixed function of the pin.
func (p *portpin) SetFunc(f pin.Func) error {
	if f != p.Func() {
		return fmt.Errorf("%w: function %s on %s", ErrNotSupported, f, p)
	}
	return nil
}

// out sets one pending output bit and flushes.
func (d *Dev) out(bit uint8, on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return ErrClosed
	}
	if on {
		d.outputs |= 1 << bit
	} else {
		d.outputs &^= 1 << bit
	}
	return d.flush()
}

// pullUp returns the pull-up bit if the register value is known.
func (d *Dev) pullUp(bit uint8) (on, known bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gppub.cache&(1<<bit) != 0, d.gppub.got
}

var _ gpio.PinIO = &portpin{}
