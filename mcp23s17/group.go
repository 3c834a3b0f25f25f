// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23s17

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// The internal structure for a group of pins.
type pinGroup struct {
	dev         *Dev
	port        Port
	pins        []*portpin
	defaultMask gpio.GPIOValue
}

// Group returns a gpio.Group made up of the specified pins of port. Bit n of
// the group values maps to pins[n]. nil is returned for an unknown port or
// pin.
//
// A port A group writes all its pins in a single transfer. A port B group
// reads the inputs in a single transfer.
func (d *Dev) Group(port Port, pins ...int) gpio.Group {
	if port != PortA && port != PortB {
		return nil
	}
	grouppins := make([]*portpin, len(pins))
	for ix, number := range pins {
		if number < 0 || number >= numPins {
			return nil
		}
		pp, ok := d.Pins[port][number].(*portpin)
		if !ok {
			return nil
		}
		grouppins[ix] = pp
	}
	defMask := gpio.GPIOValue((1 << len(pins)) - 1)
	return &pinGroup{dev: d, port: port, pins: grouppins, defaultMask: defMask}
}

// Pins returns the set of pin.Pin that make up that group.
func (pg *pinGroup) Pins() []pin.Pin {
	pins := make([]pin.Pin, len(pg.pins))
	for ix, p := range pg.pins {
		pins[ix] = p
	}
	return pins
}

// Given the offset within the group, return the corresponding GPIO pin.
func (pg *pinGroup) ByOffset(offset int) pin.Pin {
	return pg.pins[offset]
}

// Given the specific name of a pin, return it. If it can't be found, nil is
// returned.
func (pg *pinGroup) ByName(name string) pin.Pin {
	for _, p := range pg.pins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// Given the GPIO pin number, return that pin from the set.
func (pg *pinGroup) ByNumber(number int) pin.Pin {
	for _, p := range pg.pins {
		if p.Number() == number {
			return p
		}
	}
	return nil
}

// Out writes value to the specified pins of the output port. If mask is 0,
// the default mask of all pins in the group is used. Pins outside mask keep
// their pending value.
func (pg *pinGroup) Out(value, mask gpio.GPIOValue) error {
	if pg.port != PortA {
		return fmt.Errorf("%w: %s is an input group", ErrNotSupported, pg)
	}
	if mask == 0 {
		mask = pg.defaultMask
	} else {
		mask &= pg.defaultMask
	}
	// Convert the group relative value into the absolute port value.
	wr := uint8(0)
	wrMask := uint8(0)
	for bit := range len(pg.pins) {
		if mask&(1<<bit) != 0 {
			if value&(1<<bit) != 0 {
				wr |= 1 << pg.pins[bit].bit
			}
			wrMask |= 1 << pg.pins[bit].bit
		}
	}
	return pg.dev.outMasked(wr, wrMask)
}

// Read returns the state of the pins in the group. Input groups read the
// inputs, output groups read the outputs back from the chip.
func (pg *pinGroup) Read(mask gpio.GPIOValue) (result gpio.GPIOValue, err error) {
	if mask == 0 {
		mask = pg.defaultMask
	} else {
		mask &= pg.defaultMask
	}
	var v byte
	if pg.port == PortA {
		v, err = pg.dev.ReadOutputs()
	} else {
		v, err = pg.dev.ReadInputs()
	}
	if err != nil {
		return 0, err
	}
	for ix, p := range pg.pins {
		if mask&(1<<ix) != 0 && v&(1<<p.bit) != 0 {
			result |= 1 << ix
		}
	}
	return result, nil
}

// WaitForEdge is not available; the chip interrupt line is not used.
func (pg *pinGroup) WaitForEdge(timeout time.Duration) (number int, edge gpio.Edge, err error) {
	return -1, gpio.NoEdge, gpio.ErrGroupFeatureNotImplemented
}

// Halt implements conn.Resource. There is nothing to interrupt.
func (pg *pinGroup) Halt() error {
	return nil
}

// String returns the device name and configured pins for the group.
func (pg *pinGroup) String() string {
	s := fmt.Sprintf("%s_P%c - [ ", pg.dev, 'A'+rune(pg.port))
	for ix := range len(pg.pins) {
		s += fmt.Sprintf("%d ", pg.pins[ix].Number())
	}
	s += "]"
	return s
}

// outMasked replaces the pending output bits in mask with value and flushes.
func (d *Dev) outMasked(value, mask uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return ErrClosed
	}
	d.outputs = d.outputs&^mask | value&mask
	return d.flush()
}

var _ gpio.Group = &pinGroup{}
