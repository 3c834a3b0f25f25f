// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23s17

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	devName = "MCP23S17"
	// MaxBoards is the number of hardware addresses on one chip-select.
	MaxBoards = 8
	numPins   = 8
)

var (
	// ErrInvalidAddress is returned when a board address is not 0 to 7.
	ErrInvalidAddress = errors.New("mcp23s17: invalid board address")
	// ErrDeviceUnavailable is returned when the SPI port cannot be opened.
	ErrDeviceUnavailable = errors.New("mcp23s17: device unavailable")
	// ErrTransfer is returned when a register transaction fails.
	ErrTransfer = errors.New("mcp23s17: transfer failed")
	// ErrClosed is returned when using a Dev or Bus after Close.
	ErrClosed = errors.New("mcp23s17: closed")
)

// Port selects one of the two 8 bit ports of the chip.
type Port int

const (
	PortA Port = 0 // Outputs.
	PortB Port = 1 // Inputs.
)

// Opts holds the configuration options for the device.
type Opts struct {
	// Board is the hardware address of the board, 0 to 7.
	Board int
	// PullUps is the port B pull-up mask. Default is 0xFF, all enabled.
	PullUps byte
	// ReadPolarity is the input bit state considered ON. Default is 0x00 since
	// PiFace inputs switch to ground against the pull-ups.
	ReadPolarity byte
	// WritePolarity is the output bit state considered ON. Default is 0xFF.
	WritePolarity byte
	// SkipInit leaves the chip configuration untouched. Use it to attach to a
	// board another program already set up.
	SkipInit bool
	// Bus and ChipSelect select the SPI port, SPI<Bus>.<ChipSelect>.
	Bus        int
	ChipSelect int
	// Device names the SPI port explicitly, e.g. "/dev/spidev0.1". It
	// overrides Bus and ChipSelect. "/dev/spidev0.1" and Bus 0, ChipSelect 1
	// share the same Bus.
	Device string
	// Speed is the SPI clock. Default is 10MHz, the chip maximum. Only the
	// first board opened on a port sets it.
	Speed physic.Frequency
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	PullUps:       0xFF,
	ReadPolarity:  0x00,
	WritePolarity: 0xFF,
	Speed:         10 * physic.MegaHertz,
}

// Dev is one MCP23S17 board on a shared Bus.
//
// Port A is driven as eight outputs and port B read as eight inputs. Values
// seen by callers always have 1 meaning ON; the configured polarities are
// applied on every transfer.
type Dev struct {
	// Pins is structured as [port][pin]. Port A pins are outputs, port B
	// pins inputs.
	Pins [2][]gpio.PinIO

	board    int
	name     string
	readPol  byte
	writePol byte

	mu      sync.Mutex
	bus     *Bus
	inputs  byte // last read inputs, ON = 1
	outputs byte // pending outputs, ON = 1
	gpioa   registerCache
	gpiob   registerCache
	gppub   registerCache
}

// New opens the board described by opts on a Bus obtained from reg. The Opts
// can be nil; reg cannot.
//
// Unless opts.SkipInit is set the chip is configured: hardware addressing
// enabled, port A all outputs, port B all inputs with opts.PullUps. The
// current outputs and inputs are then read back so that the first Write of
// an unchanged value is suppressed.
func New(reg *Registry, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Board < 0 || opts.Board >= MaxBoards {
		return nil, fmt.Errorf("%w %d: must be 0 to 7", ErrInvalidAddress, opts.Board)
	}
	if reg == nil {
		return nil, fmt.Errorf("%w: nil Registry", ErrDeviceUnavailable)
	}
	speed := opts.Speed
	if speed <= 0 {
		speed = DefaultOpts.Speed
	}
	port := opts.Device
	if port == "" {
		port = BusName(opts.Bus, opts.ChipSelect)
	}
	bus, err := reg.Open(port, speed)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		board:    opts.Board,
		name:     fmt.Sprintf("%s_%s_%d", devName, bus, opts.Board),
		readPol:  polarityMask(opts.ReadPolarity),
		writePol: polarityMask(opts.WritePolarity),
		bus:      bus,
		gpioa:    newRegister(bus, opts.Board, regGPIOA),
		gpiob:    newRegister(bus, opts.Board, regGPIOB),
		gppub:    newRegister(bus, opts.Board, regGPPUB),
	}
	if err := d.init(opts); err != nil {
		_ = bus.Close()
		return nil, err
	}
	d.Pins[PortA] = d.pins(PortA)
	d.Pins[PortB] = d.pins(PortB)
	return d, nil
}

func (d *Dev) init(opts *Opts) error {
	if !opts.SkipInit {
		var initRegisters = []struct {
			address uint8
			value   uint8
		}{
			{regIOCON, ioconHAEN},
			{regIODIRA, 0x00},
			{regIODIRB, 0xFF},
		}
		for _, ir := range initRegisters {
			r := newRegister(d.bus, d.board, ir.address)
			if err := r.writeValue(ir.value, false); err != nil {
				return err
			}
		}
		if err := d.gppub.writeValue(opts.PullUps, false); err != nil {
			return err
		}
	}
	v, err := d.readOutputs()
	if err != nil {
		return err
	}
	d.outputs = v
	_, err = d.readInputs()
	return err
}

// Board returns the hardware address of the board.
func (d *Dev) Board() int {
	return d.board
}

// ReadInputs reads port B and returns it. It always performs a transfer.
func (d *Dev) ReadInputs() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return 0, ErrClosed
	}
	return d.readInputs()
}

func (d *Dev) readInputs() (byte, error) {
	v, err := d.gpiob.readValue(false)
	if err != nil {
		return 0, err
	}
	d.inputs = v ^ d.readPol
	return d.inputs, nil
}

// Inputs returns the value of the last ReadInputs.
func (d *Dev) Inputs() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustBeOpen()
	return d.inputs
}

// ReadPin returns bit pin of the last ReadInputs, without a transfer.
func (d *Dev) ReadPin(pin int) bool {
	checkPin(pin)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustBeOpen()
	return d.inputs&(1<<pin) != 0
}

// Write sets the outputs to value. Nothing is sent if value is what the
// outputs already hold.
func (d *Dev) Write(value byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return ErrClosed
	}
	d.outputs = value
	return d.flush()
}

// Flush writes the pending outputs set by WritePin. Nothing is sent if they
// did not change.
func (d *Dev) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return ErrClosed
	}
	return d.flush()
}

func (d *Dev) flush() error {
	return d.gpioa.writeValue(d.outputs^d.writePol, true)
}

// WritePin sets or clears bit pin of the pending outputs. Call Flush to send
// them.
func (d *Dev) WritePin(pin int, on bool) {
	checkPin(pin)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustBeOpen()
	if on {
		d.outputs |= 1 << pin
	} else {
		d.outputs &^= 1 << pin
	}
}

// Outputs returns the pending outputs, which may not be flushed yet.
func (d *Dev) Outputs() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustBeOpen()
	return d.outputs
}

// ReadOutputs reads port A back from the chip. The result becomes the
// reference for write suppression. The pending outputs are left as is.
func (d *Dev) ReadOutputs() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return 0, ErrClosed
	}
	return d.readOutputs()
}

func (d *Dev) readOutputs() (byte, error) {
	v, err := d.gpioa.readValue(false)
	if err != nil {
		return 0, err
	}
	return v ^ d.writePol, nil
}

// LastOutputs returns the outputs last written to or read from the chip.
func (d *Dev) LastOutputs() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mustBeOpen()
	return d.gpioa.cache ^ d.writePol
}

// ReadOutputPin returns bit pin of LastOutputs.
func (d *Dev) ReadOutputPin(pin int) bool {
	checkPin(pin)
	return d.LastOutputs()&(1<<pin) != 0
}

// Close releases the Bus. The SPI port is closed with the last board using
// it.
func (d *Dev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return ErrClosed
	}
	err := d.bus.Close()
	d.bus = nil
	return err
}

// Halt implements conn.Resource. The outputs keep their state.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	return d.name
}

func (d *Dev) setPullUp(bit uint8, on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bus == nil {
		return ErrClosed
	}
	return d.gppub.setBit(bit, on, true)
}

// mustBeOpen panics when d is closed. Must be called with d.mu held.
func (d *Dev) mustBeOpen() {
	if d.bus == nil {
		panic(fmt.Sprintf("%s: %v", d.name, ErrClosed))
	}
}

func checkPin(pin int) {
	if pin < 0 || pin >= numPins {
		panic(fmt.Sprintf("mcp23s17: pin %d out of range 0 to 7", pin))
	}
}

var _ conn.Resource = &Dev{}
