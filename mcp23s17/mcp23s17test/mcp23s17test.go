// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp23s17test simulates MCP23S17 chips on an SPI port, for tests of
// code built on package mcp23s17 without hardware.
//
// Chip models up to eight chips sharing one chip-select with hardware
// addressing enabled, keeping a register bank per chip and recording every
// frame. Host serves Chips by port name and can be passed as the opener of
// mcp23s17.NewRegistry.
package mcp23s17test

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Frame is one recorded 3 byte register transaction.
type Frame struct {
	Cmd, Reg, Data byte
}

// Chip implements spi.PortCloser and spi.Conn.
type Chip struct {
	mu         sync.Mutex
	regs       [8][0x16]byte
	frames     []Frame
	connects   int
	closes     int
	speed      physic.Frequency
	connectErr error
	txErr      error
}

func (c *Chip) String() string {
	return "mcp23s17test.Chip"
}

// Connect implements spi.Port.
func (c *Chip) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connectErr != nil {
		return nil, c.connectErr
	}
	if mode != spi.Mode0 || bits != 8 {
		return nil, fmt.Errorf("mcp23s17test: unexpected mode %v bits %d", mode, bits)
	}
	c.connects++
	c.speed = f
	return c, nil
}

// LimitSpeed implements spi.Port.
func (c *Chip) LimitSpeed(f physic.Frequency) error {
	return nil
}

// Close implements io.Closer.
func (c *Chip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

// Tx implements conn.Conn. Reads and writes both return the register's
// previous content in the third byte.
func (c *Chip) Tx(w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.txErr != nil {
		return c.txErr
	}
	if len(w) != 3 || len(r) != 3 {
		return fmt.Errorf("mcp23s17test: bad frame length %d/%d", len(w), len(r))
	}
	if w[0]&0xF0 != 0x40 {
		return fmt.Errorf("mcp23s17test: bad opcode 0x%02x", w[0])
	}
	if int(w[1]) >= len(c.regs[0]) {
		return fmt.Errorf("mcp23s17test: bad register 0x%02x", w[1])
	}
	c.frames = append(c.frames, Frame{w[0], w[1], w[2]})
	board := (w[0] >> 1) & 0x07
	r[0], r[1] = 0xFF, 0xFF
	r[2] = c.regs[board][w[1]]
	if w[0]&0x01 == 0 {
		c.regs[board][w[1]] = w[2]
	}
	return nil
}

// Duplex implements conn.Conn.
func (c *Chip) Duplex() conn.Duplex {
	return conn.Full
}

// TxPackets implements spi.Conn.
func (c *Chip) TxPackets(p []spi.Packet) error {
	return errors.New("mcp23s17test: TxPackets not implemented")
}

// Set sets a register of board, as if driven from outside.
func (c *Chip) Set(board int, register uint8, value byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[board][register] = value
}

// Get returns a register of board.
func (c *Chip) Get(board int, register uint8) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[board][register]
}

// Frames returns a copy of the recorded frames.
func (c *Chip) Frames() []Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Frame(nil), c.frames...)
}

// Reset forgets the recorded frames.
func (c *Chip) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

// Connects returns the number of Connect calls.
func (c *Chip) Connects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects
}

// Closes returns the number of Close calls.
func (c *Chip) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// Speed returns the frequency passed to the last Connect.
func (c *Chip) Speed() physic.Frequency {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// FailConnect makes Connect return err. nil restores it.
func (c *Chip) FailConnect(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connectErr = err
}

// FailTx makes Tx return err. nil restores it.
func (c *Chip) FailTx(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.txErr = err
}

// Host serves Chips by SPI port name.
type Host struct {
	mu    sync.Mutex
	Chips map[string]*Chip
	opens int
}

// NewHost returns a Host with one fresh Chip per name.
func NewHost(names ...string) *Host {
	h := &Host{Chips: map[string]*Chip{}}
	for _, n := range names {
		h.Chips[n] = &Chip{}
	}
	return h
}

// Open returns the Chip registered as name. It has the signature of
// spireg.Open.
func (h *Host) Open(name string) (spi.PortCloser, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.opens++
	c, ok := h.Chips[name]
	if !ok {
		return nil, fmt.Errorf("mcp23s17test: %s: no such device", name)
	}
	return c, nil
}

// Opens returns the number of Open calls.
func (h *Host) Opens() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.opens
}

var _ spi.PortCloser = &Chip{}
var _ spi.Conn = &Chip{}
