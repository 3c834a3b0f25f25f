// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23s17

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// Opener opens an SPI port by name. spireg.Open is the default.
type Opener func(name string) (spi.PortCloser, error)

// Registry maps SPI port names to the shared Bus open on them.
//
// It replaces a process wide table: applications create one Registry and
// pass it to every New call that should share ports.
type Registry struct {
	open Opener

	mu    sync.Mutex
	buses map[string]*Bus
}

// NewRegistry returns an empty Registry. A nil open uses spireg.Open, which
// requires host.Init() to have been called.
func NewRegistry(open Opener) *Registry {
	if open == nil {
		open = spireg.Open
	}
	return &Registry{open: open, buses: map[string]*Bus{}}
}

// BusName returns the spireg name of the port at bus and chip-select cs,
// which is the port exposed as /dev/spidev<bus>.<cs> on Linux.
func BusName(bus, cs int) string {
	return fmt.Sprintf("SPI%d.%d", bus, cs)
}

// PortName returns the canonical name of an SPI port. A Linux device path
// /dev/spidev<bus>.<cs> maps to BusName(bus, cs) so both spellings share one
// Bus. Other names are returned as is.
func PortName(name string) string {
	var bus, cs int
	if _, err := fmt.Sscanf(name, "/dev/spidev%d.%d", &bus, &cs); err == nil {
		if fmt.Sprintf("/dev/spidev%d.%d", bus, cs) == name {
			return BusName(bus, cs)
		}
	}
	return name
}

// Open returns the Bus for the named port, opening and connecting it on
// first use. The name goes through PortName first. Later calls for the same
// port return the same Bus with one more reference; speed is only honoured
// by the first call.
//
// Every successful Open must be balanced by a Bus.Close.
func (r *Registry) Open(name string, speed physic.Frequency) (*Bus, error) {
	name = PortName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.buses[name]; ok {
		r.acquire(b)
		return b, nil
	}
	p, err := r.open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceUnavailable, name, err)
	}
	// The MCP23S17 supports SPI modes 0,0 and 1,1.
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceUnavailable, name, err)
	}
	b := &Bus{name: name, speed: speed, reg: r, port: p, conn: c, refs: 1}
	r.buses[name] = b
	return b, nil
}

// Len returns the number of open ports.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buses)
}

// acquire and release must be called with r.mu held.
func (r *Registry) acquire(b *Bus) {
	b.refs++
}

func (r *Registry) release(b *Bus) error {
	if b.refs <= 0 || r.buses[b.name] != b {
		return fmt.Errorf("%w: %s", ErrClosed, b.name)
	}
	b.refs--
	if b.refs > 0 {
		return nil
	}
	delete(r.buses, b.name)
	return b.shutdown()
}
