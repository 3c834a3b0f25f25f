// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23s17

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// frameLen is the size of one register transaction: command, register
// address and data.
const frameLen = 3

// Bus is one SPI port shared by every Dev addressing a board through it.
//
// A Bus is obtained from Registry.Open and stays open until every holder
// has called Close.
type Bus struct {
	name  string
	speed physic.Frequency
	reg   *Registry

	mu   sync.Mutex
	port spi.PortCloser
	conn spi.Conn
	refs int // guarded by reg.mu
	w, r [frameLen]byte
}

// Transfer sends one command, register, data frame and returns the third
// byte clocked back, which holds the addressed register's content.
//
// There are no retries; a failed exchange is returned as ErrTransfer.
func (b *Bus) Transfer(cmd, register, data byte) (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return 0, fmt.Errorf("%w: %s", ErrClosed, b.name)
	}
	b.w = [frameLen]byte{cmd, register, data}
	b.r = [frameLen]byte{}
	if err := b.conn.Tx(b.w[:], b.r[:]); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrTransfer, b.name, err)
	}
	return b.r[2], nil
}

// Refs returns the number of holders of this Bus.
func (b *Bus) Refs() int {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()
	return b.refs
}

// Speed returns the clock speed the port was connected at.
func (b *Bus) Speed() physic.Frequency {
	return b.speed
}

// Close releases one reference. The underlying port is closed when the last
// reference goes away.
func (b *Bus) Close() error {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()
	return b.reg.release(b)
}

func (b *Bus) String() string {
	return b.name
}

// shutdown closes the port. Called with reg.mu held once refs reaches zero.
func (b *Bus) shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conn = nil
	p := b.port
	b.port = nil
	if p == nil {
		return nil
	}
	return p.Close()
}
