// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23s17

import (
	"github.com/GermanBionicSystems/piface-devices/mcp23s17/mcp23s17test"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

type frame = mcp23s17test.Frame

// newHost returns a simulated host with one chip on SPI0.0.
func newHost() (*mcp23s17test.Host, *mcp23s17test.Chip, *Registry) {
	host := mcp23s17test.NewHost("SPI0.0")
	return host, host.Chips["SPI0.0"], NewRegistry(host.Open)
}

// playbackPort counts Close calls on a spitest.Playback.
type playbackPort struct {
	spitest.Playback
	closes int
}

func (p *playbackPort) Close() error {
	p.closes++
	return p.Playback.Close()
}

func newPlayback(ops ...conntest.IO) *playbackPort {
	return &playbackPort{Playback: spitest.Playback{Playback: conntest.Playback{Ops: ops, DontPanic: true}}}
}

func (p *playbackPort) opener() Opener {
	return func(name string) (spi.PortCloser, error) {
		return p, nil
	}
}

// wr is a write transaction expected by a playback.
func wr(board int, register uint8, data byte) conntest.IO {
	return conntest.IO{W: []byte{writeCmd(board), register, data}, R: []byte{0, 0, 0}}
}

// rd is a read transaction returning value.
func rd(board int, register uint8, value byte) conntest.IO {
	return conntest.IO{W: []byte{readCmd(board), register, 0}, R: []byte{0, 0, value}}
}

