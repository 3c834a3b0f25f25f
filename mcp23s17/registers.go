// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23s17

// Register addresses with IOCON.BANK=0.
const (
	regIODIRA uint8 = 0  // I/O direction A
	regIODIRB uint8 = 1  // I/O direction B
	regIOCON  uint8 = 10 // I/O config
	regGPPUB  uint8 = 13 // port B pull-ups
	regGPIOA  uint8 = 18 // port A pins (outputs)
	regGPIOB  uint8 = 19 // port B pins (inputs)
)

const (
	opcode    byte = 0x40 // 0 1 0 0 A2 A1 A0 R/W
	readFlag  byte = 0x01
	ioconHAEN byte = 0x08 // hardware address enable
)

// writeCmd returns the command byte addressing board for a register write.
func writeCmd(board int) byte {
	return opcode | byte(board<<1)
}

// readCmd returns the command byte addressing board for a register read.
func readCmd(board int) byte {
	return writeCmd(board) | readFlag
}

// polarityMask turns a configured "ON" state mask into the mask XORed with
// raw register values, so that ON is always a 1 bit to callers.
func polarityMask(on byte) byte {
	return ^on
}

type registerCache struct {
	bus     *Bus
	board   int
	address uint8
	got     bool
	cache   uint8
}

func newRegister(bus *Bus, board int, address uint8) registerCache {
	return registerCache{
		bus:     bus,
		board:   board,
		address: address,
		got:     false,
	}
}

func (r *registerCache) readRegister() (uint8, error) {
	return r.bus.Transfer(readCmd(r.board), r.address, 0)
}

func (r *registerCache) writeRegister(value uint8) error {
	_, err := r.bus.Transfer(writeCmd(r.board), r.address, value)
	return err
}

func (r *registerCache) readValue(cached bool) (uint8, error) {
	if cached && r.got {
		return r.cache, nil
	}
	v, err := r.readRegister()
	if err != nil {
		return 0, err
	}
	r.got = true
	r.cache = v
	return v, nil
}

// writeValue writes value to the register. When cached is set and value
// matches the last value read or written, no transfer happens.
func (r *registerCache) writeValue(value uint8, cached bool) error {
	if cached && r.got && value == r.cache {
		return nil
	}
	if err := r.writeRegister(value); err != nil {
		return err
	}
	r.got = true
	r.cache = value
	return nil
}

func (r *registerCache) setBit(bit uint8, value bool, cached bool) error {
	v, err := r.readValue(cached)
	if err != nil {
		return err
	}
	if value {
		v |= 1 << bit
	} else {
		v &^= 1 << bit
	}
	return r.writeValue(v, cached)
}
