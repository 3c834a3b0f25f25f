// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package piface provides the classic PiFace Digital function interface over
// all eight board addresses of one SPI port: DigitalRead, DigitalWrite,
// ReadInput, ReadOutput and WriteOutput, each taking a board number.
//
// New code should use package mcp23s17 directly; this package exists for
// programs written against the pifaceio module level functions.
//
// Unlike pifaceio, boards are never opened implicitly on first use: Init
// opens all of them up front and Close releases them. Calls on a Boards that
// was not returned by Init, or was closed, fail with mcp23s17.ErrClosed.
package piface

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/piface-devices/mcp23s17"
)

// ErrInvalidPin is returned for a pin number outside 0 to 7.
var ErrInvalidPin = errors.New("piface: invalid pin")

// Boards is the set of eight boards on one SPI port.
type Boards struct {
	devs [mcp23s17.MaxBoards]*mcp23s17.Dev
}

// Init opens boards 0 to 7 with opts, ignoring opts.Board. The Opts can be
// nil. Unless opts.SkipInit is set every output is also turned off.
func Init(reg *mcp23s17.Registry, opts *mcp23s17.Opts) (*Boards, error) {
	if opts == nil {
		opts = &mcp23s17.DefaultOpts
	}
	b := &Boards{}
	for i := range b.devs {
		o := *opts
		o.Board = i
		d, err := mcp23s17.New(reg, &o)
		if err != nil {
			return nil, errors.Join(err, b.Close())
		}
		b.devs[i] = d
	}
	if !opts.SkipInit {
		for _, d := range b.devs {
			if err := d.Write(0); err != nil {
				return nil, errors.Join(err, b.Close())
			}
		}
	}
	return b, nil
}

// Close closes every board. The SPI port is released with the last one.
func (b *Boards) Close() error {
	var errs []error
	for i, d := range b.devs {
		if d == nil {
			continue
		}
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
		b.devs[i] = nil
	}
	return errors.Join(errs...)
}

// Board returns the Dev for board. It never opens a board.
func (b *Boards) Board(board int) (*mcp23s17.Dev, error) {
	if board < 0 || board >= len(b.devs) {
		return nil, fmt.Errorf("%w %d: must be 0 to 7", mcp23s17.ErrInvalidAddress, board)
	}
	d := b.devs[board]
	if d == nil {
		return nil, mcp23s17.ErrClosed
	}
	return d, nil
}

// DigitalRead reads the inputs of board and returns pin.
func (b *Boards) DigitalRead(pin, board int) (bool, error) {
	if err := checkPin(pin); err != nil {
		return false, err
	}
	d, err := b.Board(board)
	if err != nil {
		return false, err
	}
	if _, err := d.ReadInputs(); err != nil {
		return false, err
	}
	return d.ReadPin(pin), nil
}

// DigitalWrite sets output pin of board and writes the outputs.
func (b *Boards) DigitalWrite(pin int, on bool, board int) error {
	if err := checkPin(pin); err != nil {
		return err
	}
	d, err := b.Board(board)
	if err != nil {
		return err
	}
	d.WritePin(pin, on)
	return d.Flush()
}

// ReadInput returns the inputs of board.
func (b *Boards) ReadInput(board int) (byte, error) {
	d, err := b.Board(board)
	if err != nil {
		return 0, err
	}
	return d.ReadInputs()
}

// ReadOutput reads the outputs of board back from the chip.
func (b *Boards) ReadOutput(board int) (byte, error) {
	d, err := b.Board(board)
	if err != nil {
		return 0, err
	}
	return d.ReadOutputs()
}

// ReadOutputLast returns the outputs last written to board, without a
// transfer.
func (b *Boards) ReadOutputLast(board int) (byte, error) {
	d, err := b.Board(board)
	if err != nil {
		return 0, err
	}
	return d.LastOutputs(), nil
}

// WriteOutput writes the outputs of board and returns the value now held.
func (b *Boards) WriteOutput(data byte, board int) (byte, error) {
	d, err := b.Board(board)
	if err != nil {
		return 0, err
	}
	if err := d.Write(data); err != nil {
		return 0, err
	}
	return d.LastOutputs(), nil
}

func checkPin(pin int) error {
	if pin < 0 || pin > 7 {
		return fmt.Errorf("%w %d: must be 0 to 7", ErrInvalidPin, pin)
	}
	return nil
}
