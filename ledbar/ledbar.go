// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ledbar draws 8 bit port values as a row of coloured blocks on a
// terminal using ANSI color codes, one block per pin, pin 0 on the left.
//
// Useful to watch PiFace inputs and outputs from a shell.
package ledbar

import (
	"bytes"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for this display.
type Opts struct {
	// On and Off are the colours of set and cleared bits.
	On  color.NRGBA
	Off color.NRGBA
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette

	_ struct{}
}

// DefaultOpts draws set bits green and cleared bits dark grey.
var DefaultOpts = Opts{
	On:  color.NRGBA{R: 0x00, G: 0xE0, B: 0x00, A: 0xFF},
	Off: color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF},
}

// Dev renders port values to a writer.
type Dev struct {
	w   io.Writer
	on  string
	off string

	buf bytes.Buffer
}

// New returns a Dev that draws on the console. The Opts can be nil.
func New(opts *Opts) *Dev {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter returns a Dev that draws on w.
func NewWriter(w io.Writer, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		w:   w,
		on:  p.Block(opts.On),
		off: p.Block(opts.Off),
	}
}

func (d *Dev) String() string {
	return "LEDBar"
}

// Halt resets the terminal colours and ends the line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Draw redraws the current line with one labelled row per value.
func (d *Dev) Draw(rows ...Row) error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i, r := range rows {
		if i != 0 {
			_, _ = d.buf.WriteString("  ")
		}
		_, _ = d.buf.WriteString(r.Label)
		_, _ = d.buf.WriteString(" ")
		for bit := range 8 {
			if r.Value&(1<<bit) != 0 {
				_, _ = d.buf.WriteString(d.on)
			} else {
				_, _ = d.buf.WriteString(d.off)
			}
		}
		_, _ = d.buf.WriteString("\033[0m")
	}
	_, _ = d.buf.WriteString(" ")
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Row is one labelled port value.
type Row struct {
	Label string
	Value byte
}
