// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp23s17 drives MCP23S17 SPI I/O expanders wired the way the PiFace
// Digital family of boards wires them: port A is eight outputs, port B is
// eight inputs with optional pull-ups.
//
// Up to eight boards can share one SPI chip-select line using the chip's
// hardware addressing. A Registry hands out one shared Bus per SPI port and
// closes the port when the last Dev using it is closed.
//
// # Datasheet
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/20001952C.pdf
package mcp23s17
