// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GermanBionicSystems/piface-devices/mcp23s17"
	"github.com/GermanBionicSystems/piface-devices/mcp23s17/mcp23s17test"
)

const (
	regGPIOA = 18
	regGPIOB = 19
)

// run executes the CLI against host with flags reset to their defaults.
func run(t *testing.T, host *mcp23s17test.Host, args ...string) (string, error) {
	t.Helper()
	openRegistry = func() (*mcp23s17.Registry, error) {
		return mcp23s17.NewRegistry(host.Open), nil
	}
	opts = mcp23s17.DefaultOpts
	speedHz = 10000000
	verbose = false
	readPin = -1
	watchCount = 0
	watchInterval = 100 * time.Millisecond

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCLI(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		setup       func(c *mcp23s17test.Chip)
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "read inputs",
			args:        []string{"read"},
			setup:       func(c *mcp23s17test.Chip) { c.Set(0, regGPIOB, 0xF0) },
			wantContain: []string{"inputs: 0x0f 00001111"},
		},
		{
			name:        "read one input",
			args:        []string{"read", "--pin", "4", "--board", "2"},
			setup:       func(c *mcp23s17test.Chip) { c.Set(2, regGPIOB, 0xEF) },
			wantContain: []string{"input 4: on"},
		},
		{
			name:        "write outputs",
			args:        []string{"write", "0b10000001"},
			wantContain: []string{"outputs: 0x81 10000001"},
		},
		{
			name:        "write with inverted polarity",
			args:        []string{"write", "0x0f", "--write-polarity", "0x00"},
			setup:       func(c *mcp23s17test.Chip) { c.Set(0, regGPIOA, 0xFF) },
			wantContain: []string{"outputs: 0x0f"},
		},
		{
			name:        "set pin",
			args:        []string{"pin", "3", "on", "--board", "1"},
			wantContain: []string{"output 3: on"},
		},
		{
			name:        "read outputs back",
			args:        []string{"outputs"},
			setup:       func(c *mcp23s17test.Chip) { c.Set(0, regGPIOA, 0x42) },
			wantContain: []string{"outputs: 0x42"},
		},
		{
			name:        "watch",
			args:        []string{"watch", "--count", "2", "--interval", "1ms"},
			setup:       func(c *mcp23s17test.Chip) { c.Set(0, regGPIOB, 0x00) },
			wantContain: []string{"in ", "out "},
		},
		{
			name:    "invalid value",
			args:    []string{"write", "256"},
			wantErr: true,
		},
		{
			name:    "invalid pin",
			args:    []string{"pin", "8", "on"},
			wantErr: true,
		},
		{
			name:    "invalid state",
			args:    []string{"pin", "1", "maybe"},
			wantErr: true,
		},
		{
			name:    "missing device",
			args:    []string{"read", "--cs", "1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := mcp23s17test.NewHost("SPI0.0")
			chip := host.Chips["SPI0.0"]
			if tt.setup != nil {
				tt.setup(chip)
			}
			output, err := run(t, host, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
			if chip.Closes() != 1 {
				t.Errorf("port closed %d times, want 1", chip.Closes())
			}
		})
	}
}

func TestCLI_writeReachesChip(t *testing.T) {
	host := mcp23s17test.NewHost("SPI0.0")
	chip := host.Chips["SPI0.0"]
	if _, err := run(t, host, "write", "0x0f", "--write-polarity", "0x00"); err != nil {
		t.Fatal(err)
	}
	if got := chip.Get(0, regGPIOA); got != 0xF0 {
		t.Errorf("GPIOA = 0x%02x, want 0xf0", got)
	}
	if _, err := run(t, host, "pin", "0", "off", "--board", "7"); err != nil {
		t.Fatal(err)
	}
	if got := chip.Get(7, regGPIOA); got != 0x00 {
		t.Errorf("board 7 GPIOA = 0x%02x, want 0x00", got)
	}
}

func TestCLI_invalidBoard(t *testing.T) {
	host := mcp23s17test.NewHost("SPI0.0")
	_, err := run(t, host, "read", "--board", "8")
	if !errors.Is(err, mcp23s17.ErrInvalidAddress) {
		t.Fatalf("got %v, want ErrInvalidAddress", err)
	}
	if host.Opens() != 0 {
		t.Errorf("%d opens for an invalid board", host.Opens())
	}
}
