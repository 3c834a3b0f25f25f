// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/GermanBionicSystems/piface-devices/mcp23s17"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var (
	// Global flags
	verbose bool
	opts    = mcp23s17.DefaultOpts
	speedHz int64
)

// openRegistry returns the registry boards are opened from. Tests replace
// it with a simulated host.
var openRegistry = func() (*mcp23s17.Registry, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	return mcp23s17.NewRegistry(nil), nil
}

var rootCmd = &cobra.Command{
	Use:   "piface",
	Short: "Read and drive PiFace Digital boards over SPI",
	Long: `Read the inputs and drive the outputs of MCP23S17 based PiFace Digital
boards. Up to 8 boards (--board 0 to 7) share one SPI chip-select.

Examples:
  piface read                      # Read the inputs of board 0
  piface write 0x0f --board 1      # Turn on outputs 0-3 of board 1
  piface pin 7 on                  # Turn on output 7
  piface watch --interval 50ms     # Show inputs and outputs live`,
	Version:      "1.0.0",
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	f.IntVarP(&opts.Board, "board", "b", 0, "board address, 0 to 7")
	f.Uint8Var(&opts.PullUps, "pullups", mcp23s17.DefaultOpts.PullUps, "input pull-up mask")
	f.Uint8Var(&opts.ReadPolarity, "read-polarity", mcp23s17.DefaultOpts.ReadPolarity, "input bit state considered ON")
	f.Uint8Var(&opts.WritePolarity, "write-polarity", mcp23s17.DefaultOpts.WritePolarity, "output bit state considered ON")
	f.BoolVar(&opts.SkipInit, "no-init", false, "do not configure the chip")
	f.IntVar(&opts.Bus, "bus", 0, "SPI bus")
	f.IntVar(&opts.ChipSelect, "cs", 0, "SPI chip-select")
	f.StringVar(&opts.Device, "device", "", "SPI port name, overrides --bus and --cs")
	f.Int64Var(&speedHz, "speed", int64(mcp23s17.DefaultOpts.Speed/physic.Hertz), "SPI clock in Hz")
}

// withBoard opens the board selected by the global flags, runs fn and closes
// the board.
func withBoard(fn func(dev *mcp23s17.Dev) error) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	o := opts
	o.Speed = physic.Frequency(speedHz) * physic.Hertz
	if verbose {
		port := o.Device
		if port == "" {
			port = mcp23s17.BusName(o.Bus, o.ChipSelect)
		}
		log.Printf("opening board %d on %s at %s", o.Board, port, o.Speed)
	}
	dev, err := mcp23s17.New(reg, &o)
	if err != nil {
		return err
	}
	err = fn(dev)
	if cerr := dev.Close(); err == nil {
		err = cerr
	}
	return err
}
