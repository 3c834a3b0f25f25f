// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GermanBionicSystems/piface-devices/mcp23s17"
	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write <value>",
	Short: "Set all 8 outputs",
	Long: `Set the 8 outputs of a board from a byte, given in decimal, 0x hex or 0b
binary. Nothing is sent when the outputs already hold the value.

Examples:
  piface write 0x0f
  piface write 0b10000001 --board 1`,
	Args: cobra.ExactArgs(1),
	RunE: runWrite,
}

var pinCmd = &cobra.Command{
	Use:   "pin <pin> <on|off>",
	Short: "Set one output",
	Long: `Set a single output of a board, leaving the others as they are.

Examples:
  piface pin 7 on
  piface pin 0 off --board 3`,
	Args: cobra.ExactArgs(2),
	RunE: runPin,
}

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "Read the outputs back from the chip",
	Args:  cobra.NoArgs,
	RunE:  runOutputs,
}

func init() {
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(outputsCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	v, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[0], err)
	}
	return withBoard(func(dev *mcp23s17.Dev) error {
		if err := dev.Write(byte(v)); err != nil {
			return err
		}
		o := dev.LastOutputs()
		fmt.Fprintf(cmd.OutOrStdout(), "outputs: 0x%02x %08b\n", o, o)
		return nil
	})
}

func runPin(cmd *cobra.Command, args []string) error {
	pin, err := strconv.Atoi(args[0])
	if err != nil || pin < 0 || pin > 7 {
		return fmt.Errorf("invalid pin %q: must be 0 to 7", args[0])
	}
	var on bool
	switch strings.ToLower(args[1]) {
	case "on", "1", "high", "true":
		on = true
	case "off", "0", "low", "false":
	default:
		return fmt.Errorf("invalid state %q: must be on or off", args[1])
	}
	return withBoard(func(dev *mcp23s17.Dev) error {
		dev.WritePin(pin, on)
		if err := dev.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "output %d: %s\n", pin, onOff(dev.ReadOutputPin(pin)))
		return nil
	})
}

func runOutputs(cmd *cobra.Command, args []string) error {
	return withBoard(func(dev *mcp23s17.Dev) error {
		v, err := dev.ReadOutputs()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "outputs: 0x%02x %08b\n", v, v)
		return nil
	})
}
