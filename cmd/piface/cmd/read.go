// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/GermanBionicSystems/piface-devices/mcp23s17"
	"github.com/spf13/cobra"
)

var readPin int

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the inputs",
	Long: `Read the 8 inputs of a board. ON is reported as 1 whatever the wiring,
see --read-polarity.

Examples:
  piface read
  piface read --pin 3 --board 2`,
	Args: cobra.NoArgs,
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().IntVarP(&readPin, "pin", "p", -1, "only report this input, 0 to 7")
}

func runRead(cmd *cobra.Command, args []string) error {
	if readPin < -1 || readPin > 7 {
		return fmt.Errorf("invalid pin %d: must be 0 to 7", readPin)
	}
	return withBoard(func(dev *mcp23s17.Dev) error {
		v, err := dev.ReadInputs()
		if err != nil {
			return err
		}
		if readPin >= 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "input %d: %s\n", readPin, onOff(dev.ReadPin(readPin)))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inputs: 0x%02x %08b\n", v, v)
		return nil
	})
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
