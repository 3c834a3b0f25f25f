// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/GermanBionicSystems/piface-devices/ledbar"
	"github.com/GermanBionicSystems/piface-devices/mcp23s17"
	"github.com/spf13/cobra"
)

var (
	watchInterval time.Duration
	watchCount    int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show inputs and outputs live",
	Long: `Poll the inputs of a board and draw them next to the outputs as coloured
blocks, pin 0 on the left. Stop with Ctrl-C.

Examples:
  piface watch
  piface watch --interval 20ms --board 1
  piface watch --count 10`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 100*time.Millisecond, "poll interval")
	watchCmd.Flags().IntVarP(&watchCount, "count", "n", 0, "stop after this many polls, 0 for no limit")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval <= 0 {
		return errors.New("--interval must be positive")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var bar *ledbar.Dev
	if out := cmd.OutOrStdout(); out == os.Stdout {
		bar = ledbar.New(nil)
	} else {
		bar = ledbar.NewWriter(out, nil)
	}
	defer bar.Halt()

	return withBoard(func(dev *mcp23s17.Dev) error {
		t := time.NewTicker(watchInterval)
		defer t.Stop()
		for n := 0; watchCount == 0 || n < watchCount; n++ {
			in, err := dev.ReadInputs()
			if err != nil {
				return err
			}
			if err := bar.Draw(ledbar.Row{Label: "in", Value: in}, ledbar.Row{Label: "out", Value: dev.LastOutputs()}); err != nil {
				return err
			}
			if watchCount != 0 && n == watchCount-1 {
				break
			}
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
			}
		}
		return nil
	})
}
