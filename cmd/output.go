// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var outputCmd = &cobra.Command{
	Use:   "output {on|off}",
	Short: "Enable or disable laser output",
	Long: `Send SET_OUTPUT to the target device.

Note that the device's hardware interlock still gates actual emission:
enabling output on an interlocked device is acknowledged but produces no
light. Check the status flags with the info command.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runOutput,
}

func init() {
	rootCmd.AddCommand(outputCmd)
}

func runOutput(cmd *cobra.Command, args []string) error {
	var enable bool
	switch args[0] {
	case "on":
		enable = true
	case "off":
		enable = false
	default:
		return fmt.Errorf("argument must be 'on' or 'off', got %q", args[0])
	}

	c, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := commandCtx()
	defer cancel()

	if err := c.SetOutput(ctx, enable); err != nil {
		return err
	}
	fmt.Printf("Output %s acknowledged by %s\n", args[0], targetAddr)
	return nil
}
