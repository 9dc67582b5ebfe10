// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/lasercube/pkg/lasercube"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Query and display the device info record",
	Long: `Send GET_FULL_INFO to the target device and display the decoded record:
model, firmware version, serial number, DAC rates, buffer occupancy,
battery, temperature and the status flags under the firmware's bit
layout.`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := commandCtx()
	defer cancel()

	info, err := c.GetFullInfo(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Lasercube - Device Info\n")
	fmt.Printf("Target: %s\n\n", targetAddr)
	fmt.Print(lasercube.FormatLaserInfo(info))
	return nil
}
