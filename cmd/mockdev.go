// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/lasercube/pkg/mockcube"
)

var (
	mockdevName    string
	mockdevDACRate int
	mockdevBuffer  int
)

var mockdevCmd = &cobra.Command{
	Use:   "mockdev",
	Short: "Run an emulated LaserCube device",
	Long: `Start an emulated device on loopback ephemeral ports and print its
command and data endpoints.

Other commands can then be pointed at the emulator for offline testing.
The emulator answers the full command set and drains its receive buffer
at the configured DAC rate; it does not project anything.`,
	RunE: runMockdev,
}

func init() {
	rootCmd.AddCommand(mockdevCmd)
	mockdevCmd.Flags().StringVar(&mockdevName, "name", "MockCube", "Model name to report")
	mockdevCmd.Flags().IntVar(&mockdevDACRate, "dac-rate", 30000, "DAC rate in points per second")
	mockdevCmd.Flags().IntVar(&mockdevBuffer, "buffer", 6000, "Receive buffer size in points")
}

func runMockdev(cmd *cobra.Command, args []string) error {
	if mockdevBuffer < 1 || mockdevBuffer > 0xFFFF {
		return fmt.Errorf("--buffer must be in 1..65535, got %d", mockdevBuffer)
	}

	info := mockcube.DefaultInfo()
	info.ModelName = mockdevName
	info.Header.DACRate = uint32(mockdevDACRate)
	info.Header.RXBufferSize = uint16(mockdevBuffer)
	info.Header.RXBufferFree = uint16(mockdevBuffer)

	dev, err := mockcube.New(info)
	if err != nil {
		return err
	}
	defer dev.Close()

	fmt.Printf("Lasercube - Device Emulator\n")
	fmt.Printf("Model: %s, DAC %d pps, buffer %d points\n", mockdevName, mockdevDACRate, mockdevBuffer)
	fmt.Printf("Command endpoint: %s\n", dev.CmdAddr())
	fmt.Printf("Data endpoint:    %s\n", dev.DataAddr())
	fmt.Printf("Press Ctrl+C to exit\n")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
