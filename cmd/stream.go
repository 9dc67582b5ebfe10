// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/lasercube/pkg/client"
)

var (
	streamRadius   float64
	streamPoints   int
	streamDuration int
	streamNoOutput bool
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream a test circle pattern to the device",
	Long: `Stream a continuous circle pattern to the target device using the
receive-buffer occupancy estimator for flow control.

The device's buffer feedback on data packets is enabled first, laser
output is switched on, and points are sent in batches sized to the
estimated free space. On exit (Ctrl+C or --duration elapsed), output is
switched back off and session statistics are printed.

Use --no-output to exercise the data path with the laser kept dark.`,
	RunE: runStream,
}

func init() {
	rootCmd.AddCommand(streamCmd)
	streamCmd.Flags().Float64Var(&streamRadius, "radius", 0.5, "Circle radius in normalized units (0..1)")
	streamCmd.Flags().IntVar(&streamPoints, "points", 300, "Points per revolution")
	streamCmd.Flags().IntVar(&streamDuration, "duration", 0, "Seconds to stream (0 = until interrupted)")
	streamCmd.Flags().BoolVar(&streamNoOutput, "no-output", false, "Stream without enabling laser output")
}

func runStream(cmd *cobra.Command, args []string) error {
	if streamRadius < 0 || streamRadius > 1 {
		return fmt.Errorf("--radius must be in 0..1, got %g", streamRadius)
	}
	if streamPoints < 2 {
		return fmt.Errorf("--points must be at least 2, got %d", streamPoints)
	}

	c, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	setupCtx, cancel := commandCtx()
	defer cancel()

	info, err := c.GetFullInfo(setupCtx)
	if err != nil {
		return fmt.Errorf("failed to query device: %w", err)
	}
	if err := c.EnableBufferSizeResponse(setupCtx, true); err != nil {
		return fmt.Errorf("failed to enable buffer feedback: %w", err)
	}
	if !streamNoOutput {
		if err := c.SetOutput(setupCtx, true); err != nil {
			return fmt.Errorf("failed to enable output: %w", err)
		}
	}

	fmt.Printf("Lasercube - Circle Stream\n")
	fmt.Printf("Target: %s (%s, fw %s)\n", targetAddr, info.ModelName, info.FirmwareVersion())
	fmt.Printf("DAC rate: %d pps, buffer %d points\n", info.Header.DACRate, info.Header.RXBufferSize)
	fmt.Printf("Pattern: circle r=%.2f, %d points/rev\n", streamRadius, streamPoints)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if streamDuration > 0 {
		var cancelRun context.CancelFunc
		ctx, cancelRun = context.WithTimeout(ctx, time.Duration(streamDuration)*time.Second)
		defer cancelRun()
	}

	pattern := client.NewCirclePattern(float32(streamRadius), streamPoints)
	s := client.NewStreamer(c, info, pattern)
	err = s.Run(ctx)

	// Best effort: never leave the laser on.
	offCtx, cancelOff := context.WithTimeout(context.Background(), time.Second)
	defer cancelOff()
	if offErr := c.SetOutput(offCtx, false); offErr != nil {
		fmt.Printf("WARNING: failed to disable output: %v\n", offErr)
	}

	fmt.Printf("\n%s", s.Stats.String())

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
