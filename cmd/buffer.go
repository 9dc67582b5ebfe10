// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var bufferWatch int

var bufferCmd = &cobra.Command{
	Use:   "buffer",
	Short: "Query the device's receive buffer free sample count",
	Long: `Send GET_RINGBUFFER_EMPTY_SAMPLE_COUNT to the target device and print
the free sample count of its receive ring buffer.

With --watch, the query repeats at the given interval until interrupted,
which is useful for observing drain behavior while another sender
streams points.`,
	RunE: runBuffer,
}

func init() {
	rootCmd.AddCommand(bufferCmd)
	bufferCmd.Flags().IntVar(&bufferWatch, "watch", 0, "Repeat every N milliseconds (0 = once)")
}

func runBuffer(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	for {
		ctx, cancel := commandCtx()
		free, err := c.GetBufferFree(ctx)
		cancel()
		if err != nil {
			return err
		}

		if bufferWatch <= 0 {
			fmt.Printf("Buffer free: %d points\n", free)
			return nil
		}
		fmt.Printf("[%s] buffer free: %5d points\n",
			time.Now().Format("15:04:05.000"), free)
		time.Sleep(time.Duration(bufferWatch) * time.Millisecond)
	}
}
