// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/lasercube/pkg/capture"
	"github.com/Thermoquad/lasercube/pkg/lasercube"
)

var (
	captureOut      string
	captureInterval int
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Record a polling session to a capture file",
	Long: `Poll the target device with GET_FULL_INFO and
GET_RINGBUFFER_EMPTY_SAMPLE_COUNT at a fixed interval, recording every
raw datagram (sent and received) to a CBOR capture file.

The capture preserves exact wire bytes with timestamps and direction, so
protocol anomalies can be analyzed offline with the dump command or
third-party CBOR tooling.`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().StringVarP(&captureOut, "out", "o", "session.cap", "Capture file to write")
	captureCmd.Flags().IntVar(&captureInterval, "interval", 500, "Poll interval in milliseconds")
}

func runCapture(cmd *cobra.Command, args []string) error {
	target, err := parseTarget()
	if err != nil {
		return err
	}
	cmdAddr := net.UDPAddrFromAddrPort(netip.AddrPortFrom(target, lasercube.PortCmd))

	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return fmt.Errorf("failed to bind socket: %w", err)
	}
	defer conn.Close()

	f, err := os.Create(captureOut)
	if err != nil {
		return fmt.Errorf("failed to create capture file: %w", err)
	}
	defer f.Close()
	w := capture.NewWriter(f)

	fmt.Printf("Lasercube - Session Capture\n")
	fmt.Printf("Target: %s, interval %dms, writing %s\n", target, captureInterval, captureOut)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queries := []lasercube.Command{
		lasercube.GetFullInfo{},
		lasercube.GetRingbufferEmptySampleCount{},
	}
	records := 0
	buf := make([]byte, 1024)

	for {
		for _, q := range queries {
			wire := lasercube.CommandBytes(q)
			if _, err := conn.WriteToUDP(wire, cmdAddr); err != nil {
				return fmt.Errorf("failed to send %s: %w", q.CommandType(), err)
			}
			if err := w.Record(capture.DirSent, cmdAddr.String(), wire); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
			records++

			conn.SetReadDeadline(time.Now().Add(time.Duration(cmdTimeout) * time.Second))
			n, src, err := conn.ReadFromUDP(buf)
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					fmt.Printf("[%s] %s: no reply\n",
						time.Now().Format("15:04:05.000"), q.CommandType())
					continue
				}
				return fmt.Errorf("read failed: %w", err)
			}
			if err := w.Record(capture.DirReceived, src.String(), buf[:n]); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
			records++
		}

		select {
		case <-ctx.Done():
			fmt.Printf("\n%d records written to %s\n", records, captureOut)
			return nil
		case <-time.After(time.Duration(captureInterval) * time.Millisecond):
		}
	}
}
