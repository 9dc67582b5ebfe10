// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/lasercube/pkg/capture"
	"github.com/Thermoquad/lasercube/pkg/lasercube"
)

var dumpRaw bool

var dumpCmd = &cobra.Command{
	Use:   "dump <capture-file>",
	Short: "Display a capture file in human-readable format",
	Long: `Read a CBOR capture file written by the capture command and display
each record with timestamp, direction and decoded content.

Sent datagrams are labeled with their command type; received datagrams
are decoded as responses. Records that fail to decode are shown with the
decode error and a hex dump. Use --raw to hex dump every record.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().BoolVar(&dumpRaw, "raw", false, "Hex dump every record instead of decoding")
}

func runDump(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	r := capture.NewReader(f)
	count := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("record %d: %w", count, err)
		}
		count++

		dir := "->"
		if rec.Direction == capture.DirReceived {
			dir = "<-"
		}
		fmt.Printf("[%s] %s %s (%d bytes)\n",
			rec.Timestamp.Format("15:04:05.000"), dir, rec.Addr, len(rec.Data))

		if dumpRaw {
			fmt.Print(hexDump(rec.Data))
			continue
		}
		fmt.Print(describeRecord(rec))
	}

	fmt.Printf("%d records\n", count)
	return nil
}

func describeRecord(rec capture.Record) string {
	if len(rec.Data) == 0 {
		return "  (empty)\n"
	}

	if rec.Direction == capture.DirSent {
		t := lasercube.CommandType(rec.Data[0])
		if !t.Valid() {
			return fmt.Sprintf("  UNKNOWN COMMAND 0x%02X\n", rec.Data[0])
		}
		if t == lasercube.CmdSampleData && len(rec.Data) >= 4 {
			points := (len(rec.Data) - 4) / lasercube.PointSize
			return fmt.Sprintf("  %s msg=%d frame=%d points=%d\n",
				t, rec.Data[2], rec.Data[3], points)
		}
		return "  " + t.String() + "\n"
	}

	resp, err := lasercube.ParseResponse(rec.Data)
	if err != nil {
		return fmt.Sprintf("  DECODE ERROR: %v\n%s", err, hexDump(rec.Data))
	}
	out := lasercube.FormatResponse(resp)
	return "  " + strings.ReplaceAll(strings.TrimRight(out, "\n"), "\n", "\n  ") + "\n"
}

func hexDump(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i%16 == 0 {
			sb.WriteString("  ")
		}
		fmt.Fprintf(&sb, "%02X ", b)
		if i%16 == 15 {
			sb.WriteByte('\n')
		}
	}
	if len(data)%16 != 0 {
		sb.WriteByte('\n')
	}
	return sb.String()
}
