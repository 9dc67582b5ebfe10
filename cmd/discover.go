// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/lasercube/pkg/client"
	"github.com/Thermoquad/lasercube/pkg/lasercube"
)

var discoverWait int

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover LaserCube devices on the local network",
	Long: `Broadcast a GET_FULL_INFO query and list every device that answers.

Each device is printed once with its address, model, firmware version,
serial number and connection type. A device is printed again only if its
reported info changes during the listening window.

With --target set, the query is sent to that address instead of the
broadcast address, which works across routed networks where broadcast
does not reach the device.`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().IntVar(&discoverWait, "wait", 3, "Seconds to listen for replies")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	bind, err := parseBind()
	if err != nil {
		return err
	}

	target := netip.AddrPortFrom(
		netip.AddrFrom4([4]byte{255, 255, 255, 255}), lasercube.PortCmd)
	if targetAddr != "" {
		addr, err := parseTarget()
		if err != nil {
			return err
		}
		target = netip.AddrPortFrom(addr, lasercube.PortCmd)
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(discoverWait)*time.Second)
	defer cancel()

	fmt.Printf("Lasercube - Device Discovery\n")
	fmt.Printf("Query: %s, listening %d seconds\n\n", target, discoverWait)

	found, err := client.Devices(ctx, bind, target)
	if err != nil {
		return err
	}

	count := 0
	for dev := range found {
		count++
		fmt.Printf("Device at %s\n", dev.Addr.Addr())
		fmt.Printf("  Model:      %s (#%d)\n", dev.Info.ModelName, dev.Info.Header.ModelNumber)
		fmt.Printf("  Firmware:   %s\n", dev.Info.FirmwareVersion())
		fmt.Printf("  Serial:     %s\n", dev.Info.SerialNumberString())
		fmt.Printf("  Connection: %s\n", dev.Info.ConnectionType())
		fmt.Printf("  Output:     %v\n\n", dev.Info.Header.OutputEnabled())
	}

	if count == 0 {
		fmt.Printf("No devices found\n")
	} else {
		fmt.Printf("%d device(s) found\n", count)
	}
	return nil
}
