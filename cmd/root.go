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
)

var (
	// Device connection flags
	targetAddr string
	bindAddr   string
	cmdTimeout int

	// WebSocket bridge flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool
)

var rootCmd = &cobra.Command{
	Use:   "lasercube",
	Short: "LaserCube Network Protocol Tool",
	Long: `Lasercube - A CLI tool for discovering, monitoring and driving LaserCube
laser projectors over their UDP network protocol.

Provides commands for device discovery, status queries, output control,
flow-controlled point streaming and raw session capture to help diagnose
communication issues and drive devices without the vendor application.

Most commands take --target with the device's IP address. Discovery works
without a target by broadcasting on the local network.

For WebSocket bridge authentication, the password is read from the
LASERCUBE_PASSWORD environment variable, or prompted interactively if not
set. The --password flag is intentionally not provided to avoid leaking
credentials in shell history.`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&targetAddr, "target", "t", "", "Device IP address")
	rootCmd.PersistentFlags().StringVar(&bindAddr, "bind", "0.0.0.0", "Local address to bind")
	rootCmd.PersistentFlags().IntVar(&cmdTimeout, "timeout", 2, "Command timeout in seconds")

	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://, bridge only)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// parseTarget resolves the --target flag.
func parseTarget() (netip.Addr, error) {
	if targetAddr == "" {
		return netip.Addr{}, fmt.Errorf("--target must be specified")
	}
	addr, err := netip.ParseAddr(targetAddr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("invalid target address %q: %v", targetAddr, err)
	}
	return addr, nil
}

// parseBind resolves the --bind flag.
func parseBind() (netip.Addr, error) {
	addr, err := netip.ParseAddr(bindAddr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("invalid bind address %q: %v", bindAddr, err)
	}
	return addr, nil
}

// newClient opens a client for the --target device.
func newClient() (*client.Client, error) {
	addr, err := parseTarget()
	if err != nil {
		return nil, err
	}
	return client.New(addr)
}

// commandCtx returns a context bounded by the --timeout flag.
func commandCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(cmdTimeout)*time.Second)
}
