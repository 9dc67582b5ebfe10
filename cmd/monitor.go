// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var monitorInterval int

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live device status dashboard (TUI)",
	Long: `Full-screen dashboard that polls the target device and displays its
status flags, buffer occupancy, battery and temperature live.

Status transitions (output toggles, interlock changes, temperature
warnings) are appended to an event log. Press 'q' to quit.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().IntVar(&monitorInterval, "interval", 500, "Poll interval in milliseconds")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("monitor requires an interactive terminal; use 'buffer --watch' or 'capture' for scripting")
	}

	c, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	m := initialMonitorModel(c, targetAddr, monitorInterval)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}
