// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Thermoquad/lasercube/pkg/client"
	"github.com/Thermoquad/lasercube/pkg/lasercube"
)

// Event log entry
type monitorLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// Messages
type monitorTickMsg time.Time
type monitorPollMsg struct {
	info lasercube.LaserInfo
	free uint16
	err  error
}

// TUI model
type monitorModel struct {
	client   *client.Client
	target   string
	interval int

	spin     spinner.Model
	gauge    progress.Model
	haveInfo bool
	info     lasercube.LaserInfo
	free     uint16
	pollErrs int

	eventLog      []monitorLogEntry
	maxLogEntries int
	width         int
	height        int
	quitting      bool
}

func initialMonitorModel(c *client.Client, target string, interval int) monitorModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	return monitorModel{
		client:        c,
		target:        target,
		interval:      interval,
		spin:          sp,
		gauge:         progress.New(progress.WithDefaultGradient()),
		eventLog:      make([]monitorLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.pollCmd(),
		monitorTickCmd(m.interval),
	)
}

func monitorTickCmd(interval int) tea.Cmd {
	return tea.Tick(time.Duration(interval)*time.Millisecond, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

// pollCmd queries the device off the update loop.
func (m monitorModel) pollCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		info, err := c.GetFullInfo(ctx)
		if err != nil {
			return monitorPollMsg{err: err}
		}
		free, err := c.GetBufferFree(ctx)
		if err != nil {
			return monitorPollMsg{err: err}
		}
		return monitorPollMsg{info: info, free: free}
	}
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.gauge.Width = msg.Width - 20

	case monitorTickMsg:
		return m, tea.Batch(m.pollCmd(), monitorTickCmd(m.interval))

	case monitorPollMsg:
		if msg.err != nil {
			m.pollErrs++
			m.addLogEntry(fmt.Sprintf("POLL ERROR: %v", msg.err), true)
			return m, nil
		}
		m.noteTransitions(msg.info)
		m.info = msg.info
		m.free = msg.free
		m.haveInfo = true

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *monitorModel) addLogEntry(message string, isError bool) {
	m.eventLog = append(m.eventLog, monitorLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

// noteTransitions logs status flag changes between polls.
func (m *monitorModel) noteTransitions(next lasercube.LaserInfo) {
	if !m.haveInfo {
		m.addLogEntry(fmt.Sprintf("Connected to %s (fw %s)", next.ModelName, next.FirmwareVersion()), false)
		return
	}

	prev, nh := m.info.Header, next.Header
	if prev.OutputEnabled() != nh.OutputEnabled() {
		m.addLogEntry(fmt.Sprintf("Output: %v -> %v", prev.OutputEnabled(), nh.OutputEnabled()), false)
	}
	prevInterlock := prev.Status.InterlockEnabled(prev.FWMajor, prev.FWMinor)
	if nextInterlock := nh.Status.InterlockEnabled(nh.FWMajor, nh.FWMinor); prevInterlock != nextInterlock {
		m.addLogEntry(fmt.Sprintf("Interlock: %v -> %v", prevInterlock, nextInterlock), false)
	}
	prevWarn := prev.Status.TemperatureWarning(prev.FWMajor, prev.FWMinor)
	if nextWarn := nh.Status.TemperatureWarning(nh.FWMajor, nh.FWMinor); prevWarn != nextWarn {
		m.addLogEntry(fmt.Sprintf("Temperature warning: %v -> %v", prevWarn, nextWarn), nextWarn)
	}
	prevOver := prev.Status.OverTemperature(prev.FWMajor, prev.FWMinor)
	if nextOver := nh.Status.OverTemperature(nh.FWMajor, nh.FWMinor); prevOver != nextOver {
		m.addLogEntry(fmt.Sprintf("OVER-TEMPERATURE: %v -> %v", prevOver, nextOver), nextOver)
	}
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("LASERCUBE - DEVICE MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("Target: %s | Interval: %dms | Press 'q' to quit",
		m.target, m.interval)))
	s.WriteString("\n\n")

	if !m.haveInfo {
		s.WriteString(m.spin.View())
		s.WriteString(warningStyle.Render(" Waiting for device..."))
		s.WriteString("\n")
		return s.String()
	}

	h := m.info.Header

	// Device panel
	device := strings.Builder{}
	device.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Model:"), valueStyle.Render(m.info.ModelName),
		labelStyle.Render("Firmware:"), valueStyle.Render(m.info.FirmwareVersion()),
		labelStyle.Render("Serial:"), valueStyle.Render(m.info.SerialNumberString()),
	))
	device.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s",
		labelStyle.Render("Connection:"), valueStyle.Render(m.info.ConnectionType().String()),
		labelStyle.Render("Battery:"), valueStyle.Render(fmt.Sprintf("%d%%", h.BatteryPercent)),
		labelStyle.Render("Temp:"), func() string {
			t := fmt.Sprintf("%d C", h.Temperature)
			if h.Status.TemperatureWarning(h.FWMajor, h.FWMinor) {
				return warningStyle.Render(t + " !")
			}
			return valueStyle.Render(t)
		}(),
	))
	s.WriteString(boxStyle.Render(device.String()))
	s.WriteString("\n\n")

	// Status panel
	status := strings.Builder{}
	status.WriteString(fmt.Sprintf("%s %s\n",
		labelStyle.Render("Status:"),
		valueStyle.Render(lasercube.FormatStatus(h.Status, h.FWMajor, h.FWMinor)),
	))
	status.WriteString(fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("DAC Rate:"), valueStyle.Render(fmt.Sprintf("%d pps", h.DACRate)),
		labelStyle.Render("Poll Errors:"), func() string {
			if m.pollErrs > 0 {
				return errorStyle.Render(fmt.Sprintf("%d", m.pollErrs))
			}
			return valueStyle.Render("0")
		}(),
	))
	s.WriteString(boxStyle.Render(status.String()))
	s.WriteString("\n\n")

	// Buffer gauge: occupancy, not free space
	used := float64(0)
	if h.RXBufferSize > 0 {
		used = float64(h.RXBufferSize-m.free) / float64(h.RXBufferSize)
	}
	s.WriteString(labelStyle.Render("RX Buffer:"))
	s.WriteString(fmt.Sprintf(" %d/%d used\n", h.RXBufferSize-m.free, h.RXBufferSize))
	s.WriteString(m.gauge.ViewAs(used))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - 16
	if logHeight < 5 {
		logHeight = 5
	}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	logContent := strings.Builder{}
	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("01/02/06 15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					warningStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}
