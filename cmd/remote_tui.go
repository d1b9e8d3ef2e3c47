// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/acwebremote/acremote/pkg/irlink"
	"github.com/acwebremote/acremote/pkg/tadiran"
)

//////////////////////////////////////////////////////////////
// Constants
//////////////////////////////////////////////////////////////

const (
	pingIntervalSeconds = 5 // Send ping requests every N seconds
	pingTimeoutSeconds  = 2
	sendTimeout         = 10 * time.Second
	maxLogEntries       = 100
)

// Focus states
const (
	focusModeList = iota
	focusTempInput
	focusCount
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// errorLogEntry is one line of the event log
type errorLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool // true for errors, false for informational events
}

// modeItem is an operating mode in the mode list
type modeItem struct {
	mode tadiran.Mode
}

var modeDescriptions = map[tadiran.Mode]string{
	tadiran.ModeCool:      "Cooling",
	tadiran.ModeHeat:      "Heating",
	tadiran.ModeCirculate: "Fan only",
	tadiran.ModeDry:       "Dehumidify",
}

// Implement list.Item interface
func (i modeItem) Title() string       { return i.mode.String() }
func (i modeItem) Description() string { return modeDescriptions[i.mode] }
func (i modeItem) FilterValue() string { return i.mode.String() }

// remoteLink is the bridge side of the remote, nil when running without one
type remoteLink interface {
	Ping(ctx context.Context, timeout time.Duration) (uptime, rtt time.Duration, err error)
	Statistics() irlink.Counters
}

// remoteModel is the Bubble Tea model for the remote TUI
type remoteModel struct {
	remote    *tadiran.Remote
	link      remoteLink
	connInfo  string
	modelName string

	// Controls
	modeList     list.Model
	tempInput    textinput.Model
	fan          uint8
	swing        bool
	focusedField int

	// Last command the bridge confirmed
	lastCommand tadiran.Command
	lastFrame   tadiran.Frame
	hasSent     bool
	sending     bool

	// Bridge state
	stats          irlink.Counters
	lastPingTime   time.Time
	bridgeUptime   uint64 // milliseconds
	lastRTT        time.Duration
	hasUptime      bool
	connectionLost bool

	errorLog []errorLogEntry

	// UI state
	width    int
	height   int
	quitting bool
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type remoteTickMsg time.Time

type sendResultMsg struct {
	command tadiran.Command
	frame   tadiran.Frame
	err     error
}

type pingResultMsg struct {
	uptime time.Duration
	rtt    time.Duration
	err    error
}

type connectionLostMsg struct{}

type reconnectedMsg struct {
	connInfo string
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialRemoteModel(remote *tadiran.Remote, link remoteLink, connInfo, modelName string) remoteModel {
	ti := textinput.New()
	ti.Placeholder = "24"
	ti.CharLimit = 2
	ti.Width = 4

	items := []list.Item{
		modeItem{tadiran.ModeCool},
		modeItem{tadiran.ModeHeat},
		modeItem{tadiran.ModeCirculate},
		modeItem{tadiran.ModeDry},
	}
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.SetHeight(2)
	modeList := list.New(items, delegate, 24, 14)
	modeList.Title = "Mode"
	modeList.SetShowStatusBar(false)
	modeList.SetShowHelp(false)
	modeList.SetFilteringEnabled(false)

	return remoteModel{
		remote:       remote,
		link:         link,
		connInfo:     connInfo,
		modelName:    modelName,
		modeList:     modeList,
		tempInput:    ti,
		fan:          tadiran.MinFan,
		focusedField: focusModeList,
		errorLog:     make([]errorLogEntry, 0),
		width:        80,
		height:       24,
	}
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m remoteModel) Init() tea.Cmd {
	return remoteTickCmd()
}

func remoteTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return remoteTickMsg(t)
	})
}

func (m remoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case remoteTickMsg:
		cmds := []tea.Cmd{remoteTickCmd()}
		if m.link != nil {
			m.stats = m.link.Statistics()
			if !m.connectionLost && time.Since(m.lastPingTime) >= pingIntervalSeconds*time.Second {
				m.lastPingTime = time.Now()
				cmds = append(cmds, bridgePingCmd(m.link))
			}
		}
		return m, tea.Batch(cmds...)

	case sendResultMsg:
		m.sending = false
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("Send failed: %v", msg.err), true)
			return m, nil
		}
		m.lastCommand = msg.command
		m.lastFrame = msg.frame
		m.hasSent = true
		m.addLogEntry(fmt.Sprintf("Sent %s [%s]", msg.command, tadiran.FormatFrame(msg.frame)), false)

	case pingResultMsg:
		if msg.err == nil {
			m.bridgeUptime = uint64(msg.uptime.Milliseconds())
			m.lastRTT = msg.rtt
			m.hasUptime = true
		}

	case connectionLostMsg:
		m.connectionLost = true
		m.hasUptime = false
		m.addLogEntry("Connection lost - reconnecting...", true)

	case reconnectedMsg:
		m.connectionLost = false
		m.connInfo = msg.connInfo
		m.addLogEntry("Reconnected", false)
	}

	return m, nil
}

func (m *remoteModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.cycleFocus(1)
		return m, nil

	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil

	case "enter":
		command, err := m.command()
		if err != nil {
			m.addLogEntry(err.Error(), true)
			return m, nil
		}
		return m.send(command)

	case "o":
		return m.send(tadiran.Command{Power: false})

	case "f":
		m.fan = m.fan%tadiran.MaxFan + 1
		return m, nil

	case "s":
		m.swing = !m.swing
		return m, nil

	case "+", "=":
		m.stepTemperature(1)
		return m, nil

	case "-":
		m.stepTemperature(-1)
		return m, nil

	case "up", "k", "down", "j":
		if m.focusedField == focusModeList {
			var cmd tea.Cmd
			m.modeList, cmd = m.modeList.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Pass through to focused component
	if m.focusedField == focusTempInput {
		var cmd tea.Cmd
		m.tempInput, cmd = m.tempInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *remoteModel) cycleFocus(delta int) {
	m.focusedField = (m.focusedField + delta + focusCount) % focusCount

	if m.focusedField == focusTempInput {
		m.tempInput.Focus()
	} else {
		m.tempInput.Blur()
	}
}

func (m remoteModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
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

	focusedBoxStyle := boxStyle.
		BorderForeground(lipgloss.Color("12"))

	// Header
	s.WriteString(titleStyle.Render("ACREMOTE"))
	s.WriteString(" ")
	connStatus := m.connInfo
	if m.connectionLost {
		connStatus = warningStyle.Render("RECONNECTING...")
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | %s | q=quit Tab=switch", connStatus, m.modelName)))
	s.WriteString("\n")

	if m.hasUptime {
		s.WriteString(fmt.Sprintf(" %s %s  %s %s",
			statsLabelStyle.Render("Bridge Uptime:"),
			statsValueStyle.Render(formatUptime(m.bridgeUptime)),
			statsLabelStyle.Render("RTT:"),
			statsValueStyle.Render(m.lastRTT.Round(time.Millisecond).String())))
	}
	s.WriteString("\n\n")

	// Layout: left panel (modes) | right panel (settings)
	leftWidth := 26
	rightWidth := m.width - leftWidth - 6

	listStyle := boxStyle.Width(leftWidth)
	if m.focusedField == focusModeList {
		listStyle = focusedBoxStyle.Width(leftWidth)
	}
	modePanel := listStyle.Render(m.modeList.View())

	settings := m.renderSettings(statsLabelStyle, statsValueStyle, headerStyle, warningStyle)
	settingsPanel := boxStyle.Width(rightWidth).Render(settings)

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, modePanel, " ", settingsPanel))
	s.WriteString("\n\n")

	s.WriteString(m.renderStatisticsBar(statsLabelStyle, statsValueStyle, errorStyle, boxStyle))
	s.WriteString("\n\n")

	s.WriteString(m.renderEventLog(statsLabelStyle, headerStyle, warningStyle, errorStyle, boxStyle))

	return s.String()
}

//////////////////////////////////////////////////////////////
// View Helpers
//////////////////////////////////////////////////////////////

func (m remoteModel) renderSettings(statsLabelStyle, statsValueStyle, headerStyle, warningStyle lipgloss.Style) string {
	var s strings.Builder

	s.WriteString(statsLabelStyle.Render("Temperature: "))
	if m.focusedField == focusTempInput {
		s.WriteString(m.tempInput.View())
	} else {
		s.WriteString(fmt.Sprintf("[%s]", m.temperatureText()))
	}
	s.WriteString(" C\n")

	swing := "off"
	if m.swing {
		swing = "on"
	}
	s.WriteString(fmt.Sprintf("%s %s\n", statsLabelStyle.Render("Fan:"), statsValueStyle.Render(fmt.Sprintf("%d/%d", m.fan, tadiran.MaxFan))))
	s.WriteString(fmt.Sprintf("%s %s\n\n", statsLabelStyle.Render("Swing:"), statsValueStyle.Render(swing)))

	if m.sending {
		s.WriteString(warningStyle.Render("Sending..."))
	} else if m.hasSent {
		s.WriteString(fmt.Sprintf("%s %s\n", statsLabelStyle.Render("Last:"), statsValueStyle.Render(m.lastCommand.String())))
		s.WriteString(headerStyle.Render(tadiran.FormatFrame(m.lastFrame)))
	} else {
		s.WriteString(headerStyle.Render("Nothing sent yet"))
	}
	s.WriteString("\n\n")

	s.WriteString(headerStyle.Render("Enter=send  o=off  f=fan  s=swing  +/-=temp"))
	return s.String()
}

func (m remoteModel) renderStatisticsBar(statsLabelStyle, statsValueStyle, errorStyle, boxStyle lipgloss.Style) string {
	failed := m.stats.Timeouts + m.stats.Rejected
	failedText := statsValueStyle.Render("0")
	if failed > 0 {
		failedText = errorStyle.Render(fmt.Sprintf("%d", failed))
	}

	content := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		statsLabelStyle.Render("Sent:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.Sent)),
		statsLabelStyle.Render("Acked:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.Acked)),
		statsLabelStyle.Render("Failed:"), failedText,
		statsLabelStyle.Render("RX Errors:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.CRCErrors+m.stats.DecodeErrors)),
	)

	return boxStyle.Width(m.width - 4).Render(content)
}

func (m remoteModel) renderEventLog(statsLabelStyle, headerStyle, warningStyle, errorStyle, boxStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(statsLabelStyle.Render("EVENTS"))
	s.WriteString("\n")

	logHeight := 8
	if len(m.errorLog) < logHeight {
		logHeight = len(m.errorLog)
	}

	if len(m.errorLog) == 0 {
		s.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for _, entry := range m.errorLog[len(m.errorLog)-logHeight:] {
			icon := "i"
			style := warningStyle
			if entry.isError {
				icon = "x"
				style = errorStyle
			}
			s.WriteString(fmt.Sprintf("%s %s %s\n",
				headerStyle.Render(entry.timestamp.Format("15:04:05.000")),
				style.Render(icon),
				entry.message))
		}
	}

	return boxStyle.Width(m.width - 4).Render(s.String())
}

//////////////////////////////////////////////////////////////
// Commands
//////////////////////////////////////////////////////////////

// command builds a power-on command from the current controls
func (m *remoteModel) command() (tadiran.Command, error) {
	item, ok := m.modeList.SelectedItem().(modeItem)
	if !ok {
		return tadiran.Command{}, fmt.Errorf("no mode selected")
	}

	text := m.temperatureText()
	temp, err := strconv.ParseUint(text, 10, 8)
	if err != nil {
		return tadiran.Command{}, fmt.Errorf("invalid temperature: %s", text)
	}

	command := tadiran.CommandFromMode(item.mode, uint8(temp), m.fan, m.swing)
	if errs := tadiran.ValidateCommand(command); len(errs) > 0 {
		return tadiran.Command{}, validationFailure(errs)
	}
	return command, nil
}

// send hands command to the remote in the background
func (m *remoteModel) send(command tadiran.Command) (tea.Model, tea.Cmd) {
	if m.connectionLost {
		m.addLogEntry("Cannot send command: connection lost", true)
		return m, nil
	}
	if m.sending {
		m.addLogEntry("Previous command still in flight", true)
		return m, nil
	}

	m.sending = true
	remote := m.remote
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		err := remote.Send(ctx, command)
		return sendResultMsg{command: command, frame: remote.Frame(), err: err}
	}
}

func bridgePingCmd(link remoteLink) tea.Cmd {
	return func() tea.Msg {
		uptime, rtt, err := link.Ping(context.Background(), pingTimeoutSeconds*time.Second)
		return pingResultMsg{uptime: uptime, rtt: rtt, err: err}
	}
}

//////////////////////////////////////////////////////////////
// Helpers
//////////////////////////////////////////////////////////////

func (m *remoteModel) temperatureText() string {
	if v := m.tempInput.Value(); v != "" {
		return v
	}
	return m.tempInput.Placeholder
}

// stepTemperature moves the temperature by delta, clamped to the unit's range
func (m *remoteModel) stepTemperature(delta int) {
	temp, err := strconv.Atoi(m.temperatureText())
	if err != nil {
		temp = 24
	}
	temp += delta
	temp = max(temp, tadiran.MinTemperature)
	temp = min(temp, tadiran.MaxTemperature)
	m.tempInput.SetValue(strconv.Itoa(temp))
}

func (m *remoteModel) addLogEntry(message string, isError bool) {
	m.errorLog = append(m.errorLog, errorLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})

	if len(m.errorLog) > maxLogEntries {
		m.errorLog = m.errorLog[len(m.errorLog)-maxLogEntries:]
	}
}

var uptimeUnits = []struct {
	name string
	ms   uint64
}{
	{"year", 360 * 24 * 60 * 60 * 1000},
	{"month", 30 * 24 * 60 * 60 * 1000},
	{"day", 24 * 60 * 60 * 1000},
	{"hour", 60 * 60 * 1000},
	{"minute", 60 * 1000},
	{"second", 1000},
}

// formatUptime formats uptime in milliseconds to human-friendly string
func formatUptime(ms uint64) string {
	var parts []string
	for _, u := range uptimeUnits {
		n := ms / u.ms
		ms %= u.ms
		switch {
		case n == 1:
			parts = append(parts, "1 "+u.name)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %ss", n, u.name))
		}
	}

	// Join with commas and "and" for last item
	switch len(parts) {
	case 0:
		return "0 seconds"
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	}
	last := parts[len(parts)-1]
	return strings.Join(parts[:len(parts)-1], ", ") + ", and " + last
}
