// Package tui provides the Bubble Tea scanner interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/facescan/internal/model"
	"github.com/verte-zerg/facescan/internal/session"
	"github.com/verte-zerg/facescan/internal/timeline"
)

const (
	fieldName = iota
	fieldAge
	fieldWord1
	fieldWord2
	fieldWord3
	fieldCount
)

const (
	title         = "FACIAL ATTRACTIVENESS SCANNER"
	scanBarWidth  = 40
	panelWidth    = 56
	progressWidth = 40
)

// cameraMsg carries the outcome of the background camera probe.
type cameraMsg struct {
	err error
}

// Model implements the Bubble Tea scanner UI. It renders the controller's
// state and forwards the two user actions plus the profile form.
type Model struct {
	ctrl        *session.Controller
	tl          *timeline.Timeline
	unsubscribe func()

	width  int
	height int

	inputs   []textinput.Model
	focus    int
	progress progress.Model

	scanFrame int

	// commands started by controller events, flushed at the end of Update
	pending []tea.Cmd
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF9C")).Bold(true)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#00FF9C")).Padding(1, 2)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	scanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF9C"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF2E88")).Bold(true)
	commentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	buttonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0B0B0B")).Background(lipgloss.Color("#00FF9C")).Padding(0, 2)
	disabledBtn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Background(lipgloss.Color("#2A2A2A")).Padding(0, 2)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF9C"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs the scanner UI around ctrl. tl must be the timeline the
// controller schedules on.
func NewModel(ctrl *session.Controller, tl *timeline.Timeline) *Model {
	m := &Model{
		ctrl:     ctrl,
		tl:       tl,
		inputs:   newProfileInputs(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth), progress.WithoutPercentage()),
	}
	m.unsubscribe = ctrl.Subscribe(m.handleEvent)
	return m
}

func newProfileInputs() []textinput.Model {
	placeholders := [fieldCount]string{"NAME", "AGE", "WORD 1", "WORD 2", "WORD 3"}
	limits := [fieldCount]int{40, 3, 20, 20, 20}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 24
		ti.Prompt = "> "
		inputs[i] = ti
	}
	return inputs
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return cameraMsg{err: ctrl.Acquire(context.Background())}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case cameraMsg:
		m.ctrl.ReportCamera(msg.err)
	case timerFiredMsg:
		m.tl.Fire(msg.id)
	case scanFrameMsg:
		if m.ctrl.State() == model.Scanning {
			m.scanFrame++
			cmd = scanFrameCmd()
		}
	case tea.KeyMsg:
		var quit bool
		cmd, quit = m.handleKey(msg)
		if quit {
			m.unsubscribe()
			return m, tea.Quit
		}
	default:
		if m.ctrl.State() == model.DataCollection {
			cmd = m.updateFocused(msg)
		}
	}
	return m, tea.Batch(cmd, m.afterEvents(), timerCmds(m.tl))
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return nil, true
	}
	switch m.ctrl.State() {
	case model.Idle:
		switch msg.String() {
		case "enter", " ":
			m.ctrl.RequestStart()
		case "q":
			return nil, true
		}
	case model.DataCollection:
		return m.handleFormKey(msg), false
	case model.Results:
		switch msg.String() {
		case "r", "enter":
			m.ctrl.RequestReset()
		case "q":
			return nil, true
		}
	}
	return nil, false
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		return m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "enter":
		if m.focus < fieldCount-1 {
			return m.setFocus(m.focus + 1)
		}
		m.ctrl.SubmitProfile(m.profile())
		return nil
	}
	return m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *Model) setFocus(idx int) tea.Cmd {
	m.focus = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == idx {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *Model) profile() model.UserProfile {
	return model.UserProfile{
		Name: m.inputs[fieldName].Value(),
		Age:  m.inputs[fieldAge].Value(),
		Words: [3]string{
			m.inputs[fieldWord1].Value(),
			m.inputs[fieldWord2].Value(),
			m.inputs[fieldWord3].Value(),
		},
	}
}

func (m *Model) resetForm() {
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	m.focus = fieldName
}

func (m *Model) handleEvent(ev session.Event) {
	switch ev := ev.(type) {
	case session.PhaseEntered:
		switch ev.State {
		case model.Scanning:
			m.scanFrame = 0
			m.pending = append(m.pending, scanFrameCmd())
		case model.DataCollection:
			m.pending = append(m.pending, m.setFocus(fieldName))
		case model.Idle:
			m.resetForm()
		}
	}
}

func (m *Model) afterEvents() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

// View implements tea.Model.
func (m *Model) View() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(title),
		"",
		m.renderPhase(),
	)
	notes := m.renderNotifications()
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{body, notes, footer}, "\n")
	}
	noteHeight := lipgloss.Height(notes)
	bodyHeight := m.height - noteHeight - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	top := lipgloss.Place(m.width, noteHeight, lipgloss.Left, lipgloss.Top, notes)
	center := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return top + "\n" + center + "\n" + footerLine
}

func (m *Model) renderPhase() string {
	switch m.ctrl.State() {
	case model.Scanning:
		return panelStyle.Render(m.renderScan())
	case model.Processing:
		return panelStyle.Render(m.renderStats("ANALYZING FACIAL DATA"))
	case model.Finalizing:
		return panelStyle.Render(m.renderStats("PROCESSING USER PROFILE"))
	case model.DataCollection:
		return panelStyle.Render(m.renderForm())
	case model.Results:
		return panelStyle.Render(m.renderResult())
	case model.ResetCountdown:
		return panelStyle.Render(fmt.Sprintf("SYSTEM RESET IN %s", valueStyle.Render(fmt.Sprint(m.ctrl.Countdown()))))
	default:
		return buttonStyle.Render("RATE ME")
	}
}

func (m *Model) renderScan() string {
	pos := m.scanFrame % (2 * scanBarWidth)
	if pos >= scanBarWidth {
		pos = 2*scanBarWidth - pos - 1
	}
	bar := strings.Repeat("·", pos) + "█" + strings.Repeat("·", scanBarWidth-pos-1)
	return lipgloss.JoinVertical(lipgloss.Center, "SCANNING FACE", "", scanStyle.Render(bar))
}

func (m *Model) renderStats(heading string) string {
	stats := m.ctrl.Stats()
	rows := []string{
		heading,
		"",
		labelStyle.Render("NEURAL NODES  ") + valueStyle.Render(humanize.Comma(int64(stats.Nodes))),
		labelStyle.Render("CONFIDENCE    ") + valueStyle.Render(fmt.Sprintf("%d%%", stats.Confidence)),
		labelStyle.Render("PROCESSING    ") + valueStyle.Render(fmt.Sprintf("%d%%", stats.ProcessingPct)),
		"",
		m.progress.ViewAs(float64(stats.ProcessingPct) / 100),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderForm() string {
	labels := [fieldCount]string{"NAME", "AGE", "WORD 1", "WORD 2", "WORD 3"}
	rows := []string{"DATA COLLECTION REQUIRED", "", "Describe yourself in three words.", ""}
	for i, in := range m.inputs {
		rows = append(rows, labelStyle.Render(fmt.Sprintf("%-7s", labels[i]))+in.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderResult() string {
	res, ok := m.ctrl.Result()
	if !ok {
		return ""
	}
	lines := []string{
		"ANALYSIS COMPLETE",
		"",
		scoreStyle.Render(fmt.Sprintf("%d/10", res.Score)),
		"",
	}
	for _, line := range wrapText(res.Comment, panelWidth-6) {
		lines = append(lines, commentStyle.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderNotifications() string {
	notes := m.ctrl.Notifications()
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, noteStyle.Render(truncateLine("> "+n.Text, m.width)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var hints []string
	switch m.ctrl.State() {
	case model.Idle:
		hints = []string{"[enter] RATE ME", "[q] quit"}
	case model.DataCollection:
		hints = []string{"[tab] next field", "[enter] submit", "[esc] quit"}
	case model.Results:
		hints = []string{"[r] SCAN AGAIN", "[q] quit"}
	default:
		hints = []string{"please hold still", "[esc] quit"}
	}
	if !m.ctrl.StartEnabled() && m.ctrl.State() != model.Results && m.ctrl.State() != model.DataCollection {
		hints = append([]string{disabledBtn.Render("RATE ME")}, hints...)
	}
	return footerStyle.Render(strings.Join(hints, "  "))
}
