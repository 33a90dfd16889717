// Package tui is the interactive dashboard: a host list, a live output
// pane backed by the virtual terminal, and a settings panel. It follows
// the usual bubbletea shape; all build orchestration lives in the session
// package, which the model drives from a fixed-interval tick.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/nixdash/internal/config"
	"github.com/dkoosis/nixdash/internal/nixos"
	"github.com/dkoosis/nixdash/internal/session"
	"github.com/dkoosis/nixdash/pkg/vterm"
)

// pollInterval paces output draining and redraws. Suspension only happens
// at this boundary; nothing in the model blocks.
const pollInterval = 100 * time.Millisecond

type focusedPanel int

const (
	panelMain focusedPanel = iota
	panelSettings
)

type editMode int

const (
	editNone editMode = iota
	editFlakePath
	editHostConnection
	editExtraArgs
)

type tickMsg struct{}

// Model is the bubbletea model for the dashboard.
type Model struct {
	cfg  *config.Config
	sess *session.Session

	operation nixos.Operation
	upgrade   bool
	selected  int
	focused   focusedPanel

	editMode  editMode
	editInput textinput.Model

	spin spinner.Model

	width  int
	height int
	ready  bool

	quitting bool
}

// New builds the initial model around a loaded config.
func New(cfg *config.Config) Model {
	term := vterm.New(80, 24)
	sess := session.New(term, func(cmd nixos.Command) session.Build {
		return nixos.Start(cmd)
	})

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 512

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(spinnerStyle))

	return Model{
		cfg:       cfg,
		sess:      sess,
		operation: nixos.Switch,
		editInput: ti,
		spin:      sp,
	}
}

// Session exposes the build session, mostly for tests.
func (m Model) Session() *session.Session {
	return m.sess
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.spin.Tick)
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// hosts returns the display order of hosts with the selection clamped.
func (m *Model) hosts() []config.Host {
	hosts := m.cfg.SortedHosts()
	if m.selected >= len(hosts) {
		m.selected = len(hosts) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	return hosts
}

// selectedHost returns the highlighted host, if any.
func (m *Model) selectedHost() (config.Host, bool) {
	hosts := m.hosts()
	if len(hosts) == 0 {
		return config.Host{}, false
	}
	return hosts[m.selected], true
}

// outputPaneSize is the inner size of the output pane, which the virtual
// terminal and the spawned pseudo-terminal are both kept in sync with.
func (m Model) outputPaneSize() (width, height int) {
	width = m.width - m.width/4 - 2
	height = m.mainPanelHeight() - 3 // borders plus the title line
	if width < minPaneDim {
		width = minPaneDim
	}
	if height < minPaneDim {
		height = minPaneDim
	}
	return width, height
}

func (m Model) mainPanelHeight() int {
	settings := settingsPanelHeight
	h := m.height - settings
	if h < minPaneDim+2 {
		h = minPaneDim + 2
	}
	return h
}

const (
	settingsPanelHeight = 7
	minPaneDim          = 4
)
