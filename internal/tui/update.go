package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/nixdash/internal/config"
	"github.com/dkoosis/nixdash/internal/nixos"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		w, h := m.outputPaneSize()
		m.sess.Terminal().Resize(w, h)
		return m, nil

	case tickMsg:
		// Keep the emulator sized to the pane before draining so fresh
		// output lays out against current dimensions.
		if m.ready {
			w, h := m.outputPaneSize()
			m.sess.Terminal().Resize(w, h)
		}
		m.sess.Poll()
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.sess.ScrollUp()
			case tea.MouseButtonWheelDown:
				m.sess.ScrollDown()
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editMode != editNone {
		return m.handleEditKey(msg)
	}
	if m.sess.InputMode() {
		return m.handleInputKey(msg)
	}
	return m.handleNormalKey(msg)
}

// handleEditKey routes keys to the settings text field.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.commitEdit()
		return m, nil
	case tea.KeyEsc:
		m.cancelEdit()
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

// handleInputKey relays keystrokes to the running process.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.sess.LeaveInputMode()
	case tea.KeyEnter:
		m.sess.SendInput([]byte{'\n'})
	case tea.KeyBackspace:
		m.sess.SendInput([]byte{0x7F}) // DEL, what terminals send for backspace
	case tea.KeySpace:
		m.sess.SendInput([]byte{' '})
	case tea.KeyRunes:
		m.sess.SendInput([]byte(string(msg.Runes)))
	}
	return m, nil
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "q" || key == "ctrl+c" {
		if m.sess.RequestQuit() {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Every other action disarms a pending quit confirmation.
	m.sess.NoteUserAction()

	switch key {
	case "esc":
		m.sess.Cancel()
	case "tab":
		if m.focused == panelMain {
			m.focused = panelSettings
		} else {
			m.focused = panelMain
		}
	case "up":
		if m.selected > 0 {
			m.selected--
		}
	case "down":
		if m.selected < len(m.hosts())-1 {
			m.selected++
		}
	case "left", "h":
		m.operation = m.operation.Prev()
	case "right", "l":
		m.operation = m.operation.Next()
	case "k":
		m.sess.ScrollUp()
	case "j":
		m.sess.ScrollDown()
	case "pgup":
		for i := 0; i < 10; i++ {
			m.sess.ScrollUp()
		}
	case "pgdown":
		for i := 0; i < 10; i++ {
			m.sess.ScrollDown()
		}
	case "home":
		m.sess.ScrollToTop()
	case "end":
		m.sess.ScrollToLive()
	case "u":
		m.upgrade = !m.upgrade
	case "i":
		m.sess.ToggleInputMode()
	case "f":
		m.startEdit(editFlakePath, m.cfg.FlakePath)
	case "c":
		if host, ok := m.selectedHost(); ok {
			current := ""
			if host.Connection.Configured() {
				current = host.Connection.Display()
			}
			m.startEdit(editHostConnection, current)
		}
	case "a":
		if host, ok := m.selectedHost(); ok {
			m.startEdit(editExtraArgs, strings.Join(host.ExtraArgs, " "))
		}
	case "enter":
		m.startBuild()
	}
	return m, nil
}

func (m *Model) startEdit(mode editMode, current string) {
	m.editMode = mode
	m.editInput.SetValue(current)
	m.editInput.CursorEnd()
	m.editInput.Focus()
}

func (m *Model) cancelEdit() {
	m.editMode = editNone
	m.editInput.Blur()
	m.editInput.SetValue("")
}

// commitEdit applies the edited value to the config and saves it. Save
// failures are non-fatal; the edited value still applies in memory.
func (m *Model) commitEdit() {
	value := strings.TrimSpace(m.editInput.Value())

	switch m.editMode {
	case editFlakePath:
		m.cfg.FlakePath = value
	case editHostConnection:
		if host, ok := m.selectedHost(); ok {
			record := m.cfg.Hosts[host.Name]
			record.Connection = config.ParseConnection(value)
			m.cfg.Hosts[host.Name] = record
		}
	case editExtraArgs:
		if host, ok := m.selectedHost(); ok {
			record := m.cfg.Hosts[host.Name]
			record.ExtraArgs = strings.Fields(value)
			m.cfg.Hosts[host.Name] = record
		}
	}

	_ = m.cfg.Save()
	m.cancelEdit()
}

// startBuild assembles the command for the selected host and hands it to
// the session. The session reports an unconfigured host in the output
// pane on its own.
func (m *Model) startBuild() {
	host, ok := m.selectedHost()
	if !ok {
		return
	}

	extra := make([]string, 0, len(m.cfg.ExtraArgs)+len(host.ExtraArgs)+1)
	extra = append(extra, m.cfg.ExtraArgs...)
	extra = append(extra, host.ExtraArgs...)
	if m.upgrade {
		extra = append(extra, "--upgrade")
	}

	w, h := m.outputPaneSize()
	_ = m.sess.Start(nixos.Command{
		Operation:  m.operation,
		FlakePath:  m.cfg.FlakePath,
		ConfigName: host.Name,
		Connection: host.Connection,
		ExtraArgs:  extra,
		Cols:       uint16(w),
		Rows:       uint16(h),
	})
}
