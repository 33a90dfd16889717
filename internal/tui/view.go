package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/nixdash/pkg/vterm"
)

var titleCaser = cases.Title(language.English)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	mainHeight := m.mainPanelHeight()
	hostWidth := m.width / 4
	outputWidth := m.width - hostWidth

	hostPanel := m.renderHostPanel(hostWidth, mainHeight)
	outputPanel := m.renderOutputPanel(outputWidth, mainHeight)
	settingsPanel := m.renderSettingsPanel(m.width, settingsPanelHeight)

	main := lipgloss.JoinHorizontal(lipgloss.Top, hostPanel, outputPanel)
	return lipgloss.JoinVertical(lipgloss.Left, main, settingsPanel)
}

// renderHostPanel paints the host list with the selection highlighted and
// the pending operation in the title.
func (m Model) renderHostPanel(width, height int) string {
	inner := width - 2
	title := fmt.Sprintf(" hosts - %s%s ", m.operation, upgradeSuffix(m.upgrade))

	lines := []string{panelTitleStyle.Render(fitLine(title, inner))}
	for i, host := range m.cfg.SortedHosts() {
		prefix := "  "
		if i == m.selected {
			prefix = "> "
		}

		var label string
		if host.Connection.Configured() {
			label = fmt.Sprintf("%s%s (%s)", prefix, host.Name, host.Connection.Display())
		} else {
			label = fmt.Sprintf("%s%s %s", prefix, host.Name, host.Connection.Display())
		}
		label = fitLine(label, inner)

		switch {
		case i == m.selected && m.focused == panelMain:
			lines = append(lines, selectedHostStyle.Render(label))
		case !host.Connection.Configured():
			lines = append(lines, unconfiguredHostStyle.Render(label))
		default:
			lines = append(lines, label)
		}
	}
	if len(m.cfg.Hosts) == 0 {
		lines = append(lines, placeholderStyle.Render(" no hosts - set a flake path [f]"))
	}

	border := blurredBorder
	if m.focused == panelMain {
		border = focusedBorder
	}
	return border.Width(inner).Height(height - 2).Render(joinFixed(lines, height-2))
}

// renderOutputPanel paints scrollback plus the live screen, honoring the
// scroll offset; offset 0 pins the view to the most recent lines.
func (m Model) renderOutputPanel(width, height int) string {
	inner := width - 2
	visible := height - 3 // border rows and the title line

	lines := []string{panelTitleStyle.Render(fitLine(m.outputTitle(), inner))}
	lines = append(lines, m.visibleOutputLines(visible)...)

	border := blurredBorder
	if m.sess.InputMode() {
		border = inputModeBorder
	}
	return border.Width(inner).Height(height - 2).Render(joinFixed(lines, height-2))
}

func (m Model) outputTitle() string {
	switch {
	case m.sess.InputMode():
		return " output [INPUT MODE - type response, esc to exit] "
	case m.sess.Building():
		return fmt.Sprintf(" output %s building... [i: input mode] ", m.spin.View())
	case m.sess.ScrollOffset() > 0:
		return fmt.Sprintf(" output [j/k: scroll | up %d lines | end: live] ", m.sess.ScrollOffset())
	default:
		return " output [j/k: scroll | h/l: operation | enter: rebuild] "
	}
}

// visibleOutputLines flattens scrollback+screen, trims trailing blanks,
// and slices out the window selected by the scroll offset.
func (m Model) visibleOutputLines(visible int) []string {
	term := m.sess.Terminal()
	rows := make([][]vterm.Cell, 0, len(term.Scrollback())+len(term.Screen()))
	rows = append(rows, term.Scrollback()...)
	rows = append(rows, term.Screen()...)

	for len(rows) > 0 && rowBlank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}

	if len(rows) == 0 {
		if m.sess.Building() {
			return []string{placeholderStyle.Render(" building...")}
		}
		return []string{placeholderStyle.Render(" no output yet - select a host and press enter to rebuild")}
	}

	if len(rows) > visible {
		maxScroll := len(rows) - visible
		offset := m.sess.ScrollOffset()
		if offset > maxScroll {
			offset = maxScroll
		}
		start := maxScroll - offset
		rows = rows[start : start+visible]
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = renderRow(row)
	}
	return lines
}

// renderRow converts one cell row into a styled string, grouping runs of
// cells that share attributes into a single styled segment.
func renderRow(row []vterm.Cell) string {
	last := len(row) - 1
	for last >= 0 && cellBlank(row[last]) {
		last--
	}
	if last < 0 {
		return ""
	}

	var sb strings.Builder
	var run strings.Builder
	cur := row[0]
	for _, cell := range row[:last+1] {
		if !sameAttrs(cell, cur) {
			sb.WriteString(styleFor(cur).Render(run.String()))
			run.Reset()
			cur = cell
		}
		run.WriteRune(cell.Ch)
	}
	sb.WriteString(styleFor(cur).Render(run.String()))
	return sb.String()
}

func sameAttrs(a, b vterm.Cell) bool {
	return a.Fg == b.Fg && a.Bg == b.Bg && a.Bold == b.Bold
}

func cellBlank(c vterm.Cell) bool {
	return c.Ch == ' ' && c.Bg == vterm.NoColor
}

func rowBlank(row []vterm.Cell) bool {
	for _, c := range row {
		if !cellBlank(c) {
			return false
		}
	}
	return true
}

// renderSettingsPanel paints the flake path, the selected host's
// connection, and its extra args, swapping in the edit field for the
// value being edited.
func (m Model) renderSettingsPanel(width, height int) string {
	inner := width - 2
	host, hasHost := m.selectedHost()

	flakeValue := valueOrPlaceholder(m.cfg.FlakePath, "(not set)")
	hostValue := "(no host selected)"
	argsValue := "(none)"
	if hasHost {
		hostValue = fmt.Sprintf("%s -> %s", host.Name, host.Connection.Display())
		if len(host.ExtraArgs) > 0 {
			argsValue = strings.Join(host.ExtraArgs, " ")
		}
	}

	flake := flakeValueStyle.Render(flakeValue)
	conn := hostValueStyle.Render(hostValue)
	args := argsValueStyle.Render(argsValue)
	switch m.editMode {
	case editFlakePath:
		flake = m.editInput.View()
	case editHostConnection:
		conn = m.editInput.View()
	case editExtraArgs:
		args = m.editInput.View()
	}

	opName := titleCaser.String(m.operation.String())

	lines := []string{
		panelTitleStyle.Render(fitLine(" settings ", inner)),
		" flake: " + flake + " " + labelStyle.Render("[f]"),
		" selected: " + conn + " " + labelStyle.Render("[c]"),
		" extra args: " + args + " " + labelStyle.Render("[a]"),
		" operation: " + opName + upgradeSuffix(m.upgrade) + " " + labelStyle.Render("[h/l, u]"),
	}

	if m.editMode != editNone {
		lines = append(lines, helpStyle.Render(" [enter] save | [esc] cancel"))
	} else {
		lines = append(lines, helpStyle.Render(" [tab] focus | [f/c/a] edit | [q] quit"))
	}

	border := blurredBorder
	if m.focused == panelSettings {
		border = focusedBorder
	}
	return border.Width(inner).Height(height - 2).Render(joinFixed(lines, height-2))
}

func valueOrPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

func upgradeSuffix(upgrade bool) string {
	if upgrade {
		return " --upgrade"
	}
	return ""
}

// fitLine truncates to the target cell width, accounting for wide runes.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// joinFixed pads or cuts lines to an exact panel height.
func joinFixed(lines []string, height int) string {
	if height < 1 {
		height = 1
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
