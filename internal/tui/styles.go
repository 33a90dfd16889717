package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/nixdash/pkg/vterm"
)

var (
	focusedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6"))

	blurredBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8"))

	inputModeBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("3"))

	panelTitleStyle = lipgloss.NewStyle().Bold(true)

	selectedHostStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	unconfiguredHostStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	flakeValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hostValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	argsValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// cellStyleKey identifies one rendered attribute combination.
type cellStyleKey struct {
	fg   int
	bg   int
	bold bool
}

// cellStyles caches the lipgloss style for each attribute combination the
// emulator can produce (8 colors each way plus bold), built on demand.
var cellStyles = map[cellStyleKey]lipgloss.Style{}

func styleFor(cell vterm.Cell) lipgloss.Style {
	key := cellStyleKey{fg: cell.Fg, bg: cell.Bg, bold: cell.Bold}
	if st, ok := cellStyles[key]; ok {
		return st
	}
	st := lipgloss.NewStyle()
	if cell.Fg != vterm.NoColor {
		st = st.Foreground(ansiColor(cell.Fg))
	}
	if cell.Bg != vterm.NoColor {
		st = st.Background(ansiColor(cell.Bg))
	}
	if cell.Bold {
		st = st.Bold(true)
	}
	cellStyles[key] = st
	return st
}

func ansiColor(index int) lipgloss.Color {
	if index < 0 || index > 7 {
		return lipgloss.Color("7")
	}
	return lipgloss.Color(strconv.Itoa(index))
}
