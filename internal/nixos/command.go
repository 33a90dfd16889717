package nixos

import (
	"fmt"

	"github.com/dkoosis/nixdash/internal/config"
)

const rebuildTool = "nixos-rebuild"

// Command describes one rebuild invocation.
type Command struct {
	Operation  Operation
	FlakePath  string // empty means no --flake reference
	ConfigName string
	Connection config.Connection
	ExtraArgs  []string

	// Requested pseudo-terminal size, matching the output pane.
	Cols uint16
	Rows uint16
}

// Args builds the nixos-rebuild argument vector. Callers must validate
// the connection first; an unconfigured connection contributes no target
// arguments at all.
func (c Command) Args() []string {
	args := []string{c.Operation.String()}

	if c.FlakePath != "" {
		args = append(args, "--flake", fmt.Sprintf("%s#%s", c.FlakePath, c.ConfigName))
	}

	switch c.Connection.Kind {
	case config.Remote:
		args = append(args, "--target-host", c.Connection.Addr, "--use-remote-sudo")
	case config.Local:
		args = append(args, "--sudo")
	}

	return append(args, c.ExtraArgs...)
}
