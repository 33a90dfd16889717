// nixdash is an interactive dashboard for nixos-rebuild: pick a host and
// an operation, watch the live rebuild output in an embedded virtual
// terminal, and answer interactive prompts (sudo passwords included)
// without leaving the UI.
//
// Usage:
//
//	nixdash            launch the dashboard
//	nixdash -version   print version information
//
// Configuration lives in $XDG_CONFIG_HOME/nixdash/config.yaml. When a
// flake path is configured, configuration names are discovered from
// `nix flake show` on startup and merged into the host list.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/dkoosis/nixdash/internal/config"
	"github.com/dkoosis/nixdash/internal/flake"
	"github.com/dkoosis/nixdash/internal/tui"
	"github.com/dkoosis/nixdash/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("nixdash", flag.ContinueOnError)
	fs.SetOutput(stderr)
	versionFlag := fs.Bool("version", false, "Print version and exit")
	configFlag := fs.String("config", "", "Config file path (default: XDG config dir)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *versionFlag {
		fmt.Fprintf(stdout, "nixdash %s (%s, built %s)\n",
			version.Version, version.CommitHash, version.BuildDate)
		return 0
	}

	if !isTTYWriter(stdout) {
		fmt.Fprintln(stderr, "nixdash: stdout is not a terminal")
		return 1
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "nixdash: %v\n", err)
		return 1
	}

	// Best effort: discovery failures (no nix, no network, bad flake)
	// leave the configured host list untouched.
	if cfg.FlakePath != "" {
		if names, err := flake.Discover(cfg.FlakePath); err == nil {
			if hostname, err := flake.Hostname(); err == nil {
				cfg.MergeDiscovered(names, hostname)
				_ = cfg.Save()
			}
		}
	}

	program := tea.NewProgram(tui.New(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithOutput(stdout),
	)
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(stderr, "nixdash: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
