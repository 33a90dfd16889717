// Package flake discovers NixOS configuration names from a flake by
// shelling out to the nix CLI.
package flake

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Discover runs `nix flake show --json` against flakeRef and returns the
// configuration names found under nixosConfigurations.
func Discover(flakeRef string) (map[string]struct{}, error) {
	out, err := exec.Command("nix", "flake", "show", "--json", flakeRef).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("nix flake show: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("nix flake show: %w", err)
	}
	return ParseShowOutput(out)
}

// ParseShowOutput extracts configuration names from `nix flake show
// --json` output.
func ParseShowOutput(data []byte) (map[string]struct{}, error) {
	var doc struct {
		NixosConfigurations map[string]json.RawMessage `json:"nixosConfigurations"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing nix flake show output: %w", err)
	}

	names := make(map[string]struct{}, len(doc.NixosConfigurations))
	for name := range doc.NixosConfigurations {
		names[name] = struct{}{}
	}
	return names, nil
}

// Hostname returns the machine's hostname, used to auto-assign the local
// connection to a matching configuration name.
func Hostname() (string, error) {
	name, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("resolving hostname: %w", err)
	}
	return strings.TrimSpace(name), nil
}
