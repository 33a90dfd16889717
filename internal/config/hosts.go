package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ConnKind classifies how a host is reached.
type ConnKind int

const (
	// Unconfigured hosts are known by name but have no connection yet;
	// they cannot be rebuilt.
	Unconfigured ConnKind = iota
	// Local hosts rebuild on this machine with sudo.
	Local
	// Remote hosts rebuild over SSH via --target-host.
	Remote
)

// Connection describes how to reach a host. The YAML form is a plain
// string: "localhost" means local, any other non-empty string is a remote
// address (user@host or host), and empty or null means unconfigured.
type Connection struct {
	Kind ConnKind
	Addr string // remote address, set only when Kind == Remote
}

// LocalConnection returns the connection for rebuilds on this machine.
func LocalConnection() Connection {
	return Connection{Kind: Local}
}

// RemoteConnection returns a connection to the given address.
func RemoteConnection(addr string) Connection {
	return Connection{Kind: Remote, Addr: addr}
}

// ParseConnection maps an edited connection string to a Connection using
// the same convention as the YAML form.
func ParseConnection(s string) Connection {
	switch s {
	case "":
		return Connection{Kind: Unconfigured}
	case "localhost":
		return LocalConnection()
	default:
		return RemoteConnection(s)
	}
}

// Configured reports whether the host can actually be rebuilt.
func (c Connection) Configured() bool {
	return c.Kind != Unconfigured
}

// Display returns the string shown in the UI for this connection.
func (c Connection) Display() string {
	switch c.Kind {
	case Local:
		return "localhost"
	case Remote:
		return c.Addr
	default:
		return "(unconfigured)"
	}
}

// MarshalYAML implements yaml.Marshaler.
func (c Connection) MarshalYAML() (interface{}, error) {
	switch c.Kind {
	case Local:
		return "localhost", nil
	case Remote:
		return c.Addr, nil
	default:
		return "", nil
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Connection) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*c = Connection{Kind: Unconfigured}
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("connection must be a string: %w", err)
	}
	*c = ParseConnection(s)
	return nil
}

// HostConfig is the stored per-host record.
type HostConfig struct {
	Connection Connection `yaml:"connection"`
	ExtraArgs  []string   `yaml:"extra_args,omitempty"`
}

// UnconfiguredHost returns a host record with no connection.
func UnconfiguredHost() HostConfig {
	return HostConfig{Connection: Connection{Kind: Unconfigured}}
}

// LocalHost returns a host record pointing at this machine.
func LocalHost() HostConfig {
	return HostConfig{Connection: LocalConnection()}
}
