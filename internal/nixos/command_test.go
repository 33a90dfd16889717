package nixos

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkoosis/nixdash/internal/config"
)

func TestArgs_UsesSudo_When_LocalConnection(t *testing.T) {
	t.Parallel()

	cmd := Command{
		Operation:  Switch,
		Connection: config.LocalConnection(),
	}
	assert.Equal(t, []string{"switch", "--sudo"}, cmd.Args())
}

func TestArgs_UsesTargetHost_When_RemoteConnection(t *testing.T) {
	t.Parallel()

	cmd := Command{
		Operation:  Boot,
		Connection: config.RemoteConnection("admin@server"),
	}
	assert.Equal(t,
		[]string{"boot", "--target-host", "admin@server", "--use-remote-sudo"},
		cmd.Args())
}

func TestArgs_IncludesFlakeReference_When_FlakePathSet(t *testing.T) {
	t.Parallel()

	cmd := Command{
		Operation:  Switch,
		FlakePath:  "/etc/nixos",
		ConfigName: "athena",
		Connection: config.LocalConnection(),
	}
	assert.Equal(t,
		[]string{"switch", "--flake", "/etc/nixos#athena", "--sudo"},
		cmd.Args())
}

func TestArgs_AppendsExtraArgs_When_Provided(t *testing.T) {
	t.Parallel()

	cmd := Command{
		Operation:  Test,
		Connection: config.LocalConnection(),
		ExtraArgs:  []string{"--upgrade", "--show-trace"},
	}
	assert.Equal(t,
		[]string{"test", "--sudo", "--upgrade", "--show-trace"},
		cmd.Args())
}

func TestArgs_OmitsTargetFlags_When_Unconfigured(t *testing.T) {
	t.Parallel()

	cmd := Command{Operation: DryBuild}
	assert.Equal(t, []string{"dry-build"}, cmd.Args())
}

func TestOperation_CyclesThroughAll_When_NextRepeated(t *testing.T) {
	t.Parallel()

	op := Switch
	seen := map[Operation]bool{}
	for i := 0; i < len(Operations()); i++ {
		seen[op] = true
		op = op.Next()
	}
	assert.Equal(t, Switch, op)
	assert.Len(t, seen, len(Operations()))
}

func TestOperation_IsInverseOfNext_When_Prev(t *testing.T) {
	t.Parallel()

	for _, op := range Operations() {
		assert.Equal(t, op, op.Next().Prev())
	}
}

func TestOperation_FormatsKebabCase_When_MultiWord(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dry-activate", DryActivate.String())
	assert.Equal(t, "dry-build", DryBuild.String())
}
