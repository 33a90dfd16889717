// Package nixos constructs and runs nixos-rebuild invocations. A build is
// spawned attached to a pseudo-terminal and bridged to a pair of bounded
// channels: raw output chunks flow out, raw keystrokes flow in. Completion
// is signaled in-stream with synthetic sentinel lines.
package nixos

// Operation is a nixos-rebuild subcommand.
type Operation int

const (
	Switch Operation = iota
	Boot
	Test
	BuildOp
	DryBuild
	DryActivate
)

var operationNames = map[Operation]string{
	Switch:      "switch",
	Boot:        "boot",
	Test:        "test",
	BuildOp:     "build",
	DryBuild:    "dry-build",
	DryActivate: "dry-activate",
}

// Operations returns all operations in cycling order.
func Operations() []Operation {
	return []Operation{Switch, Boot, Test, BuildOp, DryBuild, DryActivate}
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "switch"
}

// Next returns the following operation, wrapping around.
func (o Operation) Next() Operation {
	ops := Operations()
	return ops[(o.index()+1)%len(ops)]
}

// Prev returns the preceding operation, wrapping around.
func (o Operation) Prev() Operation {
	ops := Operations()
	return ops[(o.index()+len(ops)-1)%len(ops)]
}

func (o Operation) index() int {
	for i, op := range Operations() {
		if op == o {
			return i
		}
	}
	return 0
}
