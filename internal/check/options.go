package check

import (
	"fmt"
	"strings"
)

// BuildTarget selects the execution target. It is recorded and forwarded;
// checking itself is target-independent.
type BuildTarget uint8

const (
	TargetFuel BuildTarget = iota
	TargetEVM
	TargetMidenVM
)

func (t BuildTarget) String() string {
	switch t {
	case TargetEVM:
		return "evm"
	case TargetMidenVM:
		return "midenvm"
	default:
		return "fuel"
	}
}

// ParseBuildTarget accepts the names printed by String, case-insensitively.
func ParseBuildTarget(s string) (BuildTarget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fuel":
		return TargetFuel, nil
	case "evm":
		return TargetEVM, nil
	case "midenvm", "miden":
		return TargetMidenVM, nil
	}
	return TargetFuel, fmt.Errorf("unknown build target %q (expected fuel, evm or midenvm)", s)
}

// Options mirror the flags of `vela check`.
type Options struct {
	BuildTarget BuildTarget
	// Path is the project directory; empty means the working directory.
	Path string
	// Offline and Locked are accepted for dependency management and
	// forwarded unchanged; the checker does not read them.
	Offline bool
	Locked  bool
	// Terse limits rendered output. It never changes what is collected or
	// the verdict.
	Terse bool
	// DisableTests skips resolving #[test] functions. They are still
	// collected so their names stay reserved.
	DisableTests bool
	// MaxDiagnostics caps the diagnostic bag; 0 means unlimited.
	MaxDiagnostics int
}
