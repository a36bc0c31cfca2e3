package driver

import (
	"fmt"
	"strings"

	"sysyc/internal/observ"
)

// EmitMode selects the artifact a compilation produces.
type EmitMode uint8

const (
	EmitRISCV EmitMode = iota
	EmitKoopa
)

func (m EmitMode) String() string {
	switch m {
	case EmitRISCV:
		return "riscv"
	case EmitKoopa:
		return "koopa"
	default:
		return "unknown"
	}
}

// Ext is the default output file extension for the mode.
func (m EmitMode) Ext() string {
	if m == EmitKoopa {
		return ".koopa"
	}
	return ".S"
}

// ParseEmitMode converts a string to EmitMode.
func ParseEmitMode(s string) (EmitMode, error) {
	switch strings.ToLower(s) {
	case "riscv", "asm":
		return EmitRISCV, nil
	case "koopa", "ir":
		return EmitKoopa, nil
	default:
		return EmitRISCV, fmt.Errorf("invalid mode: %q (expected: riscv|koopa)", s)
	}
}

type Options struct {
	Mode           EmitMode
	Fold           bool
	MaxDiagnostics int
	Cache          *DiskCache    // nil disables the IR cache
	Timer          *observ.Timer // nil disables phase timings
	Progress       ProgressSink  // nil disables progress events
}

func (o Options) track(name string, fn func() error) error {
	if o.Timer == nil {
		return fn()
	}
	return o.Timer.Track(name, fn)
}
