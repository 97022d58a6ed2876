package engine

import "fmt"

// Mode selects which transformations a run performs
type Mode int

const (
	ModeSplit Mode = iota + 1
	ModeOptimize
	ModeAll
)

// String returns the mode name used on the command line and in MCP tools
func (m Mode) String() string {
	switch m {
	case ModeSplit:
		return "split"
	case ModeOptimize:
		return "optimize"
	case ModeAll:
		return "all"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Splits reports whether the mode runs the splitter
func (m Mode) Splits() bool {
	return m == ModeSplit || m == ModeAll
}

// Optimizes reports whether the mode runs the optimizer
func (m Mode) Optimizes() bool {
	return m == ModeOptimize || m == ModeAll
}

// Valid reports whether m is one of the declared modes
func (m Mode) Valid() bool {
	switch m {
	case ModeSplit, ModeOptimize, ModeAll:
		return true
	default:
		return false
	}
}

// ParseMode maps a mode name to a Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "split":
		return ModeSplit, nil
	case "optimize":
		return ModeOptimize, nil
	case "all", "":
		return ModeAll, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want split, optimize or all)", s)
	}
}
