// Package config holds the runtime configuration threaded explicitly
// through construction of the emulator, rather than kept as package-level
// globals.
package config

import "github.com/bdwalton/nesgo/internal/logger"

// Region selects the CPU/PPU timing divisor and PPU scanline count.
type Region uint8

const (
	NTSC Region = iota
	PAL
)

// String renders the region name for logging and flag help text.
func (r Region) String() string {
	if r == PAL {
		return "PAL"
	}
	return "NTSC"
}

// CPUDivisor returns how many master-clock ticks occur per CPU step.
func (r Region) CPUDivisor() uint64 {
	if r == PAL {
		return 4
	}
	return 3
}

// ScanlinesPerFrame returns the total scanline count for the region
// (pre-render line included).
func (r Region) ScanlinesPerFrame() int16 {
	if r == PAL {
		return 312
	}
	return 262
}

// Config is the full set of knobs the emulator is constructed from.
type Config struct {
	Region  Region
	ROMPath string
	Trace   bool // enables the Debug logger
}

// Logger builds the Debug logger the engine reports illegal-opcode and
// bus-decode-miss events through, enabled only when Trace is set.
func (c Config) Logger() logger.Debug {
	return logger.Debug{Logger: logger.Default().Logger, Enabled: c.Trace}
}
