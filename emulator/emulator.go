// Package emulator implements the master-clock scheduler that ties the CPU
// and PPU together against one cartridge: it is the single owner Design
// Notes call for, so neither the CPU nor the PPU needs a long-lived
// back-reference to the other.
package emulator

import (
	"fmt"

	"github.com/bdwalton/nesgo/bus"
	"github.com/bdwalton/nesgo/cartridge"
	"github.com/bdwalton/nesgo/internal/config"
	"github.com/bdwalton/nesgo/internal/logger"
	"github.com/bdwalton/nesgo/mapper"
)

// Emulator runs the master clock against one loaded cartridge.
type Emulator struct {
	bus  *bus.Bus
	cfg  config.Config
	cart *cartridge.Cartridge
}

// New loads romPath under cfg's region and wires a Bus (and, through it, a
// CPU and PPU) against the resulting cartridge.
func New(cfg config.Config, romPath string, input bus.InputSource) (*Emulator, error) {
	cart, err := cartridge.Load(romPath)
	if err != nil {
		return nil, fmt.Errorf("emulator: load cartridge: %w", err)
	}

	m, err := mapper.Get(cart)
	if err != nil {
		return nil, fmt.Errorf("emulator: resolve mapper: %w", err)
	}

	log := cfg.Logger()
	e := &Emulator{
		bus:  bus.New(cart, m, cfg.Region, input, log),
		cfg:  cfg,
		cart: cart,
	}
	e.Reset()
	return e, nil
}

// Reset reinitializes CPU state via the Reset sequence. The bus's
// master-tick counter is not reset; it keeps counting from its current
// value.
func (e *Emulator) Reset() {
	e.bus.CPU().Reset()
}

// Framebuffer returns the PPU's current 256x240 palette-index pixel grid.
func (e *Emulator) Framebuffer() []uint8 { return e.bus.PPU().Framebuffer() }

// DrainFrame ticks the master clock until the PPU's frame_complete latch
// rises, then clears it before returning — the caller, not the PPU, owns
// that clear.
func (e *Emulator) DrainFrame() {
	divisor := e.cfg.Region.CPUDivisor()
	for !e.bus.PPU().FrameComplete() {
		e.bus.TickMaster(divisor)
	}
	e.bus.PPU().ClearFrameComplete()
}
