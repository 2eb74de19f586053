// Package bus implements the NES CPU-side address space: work RAM, the PPU
// register window, the controller/APU input stub, OAM DMA, and cartridge
// PRG. It is the sole mutator of CPU RAM, matching the board's wiring where
// only the CPU (and DMA acting on its behalf) ever touches that memory.
package bus

import (
	"github.com/bdwalton/nesgo/cartridge"
	"github.com/bdwalton/nesgo/cpu"
	"github.com/bdwalton/nesgo/internal/config"
	"github.com/bdwalton/nesgo/internal/logger"
	"github.com/bdwalton/nesgo/mapper"
	"github.com/bdwalton/nesgo/ppu"
)

const (
	ramSize    = 0x0800
	oamDMAPort = 0x4014
	ctrlPort1  = 0x4016
	ctrlPort2  = 0x4017
)

// InputSource supplies the raw button bits latched by a controller-port
// read; the host owns how those bits are gathered (keyboard, gamepad).
type InputSource interface {
	ReadControllerState(port int) uint8
}

// Bus owns the CPU and PPU it wires together: it constructs both so
// neither needs a forward reference to the other, and exposes them to the
// scheduler that ticks the master clock.
type Bus struct {
	cpu    *cpu.CPU
	ppu    *ppu.PPU
	mapper mapper.Mapper
	cart   *cartridge.Cartridge
	log    logger.Debug

	ram [ramSize]uint8

	input      InputSource
	ctrlShift  [2]uint8
	ctrlStrobe bool

	masterTicks uint64
}

// New wires a Bus bound to cart/m, constructing its CPU and PPU. input may
// be nil, in which case controller reads report no buttons pressed.
func New(cart *cartridge.Cartridge, m mapper.Mapper, region config.Region, input InputSource, log logger.Debug) *Bus {
	b := &Bus{mapper: m, cart: cart, input: input, log: log}
	b.ppu = ppu.New(m, cart, region, log)
	b.cpu = cpu.New(b, log)
	return b
}

// CPU returns the bus's CPU, for the scheduler to step.
func (b *Bus) CPU() *cpu.CPU { return b.cpu }

// PPU returns the bus's PPU, for the scheduler to tick and poll for NMI.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// Read decodes addr into work RAM, the PPU register window, the
// input/APU stub, or cartridge PRG. Addresses claimed by no device return
// 0, matching spec's bus-decode-miss policy.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.ReadReg(uint8(addr & 0x0007))
	case addr == ctrlPort1:
		return b.readController(0)
	case addr == ctrlPort2:
		return b.readController(1)
	case addr < 0x4020:
		return 0 // APU registers: unimplemented, reads as a decode miss.
	default:
		offset, ok := b.mapper.MapCPU(addr)
		if !ok {
			b.log.Printf("bus: read decode miss at %04x", addr)
			return 0
		}
		return b.cart.PrgAt(offset)
	}
}

// Write decodes addr the same way as Read, plus the $4014 OAM DMA trigger
// and the $4016 controller strobe.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = val
	case addr < 0x4000:
		b.ppu.WriteReg(uint8(addr&0x0007), val)
	case addr == oamDMAPort:
		b.runOAMDMA(val)
	case addr == ctrlPort1:
		b.writeStrobe(val)
	case addr < 0x4020:
		// APU registers and $4017: unimplemented, write dropped.
	default:
		offset, ok := b.mapper.MapCPU(addr)
		if !ok {
			b.log.Printf("bus: write decode miss at %04x", addr)
			return
		}
		_ = offset // NROM's PRG is ROM; writes to it are simply dropped.
	}
}

// runOAMDMA copies the 256-byte CPU page val<<8 into OAM through repeated
// OAMDATA writes, and stalls the CPU 513 cycles, or 514 when the bus's
// master-tick count is odd at the time of the write. The parity of the
// CPU's own cycle count is not consulted.
func (b *Bus) runOAMDMA(val uint8) {
	base := uint16(val) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteOAMByte(i, b.Read(base+uint16(i)))
	}
	stall := uint16(513)
	if b.masterTicks%2 != 0 {
		stall = 514
	}
	b.cpu.Stall(stall)
}

func (b *Bus) writeStrobe(val uint8) {
	b.ctrlStrobe = val&0x01 != 0
	if b.ctrlStrobe {
		b.latchControllers()
	}
}

func (b *Bus) latchControllers() {
	if b.input == nil {
		b.ctrlShift[0], b.ctrlShift[1] = 0, 0
		return
	}
	b.ctrlShift[0] = b.input.ReadControllerState(0)
	b.ctrlShift[1] = b.input.ReadControllerState(1)
}

// readController shifts out one button bit per read, NES-standard-
// controller style: bit 0 first, and every read after the 8th reports 1.
func (b *Bus) readController(port int) uint8 {
	if b.ctrlStrobe {
		b.latchControllers()
	}
	bit := b.ctrlShift[port] & 0x01
	b.ctrlShift[port] = 0x80 | (b.ctrlShift[port] >> 1)
	return bit
}

// TickMaster advances the master clock by one tick: the PPU always
// advances one dot, the CPU steps every 3rd (NTSC) or 4th (PAL) tick, and
// a PPU-raised NMI edge is forwarded to the CPU the same tick it fires.
func (b *Bus) TickMaster(divisor uint64) {
	b.ppu.Tick()
	if b.ppu.PollNMI() {
		b.cpu.RequestNMI()
	}
	if b.masterTicks%divisor == 0 {
		b.cpu.Step()
	}
	b.masterTicks++
}
