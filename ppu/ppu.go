// Package ppu implements the NES Picture Processing Unit's dot/scanline
// timing state machine and CPU-visible register window. Pixel and sprite
// rendering are deliberately out of scope; the PPU fills a palette-index
// framebuffer a collaborator drains.
package ppu

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/bdwalton/nesgo/cartridge"
	"github.com/bdwalton/nesgo/internal/config"
	"github.com/bdwalton/nesgo/internal/logger"
	"github.com/bdwalton/nesgo/mapper"
)

const (
	VRAMSize    = 2048
	OAMSize     = 256
	PaletteSize = 32

	ResWidth  = 256
	ResHeight = 240
)

// CPU-visible register offsets, mirrored across $2000-$3FFF by the bus.
const (
	RegCTRL = iota
	RegMASK
	RegSTATUS
	RegOAMADDR
	RegOAMDATA
	RegSCROLL
	RegADDR
	RegDATA
)

// CTRL bits
const (
	ctrlNametableX  = 1 << 0
	ctrlNametableY  = 1 << 1
	ctrlVRAMIncrem  = 1 << 2
	ctrlSpritePat   = 1 << 3
	ctrlBGPat       = 1 << 4
	ctrlSpriteSize  = 1 << 5
	ctrlMasterSlave = 1 << 6
	ctrlNMIEnable   = 1 << 7
)

// STATUS bits
const (
	statusOverflow = 1 << 5
	statusSprite0  = 1 << 6
	statusVBlank   = 1 << 7
)

const (
	vramIncrAcross = 1
	vramIncrDown   = 32
)

// PPU is the dot-stepped timing state machine and register file. It owns
// no bus reference; NMI edges are surfaced through PollNMI so the
// scheduler (bus.Bus.TickMaster) can forward them to the CPU without a
// back-reference from ppu to its caller, avoiding a long-lived cycle
// between the two.
type PPU struct {
	mapper mapper.Mapper
	cart   *cartridge.Cartridge
	region config.Region
	log    logger.Debug

	ctrl, mask, status uint8
	oamAddr            uint8
	oam                [OAMSize]uint8

	v, t   loopy
	fineX  uint8
	wLatch bool

	readBuffer uint8

	nametables [VRAMSize]uint8
	palette    [PaletteSize]uint8

	dot           int16
	scanline      int16
	oddFrame      bool
	frameComplete bool
	nmiPending    bool

	pixels [ResWidth * ResHeight]uint8
}

// New constructs a PPU bound to m/cart for CHR and nametable-mirroring
// access, running at the given region's timing.
func New(m mapper.Mapper, cart *cartridge.Cartridge, region config.Region, log logger.Debug) *PPU {
	return &PPU{
		mapper:   m,
		cart:     cart,
		region:   region,
		log:      log,
		scanline: -1,
	}
}

// Framebuffer returns the 256x240 palette-index pixel grid the rendering
// collaborator drains; compositing itself is out of scope here.
func (p *PPU) Framebuffer() []uint8 { return p.pixels[:] }

// FrameComplete reports whether a full frame has finished since the last
// clear. The scheduler, not the PPU, owns clearing it: emulator's
// DrainFrame clears it before returning.
func (p *PPU) FrameComplete() bool { return p.frameComplete }

// ClearFrameComplete drops the frame_complete latch.
func (p *PPU) ClearFrameComplete() { p.frameComplete = false }

// PollNMI reports and clears a pending NMI edge raised by this PPU.
func (p *PPU) PollNMI() bool {
	if !p.nmiPending {
		return false
	}
	p.nmiPending = false
	return true
}

// WriteReg handles a CPU write to one of the 8 register offsets.
func (p *PPU) WriteReg(reg uint8, val uint8) {
	switch reg {
	case RegCTRL:
		old := p.ctrl
		p.ctrl = val
		p.t.data = (p.t.data &^ 0x0C00) | (uint16(val&0x03) << 10)
		if val&ctrlNMIEnable != 0 && old&ctrlNMIEnable == 0 && p.status&statusVBlank != 0 {
			p.nmiPending = true
		}
	case RegMASK:
		p.mask = val
	case RegOAMADDR:
		p.oamAddr = val
	case RegOAMDATA:
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case RegSCROLL:
		if !p.wLatch {
			p.t.setCoarseX(uint16(val >> 3))
			p.fineX = val & 0x07
			p.wLatch = true
		} else {
			p.t.setCoarseY(uint16(val >> 3))
			p.t.setFineY(uint16(val & 0x07))
			p.wLatch = false
		}
	case RegADDR:
		if !p.wLatch {
			p.t.data = (p.t.data & 0x00FF) | (uint16(val&0x3F) << 8)
			p.wLatch = true
		} else {
			p.t.data = (p.t.data & 0x7F00) | uint16(val)
			p.v = p.t
			p.wLatch = false
		}
	case RegDATA:
		p.write(p.v.data, val)
		p.incrementV()
	default:
		p.log.Printf("ppu: write to out-of-range register %d", reg)
	}
}

// ReadReg handles a CPU read from one of the 8 register offsets.
func (p *PPU) ReadReg(reg uint8) uint8 {
	switch reg {
	case RegSTATUS:
		result := (p.status & 0xE0) | (p.readBuffer & 0x1F)
		p.status &^= statusVBlank
		p.wLatch = false
		return result
	case RegOAMDATA:
		return p.oam[p.oamAddr]
	case RegDATA:
		data := p.read(p.v.data)
		if p.v.data >= 0x3F00 {
			// Palette reads are not buffered; the stale buffer still
			// latches the underlying nametable byte for the next read.
			p.readBuffer = p.nametables[p.v.data&0x0FFF%VRAMSize]
			p.incrementV()
			return data
		}
		result := p.readBuffer
		p.readBuffer = data
		p.incrementV()
		return result
	default:
		p.log.Printf("ppu: read from write-only register %d", reg)
		return 0
	}
}

func (p *PPU) incrementV() {
	if p.ctrl&ctrlVRAMIncrem != 0 {
		p.v.data += vramIncrDown
	} else {
		p.v.data += vramIncrAcross
	}
}

// WriteOAMByte writes one byte of an OAM DMA transfer at oamAddr+i,
// without disturbing OAMADDR itself the way a real DMA transfer does not
// rewind it mid-copy.
func (p *PPU) WriteOAMByte(i int, val uint8) {
	p.oam[uint8(i)+p.oamAddr] = val
}

// nametableIndex folds a $2000-$3EFF CPU/PPU address down onto one of the
// two physical 1KiB nametable pages, per the board's mirroring wiring. The
// $3000-$3EFF mirror of $2000-$2EFF is folded down first so the
// horizontal/vertical formula below always sees an offset in $000-$FFF.
func (p *PPU) nametableIndex(addr uint16) uint16 {
	a := (addr - 0x2000) % 0x1000
	switch p.cart.Mirroring() {
	case cartridge.MirrorVertical:
		return a % 0x800
	case cartridge.MirrorFourScreen:
		p.log.Printf("ppu: four-screen mirroring unsupported, falling back to horizontal")
		fallthrough
	default:
		if a >= 0x800 {
			return 0x400 + ((a - 0x800) % 0x400)
		}
		return a % 0x400
	}
}

func (p *PPU) read(addr uint16) uint8 {
	a := addr % 0x4000
	switch {
	case a < 0x2000:
		return p.cart.ChrAt(p.mapper.MapPPU(a))
	case a < 0x3F00:
		return p.nametables[p.nametableIndex(a)]
	default:
		return p.palette[paletteIndex(a)]
	}
}

func (p *PPU) write(addr uint16, val uint8) {
	a := addr % 0x4000
	switch {
	case a < 0x2000:
		offset := p.mapper.MapPPU(a)
		p.cart.ChrSet(offset, val)
	case a < 0x3F00:
		p.nametables[p.nametableIndex(a)] = val
	default:
		p.palette[paletteIndex(a)] = val
	}
}

// paletteIndex folds a $3F00-$3FFF address into the 32-entry palette RAM,
// applying the backdrop-color mirror ($3F10/$14/$18/$1C alias
// $3F00/$04/$08/$0C).
func paletteIndex(addr uint16) uint16 {
	i := (addr - 0x3F00) % PaletteSize
	if i&0x13 == 0x10 {
		i &^= 0x10
	}
	return i
}

// Tick advances the PPU by one dot: dot wraps to 0 at 341 (340 on NTSC's
// odd-frame pre-render line), scanline advances, and frame_complete is set
// when the scanline rolls from the last back to -1.
func (p *PPU) Tick() {
	if p.scanline == -1 && p.dot == 1 {
		p.status &^= statusVBlank | statusSprite0 | statusOverflow
	}
	if p.scanline == 241 && p.dot == 1 {
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnable != 0 {
			p.nmiPending = true
		}
	}

	p.dot++

	dotsThisLine := int16(341)
	if p.scanline == -1 && p.oddFrame && p.region == config.NTSC {
		dotsThisLine = 340
	}

	if p.dot < dotsThisLine {
		return
	}

	p.dot = 0
	p.scanline++

	lastScanline := p.region.ScanlinesPerFrame() - 2
	if p.scanline > lastScanline {
		p.scanline = -1
		p.oddFrame = !p.oddFrame
		p.frameComplete = true
	}
}

// Dump renders the register file for debug logging and tests.
func (p *PPU) Dump() string {
	return fmt.Sprintf("ctrl=%02x mask=%02x status=%02x scanline=%d dot=%d v=%04x t=%04x\n%s",
		p.ctrl, p.mask, p.status, p.scanline, p.dot, p.v.data, p.t.data, spew.Sdump(p.oam))
}
