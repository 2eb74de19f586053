package mapper

import "github.com/bdwalton/nesgo/cartridge"

func init() {
	RegisterMapper(0, newNROM)
}

// nrom implements mapper 0. A 16KiB PRG bank mirrors across the full
// $8000-$FFFF window; a 32KiB bank maps directly. CHR is either a fixed
// 8KiB ROM bank or, when the cartridge carries no CHR ROM, the 8KiB of
// CHR RAM cartridge.Parse already allocated.
type nrom struct {
	prgMask uint16
}

func newNROM(cart *cartridge.Cartridge) (Mapper, error) {
	m := &nrom{}
	if len(cart.PRG) > prgBankSize {
		m.prgMask = 0x7FFF
	} else {
		m.prgMask = 0x3FFF
	}
	return m, nil
}

const prgBankSize = 16384

func (m *nrom) MapCPU(addr uint16) (uint16, bool) {
	if addr < 0x8000 {
		return 0, false
	}
	return (addr - 0x8000) & m.prgMask, true
}

func (m *nrom) MapPPU(addr uint16) uint16 {
	return addr & 0x1FFF
}
