// Package mapper implements cartridge-side address translation — the
// indirection between CPU/PPU addresses and PRG/CHR bank offsets. A
// registry keyed by numeric mapper ID holds a constructor per mapper, so
// each Get call builds a fresh Mapper instance bound to one cartridge.
package mapper

import (
	"fmt"

	"github.com/bdwalton/nesgo/cartridge"
)

// Mapper translates CPU and PPU addresses into offsets within a
// cartridge's PRG/CHR byte stores. Implementations are stateless address
// translators, nothing more.
type Mapper interface {
	// MapCPU translates a CPU address in $8000-$FFFF into a PRG offset.
	// ok is false for any address the mapper does not claim, which is a
	// bus-level decode miss rather than a mapper concern.
	MapCPU(addr uint16) (offset uint16, ok bool)
	// MapPPU translates a PPU address in $0000-$1FFF into a CHR offset.
	MapPPU(addr uint16) (offset uint16)
}

// Constructor builds a fresh Mapper bound to cart.
type Constructor func(cart *cartridge.Cartridge) (Mapper, error)

var registry = map[uint8]Constructor{}

// RegisterMapper adds a Constructor for the given numeric mapper ID. It
// panics on a duplicate registration.
func RegisterMapper(id uint8, ctor Constructor) {
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("mapper: id %d already registered", id))
	}
	registry[id] = ctor
}

// Get instantiates the Mapper registered for cart's MapperID, or
// ErrUnsupportedMapper if no constructor is registered for that ID.
func Get(cart *cartridge.Cartridge) (Mapper, error) {
	ctor, ok := registry[cart.MapperID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", cartridge.ErrUnsupportedMapper, cart.MapperID)
	}
	return ctor(cart)
}
