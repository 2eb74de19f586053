package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdwalton/nesgo/cartridge"
)

func TestNROM16KMirrorsAcrossWindow(t *testing.T) {
	cart := &cartridge.Cartridge{MapperID: 0, PRG: make([]uint8, prgBankSize)}
	m, err := Get(cart)
	require.NoError(t, err)

	lo, ok := m.MapCPU(0x8000)
	require.True(t, ok)
	hi, ok := m.MapCPU(0xC000)
	require.True(t, ok)

	assert.Equal(t, lo, hi, "a 16KiB PRG bank mirrors into the upper half of the window")
}

func TestNROM32KMapsDirectly(t *testing.T) {
	cart := &cartridge.Cartridge{MapperID: 0, PRG: make([]uint8, prgBankSize*2)}
	m, err := Get(cart)
	require.NoError(t, err)

	lo, _ := m.MapCPU(0x8000)
	hi, _ := m.MapCPU(0xC000)

	assert.Equal(t, uint16(0), lo)
	assert.Equal(t, uint16(0x4000), hi)
}

func TestNROMRejectsAddressBelowWindow(t *testing.T) {
	cart := &cartridge.Cartridge{MapperID: 0, PRG: make([]uint8, prgBankSize)}
	m, err := Get(cart)
	require.NoError(t, err)

	_, ok := m.MapCPU(0x0100)
	assert.False(t, ok)
}

func TestNROMMapPPUMasksTo8K(t *testing.T) {
	cart := &cartridge.Cartridge{MapperID: 0, PRG: make([]uint8, prgBankSize)}
	m, err := Get(cart)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x0000), m.MapPPU(0x2000))
	assert.Equal(t, uint16(0x1FFF), m.MapPPU(0x1FFF))
}
