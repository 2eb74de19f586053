package mapper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bdwalton/nesgo/cartridge"
)

func TestGetUnregisteredMapperID(t *testing.T) {
	cart := &cartridge.Cartridge{MapperID: 0xFE}
	_, err := Get(cart)
	assert.True(t, errors.Is(err, cartridge.ErrUnsupportedMapper))
}

func TestRegisterMapperPanicsOnDuplicate(t *testing.T) {
	RegisterMapper(0xF0, func(cart *cartridge.Cartridge) (Mapper, error) { return nil, nil })
	defer delete(registry, 0xF0)

	assert.Panics(t, func() {
		RegisterMapper(0xF0, func(cart *cartridge.Cartridge) (Mapper, error) { return nil, nil })
	})
}

func TestGetInstantiatesRegisteredMapper(t *testing.T) {
	cart := &cartridge.Cartridge{MapperID: 0, PRG: make([]uint8, 16384)}
	m, err := Get(cart)
	assert.NoError(t, err)
	assert.NotNil(t, m)
}
