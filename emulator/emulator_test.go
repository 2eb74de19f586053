package emulator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bdwalton/nesgo/internal/config"
)

// writeNROM writes a minimal mapper-0 iNES image with a reset vector
// pointing at a single infinite-loop instruction, returning its path.
func writeNROM(t *testing.T) string {
	t.Helper()
	header := []byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	prg := make([]byte, 16384)
	prg[0x3FFC] = 0x00 // reset vector low, PRG offset for $FFFC in a 16K bank
	prg[0x3FFD] = 0x80 // reset vector high -> PC = $8000
	prg[0] = 0x4C      // JMP $8000 (spins in place)
	prg[1] = 0x00
	prg[2] = 0x80
	chr := make([]byte, 8192)

	data := append(append(header, prg...), chr...)
	path := filepath.Join(t.TempDir(), "test.nes")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestNewResetsCPUToVector(t *testing.T) {
	path := writeNROM(t)
	e, err := New(config.Config{Region: config.NTSC, ROMPath: path}, path, nil)
	require.NoError(t, err)

	require.Equal(t, uint16(0x8000), e.bus.CPU().PC)
}

func TestDrainFrameClearsFrameCompleteLatch(t *testing.T) {
	path := writeNROM(t)
	e, err := New(config.Config{Region: config.NTSC, ROMPath: path}, path, nil)
	require.NoError(t, err)

	e.DrainFrame()

	require.False(t, e.bus.PPU().FrameComplete(), "DrainFrame must clear the latch before returning")
}

func TestFramebufferSizeMatchesResolution(t *testing.T) {
	path := writeNROM(t)
	e, err := New(config.Config{Region: config.PAL, ROMPath: path}, path, nil)
	require.NoError(t, err)

	require.Len(t, e.Framebuffer(), 256*240)
}

func TestNewRejectsMissingROM(t *testing.T) {
	_, err := New(config.Config{Region: config.NTSC, ROMPath: "/nonexistent.nes"}, "/nonexistent.nes", nil)
	require.Error(t, err)
}
