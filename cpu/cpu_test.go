package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdwalton/nesgo/internal/logger"
)

type mem struct {
	data [65536]uint8
}

func (m *mem) Read(addr uint16) uint8     { return m.data[addr] }
func (m *mem) Write(addr uint16, v uint8) { m.data[addr] = v }

func newTestCPU(t *testing.T) (*CPU, *mem) {
	t.Helper()
	m := &mem{}
	return New(m, logger.Debug{Logger: logger.Discard, Enabled: true}), m
}

// stepOne runs exactly one instruction to completion (assumes the CPU is
// parked between instructions beforehand).
func stepOne(c *CPU) {
	c.Step()
	for c.cyclesRemaining > 0 {
		c.Step()
	}
}

func TestLDAImmediateZeroFlag(t *testing.T) {
	c, m := newTestCPU(t)
	c.A = 0xFF
	m.Write(0, 0xA9) // LDA #$00
	m.Write(1, 0x00)

	stepOne(c)

	assert.Equal(t, uint8(0x00), c.A)
	assert.NotZero(t, c.P&FlagZ)
	assert.Zero(t, c.P&FlagN)
	assert.Equal(t, uint16(2), c.PC)
}

func TestADCOverflow(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0, 0xA9) // LDA #$7F
	m.Write(1, 0x7F)
	m.Write(2, 0x69) // ADC #$01
	m.Write(3, 0x01)

	stepOne(c)
	stepOne(c)

	assert.Equal(t, uint8(0x80), c.A)
	assert.NotZero(t, c.P&FlagN)
	assert.NotZero(t, c.P&FlagV)
	assert.Zero(t, c.P&FlagZ)
	assert.Zero(t, c.P&FlagC)
}

func TestBranchTakenCrossPage(t *testing.T) {
	c, m := newTestCPU(t)
	c.PC = 0x01FD
	c.P &^= FlagZ // BNE requires Z clear
	m.Write(0x01FD, 0xD0) // BNE +16
	m.Write(0x01FE, 0x10)

	stepOne(c)

	require.Equal(t, uint16(0x020F), c.PC)
}

func TestIndirectJMPPageBoundaryBug(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x02FF, 0x40)
	m.Write(0x0200, 0x50) // same page as 0x02FF, NOT 0x0300
	m.Write(0x0300, 0x60)
	m.Write(0, 0x6C) // JMP ($02FF)
	m.Write(1, 0xFF)
	m.Write(2, 0x02)

	stepOne(c)

	assert.Equal(t, uint16(0x5040), c.PC)
}

func TestResetVector(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0xFFFC, 0x00)
	m.Write(0xFFFD, 0x80)

	c.Reset()

	assert.Equal(t, uint16(0x8000), c.PC)
	assert.Equal(t, uint8(0xFD), c.SP)
	assert.NotZero(t, c.P&FlagI)
	assert.NotZero(t, c.P&FlagU)
	assert.Equal(t, uint8(8), c.cyclesRemaining)
}

func TestZeroPageXWraparound(t *testing.T) {
	c, m := newTestCPU(t)
	c.X = 1
	m.Write(0, 0xFF) // operand $FF + X=1 should wrap to $00, not $0100

	got, _ := c.resolve(ZeroPageX)

	assert.Equal(t, uint16(0x00), got)
}

func TestStackWraparound(t *testing.T) {
	c, _ := newTestCPU(t)
	c.SP = 0x00
	c.pushStack(0x42)
	assert.Equal(t, uint8(0xFF), c.SP)
	got := c.popStack()
	assert.Equal(t, uint8(0x42), got)
	assert.Equal(t, uint8(0x00), c.SP)
}

func TestBRKPushesUBitAndSetsIAfterPush(t *testing.T) {
	c, m := newTestCPU(t)
	c.P = 0 // I starts clear
	m.Write(0xFFFE, 0x34)
	m.Write(0xFFFF, 0x12)
	m.Write(0, 0x00) // BRK

	stepOne(c)

	assert.Equal(t, uint16(0x1234), c.PC)
	assert.NotZero(t, c.P&FlagI, "I should be set after BRK")
	pushedP := m.Read(0x01FB) // SP started at $FD; two address-bytes pushed first
	assert.NotZero(t, pushedP&FlagU, "U bit must be 1 in the pushed P byte")
	assert.NotZero(t, pushedP&FlagB, "B bit must be 1 in a BRK-pushed P byte")
}

func TestIRQMaskedWhenIFlagSet(t *testing.T) {
	c, m := newTestCPU(t)
	c.P |= FlagI
	m.Write(0, 0xEA) // NOP
	c.RequestIRQ()

	stepOne(c)

	assert.Equal(t, uint16(1), c.PC, "IRQ must not be serviced while I is set")
}

func TestIRQServicedWhenIFlagClear(t *testing.T) {
	c, m := newTestCPU(t)
	c.P &^= FlagI
	m.Write(0xFFFE, 0x00)
	m.Write(0xFFFF, 0x90)
	c.RequestIRQ()

	c.Step() // interrupts are polled when cyclesRemaining hits 0
	for c.cyclesRemaining > 0 {
		c.Step()
	}

	assert.Equal(t, uint16(0x9000), c.PC)
	assert.NotZero(t, c.P&FlagI)
}

func TestNMIAlwaysHonoredEvenWithIFlagSet(t *testing.T) {
	c, m := newTestCPU(t)
	c.P |= FlagI
	m.Write(0xFFFA, 0x00)
	m.Write(0xFFFB, 0xA0)
	c.RequestNMI()

	stepOne(c)

	assert.Equal(t, uint16(0xA000), c.PC)
}

func TestPageCrossAbsoluteXLoadAddsCycle(t *testing.T) {
	c, m := newTestCPU(t)
	c.X = 0xFF
	m.Write(0, 0xBD) // LDA ABSOLUTE_X
	m.Write(1, 0x02)
	m.Write(2, 0x01) // base = 0x0102, +0xFF crosses a page

	c.Step()
	total := uint8(1)
	for c.cyclesRemaining > 0 {
		c.Step()
		total++
	}

	assert.Equal(t, uint8(5), total, "4 base + 1 page-cross")
}

func TestPageCrossAbsoluteXStoreDoesNotAddCycle(t *testing.T) {
	c, m := newTestCPU(t)
	c.X = 0xFF
	m.Write(0, 0x9D) // STA ABSOLUTE_X
	m.Write(1, 0x02)
	m.Write(2, 0x01)

	c.Step()
	total := uint8(1)
	for c.cyclesRemaining > 0 {
		c.Step()
		total++
	}

	assert.Equal(t, uint8(5), total, "STA ABSOLUTE_X is always 5, page-cross is not charged")
}

func TestBITFlags(t *testing.T) {
	c, m := newTestCPU(t)
	c.A = 0x0F
	m.Write(0, 0x24) // BIT ZEROPAGE
	m.Write(1, 0x10)
	m.Write(0x10, 0xC0) // bits 6,7 set, result of A&M is 0

	stepOne(c)

	assert.NotZero(t, c.P&FlagZ)
	assert.NotZero(t, c.P&FlagN)
	assert.NotZero(t, c.P&FlagV)
}

func TestIllegalOpcodeLogsAndIsANoOp(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0, 0x02) // unassigned opcode byte, decodes to INV

	stepOne(c)

	assert.Equal(t, uint16(1), c.PC)
}
