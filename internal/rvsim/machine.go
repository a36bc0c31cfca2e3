// Package rvsim executes the small RV32IM subset emitted by the code
// generator. It exists for end-to-end tests and the `run` subcommand; it is
// not a general RISC-V emulator.
package rvsim

import (
	"errors"
	"fmt"
	"io"
	"math"
)

var (
	ErrNoEntry    = errors.New("entry label not found")
	ErrStepLimit  = errors.New("step limit exceeded")
	ErrPCOutRange = errors.New("program counter out of range")
)

const (
	regZero = 0
	regRA   = 1
	regSP   = 2
	regT0   = 5
	regA0   = 10
)

// haltPC is the return address planted in ra before entering the program:
// a `ret` to it stops the machine.
const haltPC = -1

// DefaultMaxSteps bounds Run when no explicit limit is given.
const DefaultMaxSteps = 1 << 20

type Machine struct {
	Regs [32]int32
	PC   int

	Halted bool
	Steps  int

	prog *Program
}

func NewMachine(p *Program) *Machine {
	return &Machine{prog: p}
}

// Run executes from entry until the entry function returns and yields a0.
// maxSteps <= 0 means DefaultMaxSteps.
func (m *Machine) Run(entry string, maxSteps int) (int32, error) {
	pc, ok := m.prog.Labels[entry]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoEntry, entry)
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	m.Regs = [32]int32{}
	m.Regs[regRA] = haltPC
	m.PC = pc
	m.Halted = false
	m.Steps = 0

	for !m.Halted {
		if m.Steps >= maxSteps {
			return 0, fmt.Errorf("%w (%d)", ErrStepLimit, maxSteps)
		}
		if err := m.Step(); err != nil {
			return 0, err
		}
	}
	return m.Regs[regA0], nil
}

// Step executes one instruction.
func (m *Machine) Step() error {
	if m.Halted {
		return nil
	}
	if m.PC < 0 || m.PC >= len(m.prog.Insts) {
		return fmt.Errorf("%w: %d", ErrPCOutRange, m.PC)
	}
	in := m.prog.Insts[m.PC]
	m.PC++
	m.Steps++

	rs1, rs2 := m.Regs[in.Rs1], m.Regs[in.Rs2]
	var rd int32
	switch in.Op {
	case OpNop:
		return nil
	case OpRet:
		target := int(m.Regs[regRA])
		if target == haltPC {
			m.Halted = true
			return nil
		}
		m.PC = target
		return nil
	case OpJ:
		m.PC = in.Target
		return nil
	case OpLi:
		rd = in.Imm
	case OpMv:
		rd = rs1
	case OpNeg:
		rd = -rs1
	case OpNot:
		rd = ^rs1
	case OpSeqz:
		rd = b2i(rs1 == 0)
	case OpSnez:
		rd = b2i(rs1 != 0)
	case OpAdd:
		rd = rs1 + rs2
	case OpAddi:
		rd = rs1 + in.Imm
	case OpSub:
		rd = rs1 - rs2
	case OpMul:
		rd = rs1 * rs2
	case OpDiv:
		rd = div(rs1, rs2)
	case OpRem:
		rd = rem(rs1, rs2)
	case OpAnd:
		rd = rs1 & rs2
	case OpAndi:
		rd = rs1 & in.Imm
	case OpOr:
		rd = rs1 | rs2
	case OpOri:
		rd = rs1 | in.Imm
	case OpXor:
		rd = rs1 ^ rs2
	case OpXori:
		rd = rs1 ^ in.Imm
	case OpSll:
		rd = rs1 << (uint32(rs2) & 31)
	case OpSrl:
		rd = int32(uint32(rs1) >> (uint32(rs2) & 31))
	case OpSra:
		rd = rs1 >> (uint32(rs2) & 31)
	case OpSlt:
		rd = b2i(rs1 < rs2)
	case OpSgt:
		rd = b2i(rs1 > rs2)
	default:
		return fmt.Errorf("rvsim: unhandled opcode %s at %d", in.Op, m.PC-1)
	}
	if in.Rd != regZero {
		m.Regs[in.Rd] = rd
	}
	return nil
}

// деление по правилам RV32M: без ловушек
func div(a, b int32) int32 {
	switch {
	case b == 0:
		return -1
	case a == math.MinInt32 && b == -1:
		return a
	}
	return a / b
}

func rem(a, b int32) int32 {
	switch {
	case b == 0:
		return a
	case a == math.MinInt32 && b == -1:
		return 0
	}
	return a % b
}

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Exec loads a listing and runs it from main.
func Exec(r io.Reader) (int32, error) {
	p, err := Load(r)
	if err != nil {
		return 0, err
	}
	return NewMachine(p).Run("main", 0)
}
