package rvsim

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

type Opcode uint8

const (
	OpNop Opcode = iota
	OpLi
	OpMv
	OpNeg
	OpNot
	OpSeqz
	OpSnez
	OpAdd
	OpAddi
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpAndi
	OpOr
	OpOri
	OpXor
	OpXori
	OpSll
	OpSrl
	OpSra
	OpSlt
	OpSgt
	OpJ
	OpRet
)

// operand shapes
type shape uint8

const (
	shapeNone   shape = iota // ret
	shapeRdImm               // li rd, imm
	shapeRdRs                // mv rd, rs
	shapeRdRsRs              // add rd, rs1, rs2
	shapeRdRsImm             // addi rd, rs1, imm
	shapeLabel               // j label
)

type opInfo struct {
	name  string
	shape shape
}

var opTable = [...]opInfo{
	OpNop:  {"nop", shapeNone},
	OpLi:   {"li", shapeRdImm},
	OpMv:   {"mv", shapeRdRs},
	OpNeg:  {"neg", shapeRdRs},
	OpNot:  {"not", shapeRdRs},
	OpSeqz: {"seqz", shapeRdRs},
	OpSnez: {"snez", shapeRdRs},
	OpAdd:  {"add", shapeRdRsRs},
	OpAddi: {"addi", shapeRdRsImm},
	OpSub:  {"sub", shapeRdRsRs},
	OpMul:  {"mul", shapeRdRsRs},
	OpDiv:  {"div", shapeRdRsRs},
	OpRem:  {"rem", shapeRdRsRs},
	OpAnd:  {"and", shapeRdRsRs},
	OpAndi: {"andi", shapeRdRsImm},
	OpOr:   {"or", shapeRdRsRs},
	OpOri:  {"ori", shapeRdRsImm},
	OpXor:  {"xor", shapeRdRsRs},
	OpXori: {"xori", shapeRdRsImm},
	OpSll:  {"sll", shapeRdRsRs},
	OpSrl:  {"srl", shapeRdRsRs},
	OpSra:  {"sra", shapeRdRsRs},
	OpSlt:  {"slt", shapeRdRsRs},
	OpSgt:  {"sgt", shapeRdRsRs},
	OpJ:    {"j", shapeLabel},
	OpRet:  {"ret", shapeNone},
}

var opByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opTable))
	for i, info := range opTable {
		m[info.name] = Opcode(i)
	}
	return m
}()

func (op Opcode) String() string {
	if int(op) < len(opTable) {
		return opTable[op].name
	}
	return fmt.Sprintf("Opcode(%d)", uint8(op))
}

type Inst struct {
	Op     Opcode
	Rd     uint8
	Rs1    uint8
	Rs2    uint8
	Imm    int32
	Target int
	Line   int
}

// Program is a loaded listing: decoded instructions plus label addresses
// (instruction indices).
type Program struct {
	Insts  []Inst
	Labels map[string]int
}

var abiNames = map[string]uint8{
	"zero": regZero, "ra": regRA, "sp": regSP, "gp": 3, "tp": 4,
	"t0": regT0, "t1": 6, "t2": 7, "s0": 8, "fp": 8, "s1": 9,
	"a0": regA0, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23, "s8": 24, "s9": 25,
	"s10": 26, "s11": 27, "t3": 28, "t4": 29, "t5": 30, "t6": 31,
}

// ParseReg accepts both xN and ABI register names.
func ParseReg(name string) (uint8, error) {
	if r, ok := abiNames[name]; ok {
		return r, nil
	}
	if n, ok := strings.CutPrefix(name, "x"); ok {
		v, err := strconv.Atoi(n)
		if err == nil && v >= 0 && v < 32 {
			return safecast.Conv[uint8](v)
		}
	}
	return 0, fmt.Errorf("unknown register %q", name)
}

// Load reads assembly text. Directives (lines starting with '.' that are
// not labels) are ignored; '#' starts a comment.
func Load(r io.Reader) (*Program, error) {
	p := &Program{Labels: make(map[string]int)}
	type fixup struct {
		inst  int
		label string
	}
	var fixups []fixup

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if label, ok := strings.CutSuffix(text, ":"); ok && !strings.ContainsAny(label, " \t,") {
			if _, dup := p.Labels[label]; dup {
				return nil, fmt.Errorf("line %d: duplicate label %q", line, label)
			}
			p.Labels[label] = len(p.Insts)
			continue
		}
		if strings.HasPrefix(text, ".") {
			continue
		}
		in, label, err := parseInst(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		in.Line = line
		if label != "" {
			fixups = append(fixups, fixup{inst: len(p.Insts), label: label})
		}
		p.Insts = append(p.Insts, in)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for _, f := range fixups {
		target, ok := p.Labels[f.label]
		if !ok {
			return nil, fmt.Errorf("line %d: undefined label %q", p.Insts[f.inst].Line, f.label)
		}
		p.Insts[f.inst].Target = target
	}
	return p, nil
}

func parseInst(text string) (Inst, string, error) {
	mnemonic, rest, _ := strings.Cut(text, " ")
	op, ok := opByName[mnemonic]
	if !ok {
		return Inst{}, "", fmt.Errorf("unsupported instruction %q", mnemonic)
	}
	var args []string
	if rest = strings.TrimSpace(rest); rest != "" {
		for _, a := range strings.Split(rest, ",") {
			args = append(args, strings.TrimSpace(a))
		}
	}

	in := Inst{Op: op}
	info := opTable[op]
	want := map[shape]int{shapeNone: 0, shapeRdImm: 2, shapeRdRs: 2, shapeRdRsRs: 3, shapeRdRsImm: 3, shapeLabel: 1}[info.shape]
	if len(args) != want {
		return Inst{}, "", fmt.Errorf("%s expects %d operands, got %d", mnemonic, want, len(args))
	}

	var err error
	switch info.shape {
	case shapeNone:
	case shapeLabel:
		return in, args[0], nil
	case shapeRdImm:
		if in.Rd, err = ParseReg(args[0]); err == nil {
			in.Imm, err = parseImm(args[1])
		}
	case shapeRdRs:
		if in.Rd, err = ParseReg(args[0]); err == nil {
			in.Rs1, err = ParseReg(args[1])
		}
	case shapeRdRsRs:
		if in.Rd, err = ParseReg(args[0]); err == nil {
			if in.Rs1, err = ParseReg(args[1]); err == nil {
				in.Rs2, err = ParseReg(args[2])
			}
		}
	case shapeRdRsImm:
		if in.Rd, err = ParseReg(args[0]); err == nil {
			if in.Rs1, err = ParseReg(args[1]); err == nil {
				in.Imm, err = parseImm(args[2])
			}
		}
	}
	if err != nil {
		return Inst{}, "", fmt.Errorf("%s: %w", mnemonic, err)
	}
	return in, "", nil
}

func parseImm(text string) (int32, error) {
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad immediate %q", text)
	}
	n, err := safecast.Conv[int32](v)
	if err != nil {
		return 0, fmt.Errorf("immediate %s out of range: %w", text, err)
	}
	return n, nil
}
