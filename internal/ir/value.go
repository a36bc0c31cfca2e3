package ir

import "fmt"

// ValueID is a handle into a Function's value arena.
type ValueID int32

// NoValueID marks an absent operand (e.g. `ret` without a value).
const NoValueID ValueID = -1

func (id ValueID) IsValid() bool { return id >= 0 }

// ValueKind enumerates value kinds.
type ValueKind uint8

const (
	// ValueInteger is an integer constant.
	ValueInteger ValueKind = iota
	// ValueBinary is a binary operation over two i32 operands.
	ValueBinary
	// ValueReturn is the function return terminator.
	ValueReturn
)

func (k ValueKind) String() string {
	switch k {
	case ValueInteger:
		return "integer"
	case ValueBinary:
		return "binary"
	case ValueReturn:
		return "ret"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// BinaryOp is Koopa's closed set of binary operators.
type BinaryOp uint8

const (
	OpNe BinaryOp = iota
	OpEq
	OpGt
	OpLt
	OpGe
	OpLe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpSar
)

var binaryOpNames = [...]string{
	OpNe: "ne", OpEq: "eq", OpGt: "gt", OpLt: "lt", OpGe: "ge", OpLe: "le",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpShl: "shl", OpShr: "shr", OpSar: "sar",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", uint8(op))
}

// IsCompare reports whether op yields a 0/1 truth value.
func (op BinaryOp) IsCompare() bool {
	return op <= OpLe
}

// LookupBinaryOp maps a Koopa mnemonic to its operator.
func LookupBinaryOp(name string) (BinaryOp, bool) {
	for i, n := range binaryOpNames {
		if n == name {
			return BinaryOp(i), true
		}
	}
	return 0, false
}

// IntegerValue is the payload of a ValueInteger.
type IntegerValue struct {
	Value int32
}

// BinaryValue is the payload of a ValueBinary.
type BinaryValue struct {
	Op  BinaryOp
	LHS ValueID
	RHS ValueID
}

// ReturnValue is the payload of a ValueReturn; Value is NoValueID for `ret`.
type ReturnValue struct {
	Value ValueID
}

// Value is a tagged node: only the payload matching Kind is meaningful.
type Value struct {
	Kind ValueKind
	Ty   Type

	Integer IntegerValue
	Binary  BinaryValue
	Return  ReturnValue

	placed bool // уже стоит в layout какого-то блока
}

// IsInstruction reports whether the value may appear in a block layout.
func (v *Value) IsInstruction() bool {
	return v.Kind == ValueBinary || v.Kind == ValueReturn
}

// IsTerminator reports whether the value ends a basic block.
func (v *Value) IsTerminator() bool {
	return v.Kind == ValueReturn
}

// Operands returns the value handles this value reads, in order.
func (v *Value) Operands() []ValueID {
	switch v.Kind {
	case ValueBinary:
		return []ValueID{v.Binary.LHS, v.Binary.RHS}
	case ValueReturn:
		if v.Return.Value.IsValid() {
			return []ValueID{v.Return.Value}
		}
	}
	return nil
}
