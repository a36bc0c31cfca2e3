package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Function is a named function with its own value arena and block list.
type Function struct {
	Name string // включая префикс '@'
	Ret  Type

	values []Value
	blocks []*BasicBlock
	consts map[int32]ValueID
}

// BasicBlock is a named, append-only instruction layout.
type BasicBlock struct {
	Name  string // включая префикс '%'
	fn    *Function
	insts []ValueID
}

// NewFunction creates an empty function. The name should carry the '@' prefix.
func NewFunction(name string, ret Type) *Function {
	return &Function{
		Name:   name,
		Ret:    ret,
		consts: make(map[int32]ValueID),
	}
}

// Value returns the value behind id. It panics on a handle this function did not issue.
func (f *Function) Value(id ValueID) *Value {
	if id < 0 || int(id) >= len(f.values) {
		panic(fmt.Errorf("ir: invalid value handle %d in %s (arena size %d)", id, f.Name, len(f.values)))
	}
	return &f.values[id]
}

// NumValues returns the arena size.
func (f *Function) NumValues() int {
	return len(f.values)
}

// Blocks returns the blocks in creation order. READONLY.
func (f *Function) Blocks() []*BasicBlock {
	return f.blocks
}

// Entry returns the first block, or nil for a declaration-only function.
func (f *Function) Entry() *BasicBlock {
	if len(f.blocks) == 0 {
		return nil
	}
	return f.blocks[0]
}

func (f *Function) alloc(v Value) ValueID {
	n, err := safecast.Conv[int32](len(f.values))
	if err != nil {
		panic(fmt.Errorf("ir: value arena overflow: %w", err))
	}
	f.values = append(f.values, v)
	return ValueID(n)
}

// Integer returns the constant n, reusing an existing handle when one exists.
func (f *Function) Integer(n int32) ValueID {
	if id, ok := f.consts[n]; ok {
		return id
	}
	id := f.alloc(Value{Kind: ValueInteger, Ty: TypeI32, Integer: IntegerValue{Value: n}})
	f.consts[n] = id
	return id
}

// NewBinary allocates a binary instruction; it is not placed in any block yet.
// Operands must be existing i32 values of this function.
func (f *Function) NewBinary(op BinaryOp, lhs, rhs ValueID) ValueID {
	for _, operand := range []ValueID{lhs, rhs} {
		if ty := f.Value(operand).Ty; ty != TypeI32 {
			panic(fmt.Errorf("ir: %s operand %d has type %s, want i32", op, operand, ty))
		}
	}
	return f.alloc(Value{Kind: ValueBinary, Ty: TypeI32, Binary: BinaryValue{Op: op, LHS: lhs, RHS: rhs}})
}

// NewReturn allocates a return terminator. Pass NoValueID for a bare `ret`.
func (f *Function) NewReturn(v ValueID) ValueID {
	if v != NoValueID {
		f.Value(v)
	}
	return f.alloc(Value{Kind: ValueReturn, Ty: TypeUnit, Return: ReturnValue{Value: v}})
}

// NewBlock appends an empty block. Block names are unique within a function.
func (f *Function) NewBlock(name string) (*BasicBlock, error) {
	for _, bb := range f.blocks {
		if bb.Name == name {
			return nil, fmt.Errorf("%s: duplicate block %s", f.Name, name)
		}
	}
	bb := &BasicBlock{Name: name, fn: f}
	f.blocks = append(f.blocks, bb)
	return bb, nil
}

// Append places instruction id at the end of bb's layout. It rejects constants,
// values already placed, appending after a terminator, and operands that are
// instructions not yet placed (use before definition).
func (f *Function) Append(bb *BasicBlock, id ValueID) error {
	if bb == nil || bb.fn != f {
		return fmt.Errorf("%s: block does not belong to this function", f.Name)
	}
	v := f.Value(id)
	if !v.IsInstruction() {
		return fmt.Errorf("%s %s: %s value %d cannot be placed in a layout", f.Name, bb.Name, v.Kind, id)
	}
	if v.placed {
		return fmt.Errorf("%s %s: value %d is already placed", f.Name, bb.Name, id)
	}
	if bb.Terminated() {
		return fmt.Errorf("%s %s: append after terminator", f.Name, bb.Name)
	}
	for _, op := range v.Operands() {
		if op >= id {
			return fmt.Errorf("%s %s: value %d uses later value %d", f.Name, bb.Name, id, op)
		}
		if operand := f.Value(op); operand.IsInstruction() && !operand.placed {
			return fmt.Errorf("%s %s: value %d uses %d before its definition", f.Name, bb.Name, id, op)
		}
	}
	v.placed = true
	bb.insts = append(bb.insts, id)
	return nil
}

// Insts returns the block layout. READONLY.
func (bb *BasicBlock) Insts() []ValueID {
	return bb.insts
}

// Terminated reports whether the layout already ends with a terminator.
func (bb *BasicBlock) Terminated() bool {
	if len(bb.insts) == 0 {
		return false
	}
	return bb.fn.Value(bb.insts[len(bb.insts)-1]).IsTerminator()
}
