package ir

import (
	"errors"
	"fmt"
)

// ErrDivisionByZero is returned by Eval for `div` or `mod` by zero.
var ErrDivisionByZero = errors.New("division by zero")

// Eval interprets f from its entry block and returns the value of the
// executed `ret` (0 for a bare `ret`). Arithmetic wraps at 32 bits; shift
// amounts use the low five bits.
func Eval(f *Function) (int32, error) {
	entry := f.Entry()
	if entry == nil {
		return 0, fmt.Errorf("%s: no entry block", f.Name)
	}
	results := make(map[ValueID]int32, len(entry.insts))
	read := func(id ValueID) (int32, error) {
		v := f.Value(id)
		if v.Kind == ValueInteger {
			return v.Integer.Value, nil
		}
		r, ok := results[id]
		if !ok {
			return 0, fmt.Errorf("%s: value %d read before evaluation", f.Name, id)
		}
		return r, nil
	}

	for _, id := range entry.insts {
		v := f.Value(id)
		switch v.Kind {
		case ValueBinary:
			lhs, err := read(v.Binary.LHS)
			if err != nil {
				return 0, err
			}
			rhs, err := read(v.Binary.RHS)
			if err != nil {
				return 0, err
			}
			r, err := EvalBinary(v.Binary.Op, lhs, rhs)
			if err != nil {
				return 0, fmt.Errorf("%s %s: %w", f.Name, entry.Name, err)
			}
			results[id] = r
		case ValueReturn:
			if !v.Return.Value.IsValid() {
				return 0, nil
			}
			return read(v.Return.Value)
		default:
			return 0, fmt.Errorf("%s: unexpected %s in layout", f.Name, v.Kind)
		}
	}
	return 0, fmt.Errorf("%s %s: fell off the end of the block", f.Name, entry.Name)
}

// EvalBinary applies op with Koopa semantics.
func EvalBinary(op BinaryOp, lhs, rhs int32) (int32, error) {
	switch op {
	case OpNe:
		return b2i(lhs != rhs), nil
	case OpEq:
		return b2i(lhs == rhs), nil
	case OpGt:
		return b2i(lhs > rhs), nil
	case OpLt:
		return b2i(lhs < rhs), nil
	case OpGe:
		return b2i(lhs >= rhs), nil
	case OpLe:
		return b2i(lhs <= rhs), nil
	case OpAdd:
		return lhs + rhs, nil
	case OpSub:
		return lhs - rhs, nil
	case OpMul:
		return lhs * rhs, nil
	case OpDiv:
		if rhs == 0 {
			return 0, ErrDivisionByZero
		}
		return lhs / rhs, nil
	case OpMod:
		if rhs == 0 {
			return 0, ErrDivisionByZero
		}
		return lhs % rhs, nil
	case OpAnd:
		return lhs & rhs, nil
	case OpOr:
		return lhs | rhs, nil
	case OpXor:
		return lhs ^ rhs, nil
	case OpShl:
		return lhs << (uint32(rhs) & 31), nil
	case OpShr:
		return int32(uint32(lhs) >> (uint32(rhs) & 31)), nil
	case OpSar:
		return lhs >> (uint32(rhs) & 31), nil
	}
	return 0, fmt.Errorf("unknown binary operator %s", op)
}

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
