package ir

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks program invariants and returns every violation joined.
func Validate(p *Program) error {
	if p == nil {
		return nil
	}
	var errs []error
	seen := make(map[string]bool, len(p.funcs))
	for _, f := range p.funcs {
		if f == nil {
			errs = append(errs, errors.New("nil function"))
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("duplicate function %s", f.Name))
		}
		seen[f.Name] = true
		if err := validateFunc(f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(f *Function) error {
	var errs []error

	if !strings.HasPrefix(f.Name, "@") || len(f.Name) < 2 {
		errs = append(errs, fmt.Errorf("name %q must be '@' followed by an identifier", f.Name))
	}
	if f.Ret != TypeI32 && f.Ret != TypeUnit {
		errs = append(errs, fmt.Errorf("unknown return type %d", f.Ret))
	}
	if len(f.blocks) == 0 {
		errs = append(errs, errors.New("no basic blocks"))
	}

	// 1. Block names
	names := make(map[string]bool, len(f.blocks))
	for _, bb := range f.blocks {
		if !strings.HasPrefix(bb.Name, "%") || len(bb.Name) < 2 {
			errs = append(errs, fmt.Errorf("block name %q must be '%%' followed by an identifier", bb.Name))
		}
		if names[bb.Name] {
			errs = append(errs, fmt.Errorf("duplicate block %s", bb.Name))
		}
		names[bb.Name] = true
	}

	// 2. Layout: exactly one terminator, last; operands defined before use
	defined := make(map[ValueID]bool)
	for _, bb := range f.blocks {
		if err := validateBlock(f, bb, defined); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", bb.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateBlock(f *Function, bb *BasicBlock, defined map[ValueID]bool) error {
	var errs []error
	if len(bb.insts) == 0 {
		return errors.New("empty block")
	}
	for i, id := range bb.insts {
		if id < 0 || int(id) >= len(f.values) {
			errs = append(errs, fmt.Errorf("#%d: invalid handle %d", i, id))
			continue
		}
		v := &f.values[id]
		if !v.IsInstruction() {
			errs = append(errs, fmt.Errorf("#%d: %s value %d in layout", i, v.Kind, id))
			continue
		}
		last := i == len(bb.insts)-1
		if v.IsTerminator() != last {
			if last {
				errs = append(errs, errors.New("block does not end with a terminator"))
			} else {
				errs = append(errs, fmt.Errorf("#%d: terminator before end of block", i))
			}
		}
		for _, op := range v.Operands() {
			if op < 0 || int(op) >= len(f.values) {
				errs = append(errs, fmt.Errorf("#%d: invalid operand handle %d", i, op))
				continue
			}
			operand := &f.values[op]
			if operand.IsInstruction() && !defined[op] {
				errs = append(errs, fmt.Errorf("#%d: operand %d used before definition", i, op))
			}
			if v.Kind == ValueBinary && operand.Ty != TypeI32 {
				errs = append(errs, fmt.Errorf("#%d: operand %d has type %s, want i32", i, op, operand.Ty))
			}
		}
		if v.Kind == ValueReturn {
			if err := validateReturn(f, v); err != nil {
				errs = append(errs, fmt.Errorf("#%d: %w", i, err))
			}
		}
		defined[id] = true
	}
	return errors.Join(errs...)
}

func validateReturn(f *Function, v *Value) error {
	got := TypeUnit
	if id := v.Return.Value; id.IsValid() && int(id) < len(f.values) {
		got = f.values[id].Ty
	}
	if got != f.Ret {
		return fmt.Errorf("ret of type %s in function returning %s", got, f.Ret)
	}
	return nil
}
