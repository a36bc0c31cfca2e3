package ir

import "fmt"

// Program is the root of the IR: functions in definition order.
type Program struct {
	funcs []*Function
}

func NewProgram() *Program {
	return &Program{}
}

// AddFunction registers f; a second function with the same name is rejected.
func (p *Program) AddFunction(f *Function) error {
	if f == nil {
		return fmt.Errorf("nil function")
	}
	if p.Func(f.Name) != nil {
		return fmt.Errorf("duplicate function %s", f.Name)
	}
	p.funcs = append(p.funcs, f)
	return nil
}

// Funcs returns functions in definition order. READONLY.
func (p *Program) Funcs() []*Function {
	return p.funcs
}

// Func finds a function by its full name (with '@'), or nil.
func (p *Program) Func(name string) *Function {
	for _, f := range p.funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}
