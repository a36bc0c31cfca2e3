package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"sysyc/internal/ir"
	"sysyc/internal/rvsim"
	"sysyc/internal/trace"
)

// Run compiles path to RISC-V and executes it in the simulator; the value
// main returns is the result.
func Run(ctx context.Context, path string, opts Options) (int32, *CompileResult, error) {
	opts.Mode = EmitRISCV
	res, err := Compile(ctx, path, opts)
	if err != nil {
		return 0, res, err
	}
	value, err := Execute(ctx, res.Output)
	return value, res, err
}

// Execute runs an assembly listing starting at main.
func Execute(ctx context.Context, listing []byte) (value int32, err error) {
	_, span := trace.StartSpan(ctx, trace.ScopePass, "simulate")
	defer func() { span.Fail(err).End(fmt.Sprint(value)) }()
	return rvsim.Exec(bytes.NewReader(listing))
}

// ErrNoMain: в программе нет функции @main.
var ErrNoMain = errors.New("program has no @main")

// RunIR compiles path to Koopa IR and evaluates @main with the reference
// interpreter instead of the simulator.
func RunIR(ctx context.Context, path string, opts Options) (int32, *CompileResult, error) {
	opts.Mode = EmitKoopa
	res, err := Compile(ctx, path, opts)
	if err != nil {
		return 0, res, err
	}
	value, err := Interpret(ctx, res.Program)
	return value, res, err
}

// Interpret evaluates @main of a lowered program.
func Interpret(ctx context.Context, p *ir.Program) (value int32, err error) {
	_, span := trace.StartSpan(ctx, trace.ScopePass, "interpret")
	defer func() { span.Fail(err).End(fmt.Sprint(value)) }()
	fn := p.Func("@main")
	if fn == nil {
		return 0, ErrNoMain
	}
	return ir.Eval(fn)
}
