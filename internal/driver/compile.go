package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"sysyc/internal/ast"
	"sysyc/internal/codegen/riscv"
	"sysyc/internal/diag"
	"sysyc/internal/ir"
	"sysyc/internal/lower"
	"sysyc/internal/parser"
	"sysyc/internal/source"
	"sysyc/internal/trace"
)

// ErrCompileFailed is returned when the result Bag holds errors. The
// diagnostics themselves live in CompileResult.Bag.
var ErrCompileFailed = errors.New("compilation failed")

type CompileResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Bag      *diag.Bag
	Program  *ir.Program
	Output   []byte // nil unless every stage succeeded
	CacheHit bool
}

// Compile loads path and runs the whole pipeline on it.
func Compile(ctx context.Context, path string, opts Options) (*CompileResult, error) {
	fs, file, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	return CompileFile(ctx, fs, file, opts)
}

// CompileSource compiles an in-memory buffer (stdin, tests).
func CompileSource(ctx context.Context, name string, src []byte, opts Options) (*CompileResult, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return CompileFile(ctx, fs, fs.Get(id), opts)
}

// CompileFile: parse -> lower -> emit, one file, single-threaded.
func CompileFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) (res *CompileResult, err error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, "file:"+file.Path)
	defer func() {
		detail := opts.Mode.String()
		if res != nil && res.CacheHit {
			detail += ", cached"
		}
		span.Fail(err).End(detail)
	}()
	res = &CompileResult{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}

	key := CacheKey(file.Content, opts.Fold)
	if prog, ok, cerr := opts.Cache.Get(key); cerr != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopePass, "cache", "read failed: "+cerr.Error(), span.ID())
	} else if ok {
		res.Program, res.CacheHit = prog, true
	}

	if res.Program == nil {
		prog, err := frontEnd(ctx, file, res.Bag, opts)
		if err != nil {
			return res, err
		}
		res.Program = prog
		if perr := opts.Cache.Put(key, file.Path, opts.Fold, prog); perr != nil {
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: file.ID}, "cannot write IR cache: "+perr.Error()))
		}
	}

	opts.progress(file.Path, StageEmit, StatusWorking, nil)
	out, err := emit(ctx, res.Program, opts)
	if err != nil {
		res.Bag.Add(diag.NewError(codeOf(err, diag.GenUnsupportedKind), source.Span{File: file.ID}, err.Error()))
		return res, ErrCompileFailed
	}
	res.Output = out
	return res, nil
}

func frontEnd(ctx context.Context, file *source.File, bag *diag.Bag, opts Options) (*ir.Program, error) {
	opts.progress(file.Path, StageParse, StatusWorking, nil)
	var (
		b    *ast.Builder
		pres parser.Result
	)
	err := opts.track("parse", func() error {
		_, span := trace.StartSpan(ctx, trace.ScopePass, "parse")
		var perr error
		b, pres, perr = parseInto(file, bag, opts.MaxDiagnostics)
		span.Fail(perr).WithExtra("errors", fmt.Sprint(pres.Errors)).End("")
		return perr
	})
	if err != nil {
		return nil, err
	}
	if !pres.OK() || bag.HasErrors() {
		return nil, ErrCompileFailed
	}

	opts.progress(file.Path, StageLower, StatusWorking, nil)
	var prog *ir.Program
	err = opts.track("lower", func() error {
		_, span := trace.StartSpan(ctx, trace.ScopePass, "lower")
		var lerr error
		prog, lerr = lower.Lower(b, pres.Unit, lower.Options{Fold: opts.Fold})
		span.Fail(lerr).End("")
		return lerr
	})
	if err != nil {
		var le *lower.Error
		sp := source.Span{File: file.ID}
		if errors.As(err, &le) && le.Span != (source.Span{}) {
			sp = le.Span
		}
		bag.Add(diag.NewError(codeOf(err, diag.LowInvalidProgram), sp, err.Error()))
		return nil, ErrCompileFailed
	}
	return prog, nil
}

func emit(ctx context.Context, prog *ir.Program, opts Options) ([]byte, error) {
	_, span := trace.StartSpan(ctx, trace.ScopePass, "emit:"+opts.Mode.String())
	tracer := trace.FromContext(ctx)
	for _, fn := range prog.Funcs() {
		trace.Point(tracer, trace.ScopeNode, fn.Name, fmt.Sprintf("%d values", fn.NumValues()), span.ID())
	}
	var buf bytes.Buffer
	err := opts.track("emit", func() error {
		switch opts.Mode {
		case EmitKoopa:
			return ir.Print(&buf, prog)
		case EmitRISCV:
			return riscv.Generate(&buf, prog)
		default:
			return fmt.Errorf("unknown emit mode %d", opts.Mode)
		}
	})
	span.Fail(err).End("")
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// codeOf extracts the diagnostic code carried by stage errors.
func codeOf(err error, fallback diag.Code) diag.Code {
	var le *lower.Error
	if errors.As(err, &le) {
		return le.Code
	}
	var ge *riscv.Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return fallback
}
