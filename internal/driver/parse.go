package driver

import (
	"fmt"

	"fortio.org/safecast"

	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/parser"
	"sysyc/internal/source"
)

// ParseResult backs `sysyc parse`: the AST of one file and its diagnostics.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	Unit    ast.UnitID
	OK      bool
	Bag     *diag.Bag
}

// Parse loads path and parses it without lowering.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs, file, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	b, pres, err := parseInto(file, bag, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: b,
		Unit:    pres.Unit,
		OK:      pres.OK() && !bag.HasErrors(),
		Bag:     bag,
	}, nil
}

func loadFile(path string) (*source.FileSet, *source.File, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return fs, fs.Get(id), nil
}

// parseInto parses file into a fresh builder; diagnostics go to bag with
// repeats at the same span dropped.
func parseInto(file *source.File, bag *diag.Bag, maxDiagnostics int) (*ast.Builder, parser.Result, error) {
	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, parser.Result{}, err
	}
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(file, b, parser.Options{
		Reporter:  diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		MaxErrors: maxErrors,
	})
	return b, res, nil
}
