package ir

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// ParseText reads the format produced by Print back into a Program.
// name is used only for error positions. Comments start with "//".
func ParseText(name string, r io.Reader) (*Program, error) {
	tp := textParser{name: name, prog: NewProgram()}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		tp.line++
		text := sc.Text()
		if i := strings.Index(text, "//"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if err := tp.parseLine(text); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, tp.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if tp.fn != nil {
		return nil, fmt.Errorf("%s:%d: unexpected end of input inside %s", name, tp.line, tp.fn.Name)
	}
	if err := Validate(tp.prog); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tp.prog, nil
}

type textParser struct {
	name  string
	line  int
	prog  *Program
	fn    *Function
	bb    *BasicBlock
	local map[string]ValueID
}

func (tp *textParser) parseLine(text string) error {
	switch {
	case strings.HasPrefix(text, "fun "):
		return tp.parseFunHeader(text)
	case tp.fn == nil:
		return fmt.Errorf("expected 'fun', got %q", text)
	case text == "}":
		if err := tp.prog.AddFunction(tp.fn); err != nil {
			return err
		}
		tp.fn, tp.bb, tp.local = nil, nil, nil
		return nil
	case strings.HasSuffix(text, ":") && strings.HasPrefix(text, "%"):
		bb, err := tp.fn.NewBlock(strings.TrimSuffix(text, ":"))
		if err != nil {
			return err
		}
		tp.bb = bb
		return nil
	case tp.bb == nil:
		return fmt.Errorf("instruction outside of a basic block: %q", text)
	case text == "ret" || strings.HasPrefix(text, "ret "):
		return tp.parseRet(strings.TrimSpace(strings.TrimPrefix(text, "ret")))
	case strings.HasPrefix(text, "%"):
		return tp.parseBinary(text)
	}
	return fmt.Errorf("unrecognized line %q", text)
}

// fun @name(): i32 {   |   fun @name() {
func (tp *textParser) parseFunHeader(text string) error {
	if tp.fn != nil {
		return fmt.Errorf("nested function definition in %s", tp.fn.Name)
	}
	rest, ok := strings.CutSuffix(strings.TrimSpace(strings.TrimPrefix(text, "fun")), "{")
	if !ok {
		return fmt.Errorf("expected '{' at end of function header")
	}
	name, sig, ok := strings.Cut(strings.TrimSpace(rest), "()")
	if !ok || !strings.HasPrefix(name, "@") {
		return fmt.Errorf("malformed function header %q", text)
	}
	ret := TypeUnit
	switch sig = strings.TrimSpace(sig); sig {
	case "":
	case ": i32":
		ret = TypeI32
	default:
		return fmt.Errorf("unsupported function signature %q", sig)
	}
	tp.fn = NewFunction(name, ret)
	tp.local = make(map[string]ValueID)
	return nil
}

func (tp *textParser) parseRet(arg string) error {
	v := NoValueID
	if arg != "" {
		var err error
		if v, err = tp.operand(arg); err != nil {
			return err
		}
	}
	return tp.fn.Append(tp.bb, tp.fn.NewReturn(v))
}

// %N = op lhs, rhs
func (tp *textParser) parseBinary(text string) error {
	dst, rhs, ok := strings.Cut(text, "=")
	if !ok {
		return fmt.Errorf("expected '=' in %q", text)
	}
	dst = strings.TrimSpace(dst)
	if _, dup := tp.local[dst]; dup {
		return fmt.Errorf("redefinition of %s", dst)
	}
	mnemonic, args, ok := strings.Cut(strings.TrimSpace(rhs), " ")
	if !ok {
		return fmt.Errorf("expected operands in %q", text)
	}
	op, ok := LookupBinaryOp(mnemonic)
	if !ok {
		return fmt.Errorf("unknown binary operator %q", mnemonic)
	}
	lhsText, rhsText, ok := strings.Cut(args, ",")
	if !ok {
		return fmt.Errorf("expected two operands in %q", text)
	}
	lhs, err := tp.operand(strings.TrimSpace(lhsText))
	if err != nil {
		return err
	}
	rhsID, err := tp.operand(strings.TrimSpace(rhsText))
	if err != nil {
		return err
	}
	id := tp.fn.NewBinary(op, lhs, rhsID)
	if err := tp.fn.Append(tp.bb, id); err != nil {
		return err
	}
	tp.local[dst] = id
	return nil
}

func (tp *textParser) operand(text string) (ValueID, error) {
	if strings.HasPrefix(text, "%") {
		id, ok := tp.local[text]
		if !ok {
			return NoValueID, fmt.Errorf("undefined value %s", text)
		}
		return id, nil
	}
	wide, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return NoValueID, fmt.Errorf("bad operand %q: %w", text, err)
	}
	n, err := safecast.Conv[int32](wide)
	if err != nil {
		return NoValueID, fmt.Errorf("constant %s out of i32 range: %w", text, err)
	}
	return tp.fn.Integer(n), nil
}
