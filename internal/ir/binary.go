package ir

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// BinarySchemaVersion is bumped whenever the encoded layout changes.
const BinarySchemaVersion uint16 = 1

type wireProgram struct {
	Schema uint16     `msgpack:"schema"`
	Funcs  []wireFunc `msgpack:"funcs"`
}

type wireFunc struct {
	Name   string      `msgpack:"name"`
	Ret    Type        `msgpack:"ret"`
	Values []wireValue `msgpack:"values"`
	Blocks []wireBlock `msgpack:"blocks"`
}

type wireValue struct {
	Kind ValueKind `msgpack:"k"`
	Int  int32     `msgpack:"i,omitempty"`
	Op   BinaryOp  `msgpack:"op,omitempty"`
	LHS  ValueID   `msgpack:"l,omitempty"`
	RHS  ValueID   `msgpack:"r,omitempty"`
	Ret  ValueID   `msgpack:"ret,omitempty"`
}

type wireBlock struct {
	Name  string    `msgpack:"name"`
	Insts []ValueID `msgpack:"insts"`
}

// EncodeBinary writes p as msgpack.
func EncodeBinary(w io.Writer, p *Program) error {
	wp := wireProgram{Schema: BinarySchemaVersion, Funcs: make([]wireFunc, 0, len(p.funcs))}
	for _, f := range p.funcs {
		wf := wireFunc{Name: f.Name, Ret: f.Ret, Values: make([]wireValue, len(f.values))}
		for i := range f.values {
			v := &f.values[i]
			wv := wireValue{Kind: v.Kind}
			switch v.Kind {
			case ValueInteger:
				wv.Int = v.Integer.Value
			case ValueBinary:
				wv.Op, wv.LHS, wv.RHS = v.Binary.Op, v.Binary.LHS, v.Binary.RHS
			case ValueReturn:
				wv.Ret = v.Return.Value
			}
			wf.Values[i] = wv
		}
		for _, bb := range f.blocks {
			wf.Blocks = append(wf.Blocks, wireBlock{Name: bb.Name, Insts: append([]ValueID(nil), bb.insts...)})
		}
		wp.Funcs = append(wp.Funcs, wf)
	}
	return msgpack.NewEncoder(w).Encode(&wp)
}

// MarshalBinary is EncodeBinary into a fresh byte slice.
func MarshalBinary(p *Program) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeBinary(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ErrSchemaMismatch is returned by DecodeBinary for data written by another schema version.
var ErrSchemaMismatch = fmt.Errorf("ir: binary schema mismatch (want %d)", BinarySchemaVersion)

// DecodeBinary reads a program written by EncodeBinary. The program is
// rebuilt through the public constructors, so every Append rule is re-checked.
func DecodeBinary(r io.Reader) (*Program, error) {
	var wp wireProgram
	if err := msgpack.NewDecoder(r).Decode(&wp); err != nil {
		return nil, fmt.Errorf("ir: decode: %w", err)
	}
	if wp.Schema != BinarySchemaVersion {
		return nil, ErrSchemaMismatch
	}
	p := NewProgram()
	for _, wf := range wp.Funcs {
		f, err := decodeFunc(wf)
		if err != nil {
			return nil, fmt.Errorf("ir: decode %s: %w", wf.Name, err)
		}
		if err := p.AddFunction(f); err != nil {
			return nil, fmt.Errorf("ir: decode: %w", err)
		}
	}
	if err := Validate(p); err != nil {
		return nil, fmt.Errorf("ir: decode: %w", err)
	}
	return p, nil
}

func decodeFunc(wf wireFunc) (f *Function, err error) {
	// невалидные хэндлы внутри данных приводят к панике в конструкторах
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, fmt.Errorf("corrupt value table: %v", r)
		}
	}()
	f = NewFunction(wf.Name, wf.Ret)
	// remap растёт по мере разбора: ссылка вперёд — ошибка
	remap := make([]ValueID, 0, len(wf.Values))
	mapped := func(id ValueID) ValueID {
		if id == NoValueID {
			return NoValueID
		}
		if id < 0 || int(id) >= len(remap) {
			panic(fmt.Errorf("handle %d out of range", id))
		}
		return remap[id]
	}
	for _, wv := range wf.Values {
		var id ValueID
		switch wv.Kind {
		case ValueInteger:
			id = f.Integer(wv.Int)
		case ValueBinary:
			id = f.NewBinary(wv.Op, mapped(wv.LHS), mapped(wv.RHS))
		case ValueReturn:
			id = f.NewReturn(mapped(wv.Ret))
		default:
			return nil, fmt.Errorf("unknown value kind %d", wv.Kind)
		}
		remap = append(remap, id)
	}
	for _, wb := range wf.Blocks {
		bb, err := f.NewBlock(wb.Name)
		if err != nil {
			return nil, err
		}
		for _, id := range wb.Insts {
			if err := f.Append(bb, mapped(id)); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
