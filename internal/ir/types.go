package ir

// Type is the static type of a Value or a function result.
type Type uint8

const (
	// TypeUnit is the type of instructions that produce no value.
	TypeUnit Type = iota
	// TypeI32 is the 32-bit signed integer type.
	TypeI32
)

func (t Type) String() string {
	switch t {
	case TypeI32:
		return "i32"
	case TypeUnit:
		return "unit"
	}
	return "?"
}
