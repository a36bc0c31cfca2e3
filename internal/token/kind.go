package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents a decimal, octal or hexadecimal integer literal.
	IntLit

	// KwInt represents the 'int' keyword.
	KwInt // int
	// KwVoid represents the 'void' keyword.
	KwVoid // void
	// KwReturn represents the 'return' keyword.
	KwReturn // return

	Plus      // +
	Minus     // -
	Bang      // !
	Tilde     // ~
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	Semicolon // ;
)

var kindNames = [...]string{
	Invalid:   "invalid",
	EOF:       "EOF",
	Ident:     "identifier",
	IntLit:    "integer literal",
	KwInt:     "'int'",
	KwVoid:    "'void'",
	KwReturn:  "'return'",
	Plus:      "'+'",
	Minus:     "'-'",
	Bang:      "'!'",
	Tilde:     "'~'",
	LParen:    "'('",
	RParen:    "')'",
	LBrace:    "'{'",
	RBrace:    "'}'",
	Semicolon: "';'",
}

// String returns the human-readable name used in diagnostics.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
