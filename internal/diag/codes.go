package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexBadNumber                Code = 1003

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynUnclosedParen      Code = 2003
	SynUnclosedBrace      Code = 2004
	SynExpectExpression   Code = 2005
	SynExpectReturn       Code = 2006
	SynExpectIdentifier   Code = 2007
	SynUnexpectedTopLevel Code = 2008
	SynTrailingTokens     Code = 2009
	SynIntegerOverflow    Code = 2010
	SynVoidFunction       Code = 2011

	// Понижение AST → IR
	LowInfo              Code = 3000
	LowBadFuncType       Code = 3001
	LowDuplicateFunction Code = 3002
	LowInvalidProgram    Code = 3003

	// Генерация кода
	GenInfo            Code = 4000
	GenUnsupportedKind Code = 4001
	GenClobbered       Code = 4002
	GenWriteFailed     Code = 4003

	// Ввод-вывод
	IOInfo          Code = 5000
	IOLoadFileError Code = 5001
	IOWriteError    Code = 5002
	IOCacheError    Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number literal",

	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynExpectSemicolon:    "Expected semicolon",
	SynUnclosedParen:      "Unclosed parenthesis",
	SynUnclosedBrace:      "Unclosed brace",
	SynExpectExpression:   "Expected expression",
	SynExpectReturn:       "Expected 'return' statement",
	SynExpectIdentifier:   "Expected identifier",
	SynUnexpectedTopLevel: "Unexpected top-level construct",
	SynTrailingTokens:     "Unexpected tokens after function definition",
	SynIntegerOverflow:    "Integer literal out of range",
	SynVoidFunction:       "Function must return int",

	LowInfo:              "Lowering information",
	LowBadFuncType:       "Malformed function type",
	LowDuplicateFunction: "Duplicate function",
	LowInvalidProgram:    "Lowered program is invalid",

	GenInfo:            "Codegen information",
	GenUnsupportedKind: "Unsupported IR value kind",
	GenClobbered:       "Operand register clobbered",
	GenWriteFailed:     "Failed to write assembly",

	IOInfo:          "I/O information",
	IOLoadFileError: "I/O load file error",
	IOWriteError:    "I/O write error",
	IOCacheError:    "IR cache error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
