package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"sysyc/internal/diag"
	"sysyc/internal/token"
)

var punct = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'!': token.Bang,
	'~': token.Tilde,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	';': token.Semicolon,
}

// scanOperatorOrPunct распознаёт односимвольные операторы и разделители.
// Неизвестный символ (включая многобайтовую руну целиком) -> LexUnknownChar и токен Invalid.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	if k, ok := punct[b]; ok {
		return lx.emit(k, start)
	}

	if b >= utf8.RuneSelf {
		lx.cursor.Reset(start)
		_, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		n, err := safecast.Conv[uint32](size)
		if err != nil {
			panic(fmt.Errorf("rune size overflow: %w", err))
		}
		lx.cursor.Off += n
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unknown character %q", tok.Text))
	return tok
}
