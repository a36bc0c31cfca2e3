package lexer

import (
	"sysyc/internal/diag"
	"sysyc/internal/token"
)

// Поддержка: десятичные [1-9][0-9]*, восьмеричные 0[0-7]*, шестнадцатеричные 0[xX][0-9a-fA-F]+.
// Сканируем жадно до конца [0-9A-Za-z_], затем валидируем: "09", "0x", "12ab" -> LexBadNumber
// и токен Invalid. Значение не вычисляем — переполнение ловит парсер.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.IntLit, start)
	if msg := validateIntLit(tok.Text); msg != "" {
		lx.errLex(diag.LexBadNumber, tok.Span, msg)
		tok.Kind = token.Invalid
	}
	return tok
}

func validateIntLit(text string) string {
	switch {
	case len(text) >= 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X'):
		digits := text[2:]
		if digits == "" {
			return "expected hexadecimal digits after '0x'"
		}
		for i := 0; i < len(digits); i++ {
			if !isHex(digits[i]) {
				return "invalid digit '" + string(digits[i]) + "' in hexadecimal literal"
			}
		}
	case text[0] == '0':
		for i := 1; i < len(text); i++ {
			if text[i] < '0' || text[i] > '7' {
				return "invalid digit '" + string(text[i]) + "' in octal literal"
			}
		}
	default:
		for i := 0; i < len(text); i++ {
			if !isDec(text[i]) {
				return "invalid digit '" + string(text[i]) + "' in decimal literal"
			}
		}
	}
	return ""
}
