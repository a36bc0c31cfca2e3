package token_test

import (
	"testing"

	"sysyc/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	for text, want := range map[string]token.Kind{"int": token.KwInt, "void": token.KwVoid, "return": token.KwReturn} {
		got, ok := token.LookupKeyword(text)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v,%v", text, got, ok)
		}
	}
	for _, text := range []string{"Int", "RETURN", "main", ""} {
		if _, ok := token.LookupKeyword(text); ok {
			t.Errorf("%q must not be a keyword", text)
		}
	}
}

func TestPredicates(t *testing.T) {
	for _, k := range []token.Kind{token.Plus, token.Minus, token.Bang, token.Tilde} {
		if !(token.Token{Kind: k}).IsUnaryOp() {
			t.Errorf("%v should be unary op", k)
		}
	}
	if (token.Token{Kind: token.Semicolon}).IsUnaryOp() {
		t.Errorf("';' is not a unary op")
	}
	if !(token.Token{Kind: token.IntLit}).IsLiteral() {
		t.Errorf("IntLit should be literal")
	}
	if !(token.Token{Kind: token.KwReturn}).IsKeyword() {
		t.Errorf("'return' should be keyword")
	}
}

func TestKindString(t *testing.T) {
	if got := token.Semicolon.String(); got != "';'" {
		t.Errorf("Semicolon.String() = %q", got)
	}
	if got := token.Kind(250).String(); got != "unknown" {
		t.Errorf("Kind(250).String() = %q", got)
	}
}
