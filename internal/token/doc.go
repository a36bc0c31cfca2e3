// Package token defines lexical token kinds and trivia for the SysY front end.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Comments and whitespace are leading Trivia and never appear in the token stream.
//   - Type names (int, void) are keywords; there are no user-defined types.
package token
