// Package ir is a Koopa-style single-assignment intermediate representation.
//
// A Program owns Functions in definition order. A Function owns an arena of
// Values addressed by ValueID handles and an ordered list of BasicBlocks. Each
// block holds a layout: the ordered list of instruction handles it executes.
// Integer constants live in the arena only and are never placed in a layout;
// they are referenced as operands and interned per function.
//
// Handles are only meaningful inside the Function that issued them.
package ir
