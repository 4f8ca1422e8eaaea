package jolt

import (
	"fmt"
	"strconv"
)

// ParseError records a JSON parsing failure.  Position is a 0-based byte
// offset into the logical input: with chunked input, positions accumulate
// across chunks, so a position always designates a byte of the original
// document.
type ParseError struct {
	// Position is the byte offset the error refers to.
	Position int
	// EOF is true when input ended inside an incomplete token or structure.
	EOF bool
	// Byte is the offending byte for unexpected-byte errors.
	Byte byte
	// Token is the literal source substring for invalid-token errors:
	// numbers that fail conversion and bad or orphaned \uXXXX escapes.
	Token string
	// Extra holds the trailing bytes found after a complete value.
	Extra []byte

	kind errKind
}

type errKind uint8

const (
	errByte errKind = iota
	errEOF
	errToken
	errTrailing
)

func (pe *ParseError) Error() string {
	switch pe.kind {
	case errEOF:
		return fmt.Sprintf("unexpected end of input at position %d", pe.Position)
	case errToken:
		return fmt.Sprintf("unexpected sequence at position %d: %s", pe.Position, strconv.Quote(pe.Token))
	case errTrailing:
		return fmt.Sprintf("unexpected extra input after valid json: %s", strconv.Quote(string(pe.Extra)))
	default:
		if pe.Byte >= 0x20 && pe.Byte <= 0x7E {
			return fmt.Sprintf("unexpected byte at position %d: 0x%02X ('%c')", pe.Position, pe.Byte, pe.Byte)
		}
		return fmt.Sprintf("unexpected byte at position %d: 0x%02X", pe.Position, pe.Byte)
	}
}

func newEOFError(pos int) *ParseError {
	return &ParseError{Position: pos, EOF: true, kind: errEOF}
}

func newByteError(pos int, b byte) *ParseError {
	return &ParseError{Position: pos, Byte: b, kind: errByte}
}

func newTokenError(pos int, token []byte) *ParseError {
	return &ParseError{Position: pos, Token: string(token), kind: errToken}
}

func newTrailingError(pos int, extra []byte) *ParseError {
	e := make([]byte, len(extra))
	copy(e, extra)
	return &ParseError{Position: pos, Extra: e, kind: errTrailing}
}
