package jolt

import (
	"bytes"
	"errors"
)

// state identifies the parser's current lexer or structural context.  The
// in-token states carry partial-token data in Parser fields so a parse can
// suspend at any byte and resume on the next chunk.
type state uint8

const (
	stValue        state = iota // expecting the start of a value
	stValueOrClose              // immediately after '[': value or ']'
	stArraySep                  // after an array element: ',' or ']'
	stObjectSep                 // after an object value: ',' or '}'
	stKeyFirst                  // immediately after '{': key or '}'
	stKeyNext                   // after ',' in an object: key only
	stColon                     // after an object key: ':'

	stNumMinus   // after '-'
	stNumZero    // after a leading '0'
	stNumInt     // in the integer digit run
	stNumFrac    // after '.', a digit is required
	stNumFracDig // in the fraction digit run
	stNumExp     // after 'e'/'E', a sign or digit is required
	stNumExpSign // after an exponent sign, a digit is required
	stNumExpDig  // in the exponent digit run

	stKeyword // walking the tail of true/false/null

	stStr      // in a string body
	stStrEsc   // after '\'
	stStrHex   // in the 4 hex digits of \uXXXX
	stStrSurr  // after a high surrogate, expecting '\'
	stStrSurrU // after a high surrogate and '\', expecting 'u'

	stTrailingWS // value complete, skipping trailing whitespace
	stTrailing   // collecting trailing non-whitespace input
)

// frame is one element of the parse work stack.  The topmost frame
// dictates what completing a value means: append to an array, assign to
// the pending object key, or finish the parse.
type frame struct {
	tag frameTag
	key string
	arr []any
	obj map[string]any
}

type frameTag uint8

const (
	frameTerm frameTag = iota
	frameArray
	frameObject
)

// action classifies a byte for one of the structural dispatch contexts.
type action uint8

const (
	aErr action = iota
	aWS
	aString
	aOpenObject
	aOpenArray
	aCloseArray
	aCloseObject
	aComma
	aMinus
	aZero
	aDigit
	aTrue
	aFalse
	aNull
)

// 256-entry dispatch tables for the four structural contexts.
var valueActions [256]action
var arraySepActions [256]action
var objectSepActions [256]action
var keyActions [256]action

func init() {
	for _, c := range []byte{' ', '\t', '\n', '\r'} {
		valueActions[c] = aWS
		arraySepActions[c] = aWS
		objectSepActions[c] = aWS
		keyActions[c] = aWS
	}
	valueActions['"'] = aString
	valueActions['{'] = aOpenObject
	valueActions['['] = aOpenArray
	valueActions[']'] = aCloseArray
	valueActions['-'] = aMinus
	valueActions['0'] = aZero
	for c := byte('1'); c <= '9'; c++ {
		valueActions[c] = aDigit
	}
	valueActions['t'] = aTrue
	valueActions['f'] = aFalse
	valueActions['n'] = aNull

	arraySepActions[','] = aComma
	arraySepActions[']'] = aCloseArray

	objectSepActions[','] = aComma
	objectSepActions['}'] = aCloseObject

	keyActions['"'] = aString
	keyActions['}'] = aCloseObject
}

func isWS(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

var litTrue = []byte("true")
var litFalse = []byte("false")
var litNull = []byte("null")

// feed runs the state machine over in, consuming every byte unless an
// error stops the parse.  Absolute positions are base+i where base is the
// count of bytes consumed by prior chunks.
func (p *Parser) feed(in []byte) error {
	base := p.pos
	i := 0
	for i < len(in) {
		b := in[i]
		switch p.state {
		case stValue, stValueOrClose:
			switch valueActions[b] {
			case aWS:
				i++
			case aString:
				p.beginString(false, base+i)
				i++
			case aOpenObject:
				if err := p.push(frame{tag: frameObject, obj: make(map[string]any)}); err != nil {
					return err
				}
				p.state = stKeyFirst
				i++
			case aOpenArray:
				if err := p.push(frame{tag: frameArray}); err != nil {
					return err
				}
				p.state = stValueOrClose
				i++
			case aCloseArray:
				// ']' is a value-context byte only directly after '['.
				if p.state != stValueOrClose {
					return newByteError(base+i, b)
				}
				i++
				p.closeArray()
			case aMinus:
				p.beginNumber(b, base+i, stNumMinus)
				i++
			case aZero:
				p.beginNumber(b, base+i, stNumZero)
				i++
			case aDigit:
				p.beginNumber(b, base+i, stNumInt)
				i++
			case aTrue:
				i = p.beginKeyword(in, i, litTrue, true)
			case aFalse:
				i = p.beginKeyword(in, i, litFalse, false)
			case aNull:
				i = p.beginKeyword(in, i, litNull, nil)
			default:
				return newByteError(base+i, b)
			}

		case stArraySep:
			switch arraySepActions[b] {
			case aWS:
				i++
			case aComma:
				p.state = stValue
				i++
			case aCloseArray:
				i++
				p.closeArray()
			default:
				return newByteError(base+i, b)
			}

		case stObjectSep:
			switch objectSepActions[b] {
			case aWS:
				i++
			case aComma:
				p.state = stKeyNext
				i++
			case aCloseObject:
				i++
				p.closeObject()
			default:
				return newByteError(base+i, b)
			}

		case stKeyFirst, stKeyNext:
			switch keyActions[b] {
			case aWS:
				i++
			case aString:
				p.beginString(true, base+i)
				i++
			case aCloseObject:
				// '}' closes an object here only when it has no pending
				// comma; after ',' a key is required.
				if p.state == stKeyNext {
					return newByteError(base+i, b)
				}
				i++
				p.closeObject()
			default:
				return newByteError(base+i, b)
			}

		case stColon:
			switch {
			case isWS(b):
				i++
			case b == ':':
				p.state = stValue
				i++
			default:
				return newByteError(base+i, b)
			}

		case stNumMinus, stNumZero, stNumInt, stNumFrac, stNumFracDig,
			stNumExp, stNumExpSign, stNumExpDig:
			consumed, err := p.stepNumber(b, base+i)
			if err != nil {
				return err
			}
			if consumed {
				i++
			}

		case stKeyword:
			if b != p.kwWant[0] {
				return newByteError(base+i, b)
			}
			p.kwWant = p.kwWant[1:]
			i++
			if len(p.kwWant) == 0 {
				p.complete(p.kwVal)
			}

		case stStr:
			var err error
			i, err = p.scanString(in, i, base)
			if err != nil {
				return err
			}

		case stStrEsc, stStrHex, stStrSurr, stStrSurrU:
			if err := p.stepEscape(b, base+i); err != nil {
				return err
			}
			i++

		case stTrailingWS:
			if isWS(b) {
				i++
			} else {
				p.state = stTrailing
			}

		case stTrailing:
			p.trailing = append(p.trailing, in[i:]...)
			i = len(in)
		}
	}
	p.pos = base + len(in)
	return nil
}

// complete consumes a finished value according to the topmost stack frame.
func (p *Parser) complete(v any) {
	top := &p.stack[len(p.stack)-1]
	switch top.tag {
	case frameArray:
		top.arr = append(top.arr, v)
		p.state = stArraySep
	case frameObject:
		top.obj[top.key] = v
		p.state = stObjectSep
	default:
		p.value = v
		p.done = true
		p.state = stTrailingWS
	}
}

func (p *Parser) push(fr frame) error {
	if len(p.stack) > p.maxDepth {
		return errors.New("maximum depth exceeded")
	}
	p.stack = append(p.stack, fr)
	return nil
}

func (p *Parser) closeArray() {
	fr := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	if fr.arr == nil {
		fr.arr = []any{}
	}
	p.complete(fr.arr)
}

func (p *Parser) closeObject() {
	fr := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.complete(fr.obj)
}

// beginKeyword matches true/false/null.  The fast path compares the whole
// literal at once; the walker handles mismatches and chunk boundaries.
func (p *Parser) beginKeyword(in []byte, i int, lit []byte, val any) int {
	if len(in)-i >= len(lit) && bytes.Equal(in[i:i+len(lit)], lit) {
		p.complete(val)
		return i + len(lit)
	}
	p.state = stKeyword
	p.kwWant = lit[1:]
	p.kwVal = val
	return i + 1
}
