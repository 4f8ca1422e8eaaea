// Copyright 2020 by David A. Golden. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package jolt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
)

// Status reports whether a Parser has a complete value after a Feed.
type Status uint8

const (
	// NeedMore means the input ended inside an incomplete value; feed more
	// bytes to continue.
	NeedMore Status = iota
	// Done means a complete value has been decoded.  Further input is
	// collected as trailing bytes.
	Done
)

// KeyFunc transforms a decoded object key into its in-memory
// representation.  The byte slice is only valid for the duration of the
// call; implementations that retain the key must copy it.  Returning an
// error aborts the parse.
type KeyFunc func(key []byte) (string, error)

// Parser is an explicit, resumable JSON parse state.  A Parser decodes
// exactly one value; it holds no shared mutable state, so distinct Parsers
// may run concurrently in separate goroutines.
type Parser struct {
	state    state
	stack    []frame
	maxDepth int
	keyFn    KeyFunc

	pos        int
	bomChecked bool
	done       bool
	err        error
	value      any
	trailing   []byte

	// number lexer
	num      []byte
	numStart int

	// keyword lexer
	kwWant []byte
	kwVal  any

	// string lexer
	inKey    bool
	keyStart int
	scratch  []byte
	strSlow  bool
	escStart int
	escRaw   []byte
	hexCount int
	hexVal   int
	hiSurr   int
	hiStart  int
	hiRaw    []byte
	mb       [4]byte
	mbLen    int
	mbNeed   int
	mbStart  int
}

// NewParser returns a Parser ready to decode one JSON value.
func NewParser() *Parser {
	return &Parser{
		state:    stValue,
		stack:    []frame{{tag: frameTerm}},
		maxDepth: 200,
	}
}

// MaxDepth sets the maximum allowed nesting depth of arrays and objects.
// The default is 200.
func (p *Parser) MaxDepth(n int) {
	p.maxDepth = n
}

// KeyFunc sets the key-mapping policy for object keys.  The default keeps
// keys as plain strings.  The function is called exactly once per object
// key, in source order, and never for non-key strings.
func (p *Parser) KeyFunc(fn KeyFunc) {
	p.keyFn = fn
}

// Pos returns the total number of input bytes consumed so far.
func (p *Parser) Pos() int {
	return p.pos
}

// Feed runs the parser over the next fragment of input.  It consumes the
// entire chunk unless an error stops the parse.  A chunk may end anywhere,
// including inside a number, keyword, string escape, or multi-byte UTF-8
// sequence; the parser suspends and resumes on the next Feed.
func (p *Parser) Feed(chunk []byte) (Status, error) {
	if p.err != nil {
		return NeedMore, p.err
	}
	if !p.bomChecked && len(chunk) > 0 {
		var err error
		chunk, err = p.handleBOM(chunk)
		if err != nil {
			p.err = err
			return NeedMore, err
		}
	}
	if err := p.feed(chunk); err != nil {
		p.err = err
		return NeedMore, err
	}
	if p.done {
		return Done, nil
	}
	return NeedMore, nil
}

// Result finalizes the parse at end of input.  A pending root-level number
// is completed, since only more digits could have extended it.  If the
// value is complete, the Result carries it along with any trailing
// non-whitespace bytes.  Otherwise the Result is a continuation: More
// reports true and Resume accepts further input.
func (p *Parser) Result() (*Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	if !p.done && len(p.stack) == 1 {
		switch p.state {
		case stNumZero, stNumInt, stNumFracDig, stNumExpDig:
			if err := p.finishNumber(); err != nil {
				p.err = err
				return nil, err
			}
		}
	}
	if !p.done {
		return &Result{cont: p}, nil
	}
	return &Result{Value: p.value, Trailing: p.trailing}, nil
}

// Unmarshal strictly decodes a single complete JSON value.  Trailing
// non-whitespace input and incomplete input are errors.
func (p *Parser) Unmarshal(in []byte) (any, error) {
	if _, err := p.Feed(in); err != nil {
		return nil, err
	}
	res, err := p.Result()
	if err != nil {
		return nil, err
	}
	if res.More() {
		return nil, newEOFError(p.pos)
	}
	if len(res.Trailing) > 0 {
		return nil, newTrailingError(p.pos-len(res.Trailing), res.Trailing)
	}
	return res.Value, nil
}

// Result is the outcome of a parse: a complete value with optional
// trailing bytes, or a continuation awaiting more input.
type Result struct {
	// Value is the decoded value.  Valid when More reports false.
	Value any
	// Trailing holds any non-whitespace input that followed the value.
	Trailing []byte

	cont *Parser
}

// More reports whether the parse needs more input to complete.
func (r *Result) More() bool {
	return r.cont != nil
}

// Resume feeds another chunk into a continuation and finalizes again.  It
// must only be called when More reports true.
func (r *Result) Resume(chunk []byte) (*Result, error) {
	if r.cont == nil {
		return nil, errors.New("jolt: resume on a completed parse")
	}
	if _, err := r.cont.Feed(chunk); err != nil {
		return nil, err
	}
	return r.cont.Result()
}

// Unmarshal strictly decodes a single complete JSON value from in.
func Unmarshal(in []byte) (any, error) {
	return NewParser().Unmarshal(in)
}

// Decode decodes one JSON value from a single buffer.  A complete value
// followed by non-whitespace input yields a Result with Trailing set; an
// incomplete value yields a continuation.
func Decode(in []byte) (*Result, error) {
	p := NewParser()
	if _, err := p.Feed(in); err != nil {
		return nil, err
	}
	return p.Result()
}

// DecodeChunks decodes one JSON value from a sequence of input fragments.
// Error positions are byte offsets into the concatenated input.  If the
// sequence ends while the value is still incomplete, the Result is a
// continuation.
func DecodeChunks(chunks iter.Seq[[]byte]) (*Result, error) {
	p := NewParser()
	for chunk := range chunks {
		if _, err := p.Feed(chunk); err != nil {
			return nil, err
		}
	}
	return p.Result()
}

// DecodeReader decodes one JSON value from r, feeding the parser in
// buffer-sized chunks.
func DecodeReader(r io.Reader) (*Result, error) {
	p := NewParser()
	buf := make([]byte, 8192)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, ferr := p.Feed(buf[:n]); ferr != nil {
				return nil, ferr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newReadError(err)
		}
	}
	return p.Result()
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}
var utf16BEBOM = []byte{0xFE, 0xFF}
var utf16LEBOM = []byte{0xFF, 0xFE}
var utf32BEBOM = []byte{0x00, 0x00, 0xFE, 0xFF}
var utf32LEBOM = []byte{0xFF, 0xFE, 0x00, 0x00}

// detect/discard/error on BOM.  Only UTF-8 is supported, so a UTF-8 BOM is
// skipped and counted in positions; other BOMs are errors.  UTF-32 LE must
// be checked before UTF-16 LE, which it extends.
func (p *Parser) handleBOM(chunk []byte) ([]byte, error) {
	p.bomChecked = true
	if len(chunk) >= 4 && (bytes.Equal(chunk[0:4], utf32BEBOM) || bytes.Equal(chunk[0:4], utf32LEBOM)) {
		return nil, errors.New("detected unsupported UTF-32 BOM")
	}
	if len(chunk) >= 2 && (bytes.Equal(chunk[0:2], utf16BEBOM) || bytes.Equal(chunk[0:2], utf16LEBOM)) {
		return nil, errors.New("detected unsupported UTF-16 BOM")
	}
	if len(chunk) >= 3 && bytes.Equal(chunk[0:3], utf8BOM) {
		p.pos += 3
		return chunk[3:], nil
	}
	return chunk, nil
}

// newReadError is used when reading from an input source fails.  If the
// error is EOF, it is converted to UnexpectedEOF because the read happened
// inside a value.
func newReadError(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("error reading json: %w", err)
}

// Interner provides shared canonical strings for object keys, so that
// documents with many repeated keys allocate each distinct key once.  An
// Interner is not safe for concurrent use; give each concurrent parse its
// own, or guard it with a lock.
type Interner struct {
	keys map[string]string
}

// NewInterner returns an empty Interner, optionally preloaded with keys.
func NewInterner(keys ...string) *Interner {
	it := &Interner{keys: make(map[string]string, len(keys))}
	for _, k := range keys {
		it.keys[k] = k
	}
	return it
}

// Intern is a KeyFunc that returns the canonical string for key, adding it
// to the table on first sight.
func (it *Interner) Intern(key []byte) (string, error) {
	if s, ok := it.keys[string(key)]; ok {
		return s, nil
	}
	s := string(key)
	it.keys[s] = s
	return s, nil
}

// Existing is a KeyFunc that returns the canonical string for key and
// fails if the key was never interned or preloaded.
func (it *Interner) Existing(key []byte) (string, error) {
	if s, ok := it.keys[string(key)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown object key %q", key)
}
