// Copyright 2020 by David A. Golden. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package jolt is a streaming, allocation-aware JSON decoder.  It decodes
// UTF-8 JSON text (RFC 8259) into a dynamically-typed value tree, either
// from a single buffer or incrementally from a sequence of input chunks,
// while minimizing memory copies.  Only UTF-8 encoding is supported.
//
// # Values
//
// Decoded values use Go's conventional dynamic JSON representation:
//
//	JSON null    -> nil
//	JSON boolean -> bool
//	JSON integer -> int64
//	JSON float   -> float64
//	JSON string  -> string
//	JSON array   -> []any
//	JSON object  -> map[string]any
//
// Number literals without a fraction or exponent decode as int64; all
// others decode as float64.  Integer literals that overflow int64 widen to
// float64.  Duplicate object keys collapse to the last value written.
//
// # Streaming
//
// A Parser is an explicit, resumable parse state.  Feed may be called any
// number of times with successive fragments of the input; the parser
// suspends cleanly at any point, including in the middle of a number, a
// keyword, a string escape, or a multi-byte UTF-8 sequence.  Error
// positions are byte offsets into the logical input regardless of how it
// was chunked.
//
// # Errors
//
// Syntax failures are reported as *ParseError with a 0-based byte position
// and one of four kinds: unexpected end of input, unexpected byte, invalid
// token, or trailing input after a complete value.  Exceeding the maximum
// nesting depth, an unsupported byte-order mark, and a KeyFunc failure are
// reported as plain errors, not as *ParseError.
package jolt
