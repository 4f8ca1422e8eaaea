package jolt

import (
	"fmt"
	"unicode/utf8"
)

// beginString enters the string lexer at the opening quote.  The lexer
// starts on the fast path, scanning a contiguous run of the current chunk
// and emitting it as one slice; the first escape, chunk boundary, or split
// multi-byte sequence promotes the run to the scratch accumulator.
func (p *Parser) beginString(inKey bool, pos int) {
	p.inKey = inKey
	p.keyStart = pos
	p.scratch = p.scratch[:0]
	p.strSlow = false
	p.hiSurr = 0
	p.state = stStr
}

// scanString consumes string-body bytes from in[i:] and returns the index
// of the first unconsumed byte.  It leaves stStr unless the string closes,
// an escape begins, or an error occurs.
func (p *Parser) scanString(in []byte, i, base int) (int, error) {
	// Finish a multi-byte sequence split across chunks.  The saved lead
	// bytes were already counted in p.pos by the previous chunk, so only
	// the newly read bytes advance positions.
	if p.mbNeed > 0 {
		for i < len(in) && p.mbLen < p.mbNeed {
			b := in[i]
			if !mbByteOK(p.mb[0], p.mbLen, b) {
				return 0, newByteError(p.mbStart, p.mb[0])
			}
			p.mb[p.mbLen] = b
			p.mbLen++
			i++
		}
		if p.mbLen < p.mbNeed {
			return i, nil
		}
		p.scratch = append(p.scratch, p.mb[:p.mbLen]...)
		p.mbNeed = 0
		p.mbLen = 0
	}

	run := i
	for i < len(in) {
		b := in[i]
		switch {
		case b == '"':
			content := in[run:i]
			i++
			if p.strSlow {
				p.scratch = append(p.scratch, content...)
				content = p.scratch
			}
			return i, p.finishString(content)
		case b == '\\':
			p.scratch = append(p.scratch, in[run:i]...)
			p.strSlow = true
			p.escStart = base + i
			p.state = stStrEsc
			return i + 1, nil
		case b < 0x20:
			return 0, newByteError(base+i, b)
		case b < 0x80:
			i++
		default:
			n := mbLen(b)
			if n == 0 {
				return 0, newByteError(base+i, b)
			}
			if i+n <= len(in) {
				for k := 1; k < n; k++ {
					if !mbByteOK(b, k, in[i+k]) {
						return 0, newByteError(base+i, b)
					}
				}
				i += n
				continue
			}
			// Sequence split at the chunk boundary: stash the prefix.
			p.scratch = append(p.scratch, in[run:i]...)
			p.strSlow = true
			p.mbStart = base + i
			p.mb[0] = b
			p.mbLen = 1
			for k := i + 1; k < len(in); k++ {
				if !mbByteOK(b, p.mbLen, in[k]) {
					return 0, newByteError(p.mbStart, b)
				}
				p.mb[p.mbLen] = in[k]
				p.mbLen++
			}
			p.mbNeed = n
			return len(in), nil
		}
	}
	// Chunk exhausted mid-string: flush the run and go slow.
	if i > run {
		p.scratch = append(p.scratch, in[run:i]...)
		p.strSlow = true
	}
	return i, nil
}

// finishString routes a completed string: object keys go through the
// key-mapping function into the pending-key slot; all other strings
// complete as values.
func (p *Parser) finishString(content []byte) error {
	if p.inKey {
		p.inKey = false
		var key string
		if p.keyFn != nil {
			k, err := p.keyFn(content)
			if err != nil {
				return fmt.Errorf("invalid object key at position %d: %w", p.keyStart, err)
			}
			key = k
		} else {
			key = string(content)
		}
		top := &p.stack[len(p.stack)-1]
		top.key = key
		p.state = stColon
		return nil
	}
	p.complete(string(content))
	return nil
}

// stepEscape processes one byte of an escape sequence.
func (p *Parser) stepEscape(b byte, pos int) error {
	switch p.state {
	case stStrEsc:
		switch b {
		case '"', '\\', '/':
			p.scratch = append(p.scratch, b)
			p.state = stStr
		case 'b':
			p.scratch = append(p.scratch, '\b')
			p.state = stStr
		case 'f':
			p.scratch = append(p.scratch, '\f')
			p.state = stStr
		case 'n':
			p.scratch = append(p.scratch, '\n')
			p.state = stStr
		case 'r':
			p.scratch = append(p.scratch, '\r')
			p.state = stStr
		case 't':
			p.scratch = append(p.scratch, '\t')
			p.state = stStr
		case 'u':
			p.escRaw = append(p.escRaw[:0], '\\', 'u')
			p.hexCount = 0
			p.hexVal = 0
			p.state = stStrHex
		default:
			return newByteError(pos, b)
		}

	case stStrHex:
		// Read 4 characters unconditionally, then validate, so the error
		// token is the full \uXXXX sequence.
		p.escRaw = append(p.escRaw, b)
		if p.hexVal >= 0 {
			if v := hexDigit(b); v >= 0 {
				p.hexVal = p.hexVal<<4 | v
			} else {
				p.hexVal = -1
			}
		}
		p.hexCount++
		if p.hexCount < 4 {
			return nil
		}
		if p.hexVal < 0 {
			return newTokenError(p.escStart, p.escRaw)
		}
		return p.endUnicodeEscape()

	case stStrSurr:
		if b != '\\' {
			return newTokenError(p.hiStart, p.hiRaw)
		}
		p.escStart = pos
		p.state = stStrSurrU

	case stStrSurrU:
		if b != 'u' {
			return newTokenError(p.hiStart, p.hiRaw)
		}
		p.escRaw = append(p.escRaw[:0], '\\', 'u')
		p.hexCount = 0
		p.hexVal = 0
		p.state = stStrHex
	}
	return nil
}

// endUnicodeEscape classifies a decoded \uXXXX code point: plain BMP code
// points append as UTF-8, a high surrogate waits for its low partner, and
// an unpaired surrogate is an invalid-token error.
func (p *Parser) endUnicodeEscape() error {
	cp := p.hexVal
	switch {
	case cp >= 0xD800 && cp <= 0xDBFF:
		if p.hiSurr != 0 {
			return newTokenError(p.hiStart, append(p.hiRaw, p.escRaw...))
		}
		p.hiSurr = cp
		p.hiStart = p.escStart
		p.hiRaw = append(p.hiRaw[:0], p.escRaw...)
		p.state = stStrSurr
	case cp >= 0xDC00 && cp <= 0xDFFF:
		if p.hiSurr == 0 {
			return newTokenError(p.escStart, p.escRaw)
		}
		r := rune(0x10000 + (p.hiSurr-0xD800)<<10 + (cp - 0xDC00))
		p.scratch = utf8.AppendRune(p.scratch, r)
		p.hiSurr = 0
		p.state = stStr
	default:
		if p.hiSurr != 0 {
			return newTokenError(p.hiStart, append(p.hiRaw, p.escRaw...))
		}
		p.scratch = utf8.AppendRune(p.scratch, rune(cp))
		p.state = stStr
	}
	return nil
}

func hexDigit(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	}
	return -1
}

// mbLen returns the full length of the UTF-8 sequence led by b, or 0 if b
// cannot lead one.  0xC0/0xC1 (overlong) and 0xF5 and above are invalid
// leads.
func mbLen(b byte) int {
	switch {
	case b >= 0xC2 && b <= 0xDF:
		return 2
	case b >= 0xE0 && b <= 0xEF:
		return 3
	case b >= 0xF0 && b <= 0xF4:
		return 4
	}
	return 0
}

// mbByteOK validates continuation byte idx of a sequence led by lead.  The
// narrowed second-byte ranges reject overlong encodings, raw surrogates,
// and code points above U+10FFFF.
func mbByteOK(lead byte, idx int, b byte) bool {
	if idx == 1 {
		switch lead {
		case 0xE0:
			return b >= 0xA0 && b <= 0xBF
		case 0xED:
			return b >= 0x80 && b <= 0x9F
		case 0xF0:
			return b >= 0x90 && b <= 0xBF
		case 0xF4:
			return b >= 0x80 && b <= 0x8F
		}
	}
	return b >= 0x80 && b <= 0xBF
}
