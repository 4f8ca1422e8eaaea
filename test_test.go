package jolt

import (
	"reflect"
	"strconv"
	"strings"
	"testing"
)

type decodeTestCase struct {
	label  string
	input  string
	want   any
	errStr string
}

// testDecodeCases runs each case through the strict single-buffer entry
// and again feeding one byte at a time, so every case also exercises
// suspension and resumption at every possible boundary.
func testDecodeCases(t *testing.T, cases []decodeTestCase) {
	t.Helper()

	for _, c := range cases {
		t.Run(c.label, func(t *testing.T) {
			t.Parallel()

			got, err := Unmarshal([]byte(c.input))
			checkDecode(t, "single-buffer", c, got, err)

			got, err = unmarshalByteAtATime([]byte(c.input))
			checkDecode(t, "byte-at-a-time", c, got, err)
		})
	}
}

func checkDecode(t *testing.T, mode string, c decodeTestCase, got any, err error) {
	t.Helper()
	if c.errStr != "" {
		var msg string
		if err != nil {
			msg = err.Error()
		}
		if !strings.Contains(msg, c.errStr) {
			t.Errorf("%s: expected error with '%s', but got %v", mode, c.errStr, err)
		}
		return
	}
	if err != nil {
		t.Errorf("%s: unexpected error: %v", mode, err)
		return
	}
	if !reflect.DeepEqual(got, c.want) {
		t.Errorf("%s: decoded value doesn't match:\nGot:    %#v\nExpect: %#v", mode, got, c.want)
	}
}

// unmarshalByteAtATime is the strict entry over a worst-case chunking.
func unmarshalByteAtATime(in []byte) (any, error) {
	p := NewParser()
	for i := range in {
		if _, err := p.Feed(in[i : i+1]); err != nil {
			return nil, err
		}
	}
	return p.Unmarshal(nil)
}

func mustParseFloat(t *testing.T, s string) float64 {
	t.Helper()
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		t.Fatalf("error parsing test float %q: %v", s, err)
	}
	return f
}
