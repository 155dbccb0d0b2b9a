package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeRequests(t *testing.T) {
	assert.Equal(t, Operation("+ 10"), Decode([]byte("OPERATION + 10")), "OPERATION with two arguments should decode")
	assert.Equal(t, Get(), Decode([]byte("GET")), "bare GET should decode")
}

func TestDecodeResponses(t *testing.T) {
	assert.Equal(t, Ok(), Decode([]byte("OK")))
	assert.Equal(t, Value("42"), Decode([]byte("VALUE 42")))
	assert.Equal(t, Error("division by zero"), Decode([]byte(`ERROR "division by zero"`)), "ERROR payload should lose its quoting")
	assert.Equal(t, Error(""), Decode([]byte("ERROR")), "ERROR with no arguments is valid")
}

func TestDecodeNormalizesWhitespace(t *testing.T) {
	assert.Equal(t, Operation("+ 10"), Decode([]byte("  OPERATION \t +   10  ")), "token split should ignore extra whitespace")
}

func TestDecodeSyntaxErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"unknown keyword", "hola", "hola"},
		{"empty line", "", ""},
		{"operation arity too low", "OPERATION +", "OPERATION +"},
		{"operation arity too high", "OPERATION + 1 2", "OPERATION + 1 2"},
		{"get with argument", "GET now", "GET now"},
		{"value arity", "VALUE 1 2", "VALUE 1 2"},
		{"ok with argument", "OK then", "OK then"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, SyntaxError(tc.want), Decode([]byte(tc.in)))
		})
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	got := Decode([]byte{0xff, 0xfe, 0xfd})
	assert.Equal(t, KindSyntaxError, got.Kind, "undecodable bytes should be a syntax error")
	assert.Equal(t, "invalid utf-8 sequence", got.Payload)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "OPERATION + 10\n", string(Operation("+ 10").Encode()))
	assert.Equal(t, "GET\n", string(Get().Encode()))
	assert.Equal(t, "OK\n", string(Ok().Encode()))
	assert.Equal(t, "VALUE 7\n", string(Value("7").Encode()))
	assert.Equal(t, "ERROR \"division by zero\"\n", string(Error("division by zero").Encode()))
	assert.Equal(t, "hola\n", string(SyntaxError("hola").Encode()), "syntax errors encode as their raw text on the line framing")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	messages := []Message{
		Operation("* 3"),
		Get(),
		Ok(),
		Error("parsing error: unknown operation: %"),
		Value("255"),
	}

	for _, m := range messages {
		got := Decode(m.Encode())
		assert.Equal(t, m, got, "decode(encode(m)) should give back %s", m)
	}
}
