// Package protocol implements the line-oriented wire format shared by the
// calculator server and its clients. Every message is a single newline
// terminated line of ASCII text; the same Message type serializes requests
// and responses.
package protocol

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Kind uint8

const (
	// KindOperation carries the raw operand text of an arithmetic request,
	// e.g. "+ 10". The operation package re-parses it.
	KindOperation Kind = iota
	KindGet
	KindOk
	KindError
	KindValue
	// KindSyntaxError is the only open variant: anything that does not match
	// the closed grammar decodes to it, carrying the offending text.
	KindSyntaxError
)

type Message struct {
	Kind    Kind
	Payload string
}

func Operation(args string) Message { return Message{Kind: KindOperation, Payload: args} }
func Get() Message                  { return Message{Kind: KindGet} }
func Ok() Message                   { return Message{Kind: KindOk} }
func Error(text string) Message     { return Message{Kind: KindError, Payload: text} }
func Value(text string) Message     { return Message{Kind: KindValue, Payload: text} }
func SyntaxError(text string) Message {
	return Message{Kind: KindSyntaxError, Payload: text}
}

// Decode turns one wire line (without framing guarantees) into a Message.
// It is total: input that fails to decode or match the grammar yields a
// SyntaxError message rather than an error.
func Decode(raw []byte) Message {
	if !utf8.Valid(raw) {
		return SyntaxError("invalid utf-8 sequence")
	}

	tokens := strings.Fields(string(raw))
	switch {
	case len(tokens) == 3 && tokens[0] == "OPERATION":
		return Operation(tokens[1] + " " + tokens[2])
	case len(tokens) == 1 && tokens[0] == "GET":
		return Get()
	case len(tokens) == 1 && tokens[0] == "OK":
		return Ok()
	case len(tokens) >= 1 && tokens[0] == "ERROR":
		return Error(unquote(strings.Join(tokens[1:], " ")))
	case len(tokens) == 2 && tokens[0] == "VALUE":
		return Value(tokens[1])
	default:
		return SyntaxError(strings.Join(tokens, " "))
	}
}

// String renders the message as its wire line without the trailing newline.
func (m Message) String() string {
	switch m.Kind {
	case KindOperation:
		return "OPERATION " + m.Payload
	case KindGet:
		return "GET"
	case KindOk:
		return "OK"
	case KindError:
		return fmt.Sprintf("ERROR \"%s\"", m.Payload)
	case KindValue:
		return "VALUE " + m.Payload
	default:
		// Syntax errors round-trip their raw text. The server never sends
		// this variant; normalizing it onto the line framing keeps Encode
		// uniform across kinds.
		return m.Payload
	}
}

// Encode renders the message as a complete newline terminated wire line.
func (m Message) Encode() []byte {
	return []byte(m.String() + "\n")
}

// unquote drops the quoting Encode adds around ERROR text so that decoding
// an encoded message yields the original payload.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
