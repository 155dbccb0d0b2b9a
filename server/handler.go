package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/acortes/distributed_calculator/operation"
	"github.com/acortes/distributed_calculator/protocol"
)

// handle runs the per-connection loop: read a line, decode it, dispatch,
// respond, repeat. It takes an io.ReadWriter so tests can drive it without a
// socket. A nil return is a clean end-of-stream; a non-nil return is fatal
// for this connection only and never touches the shared register's already
// committed state.
func (s *Server) handle(rw io.ReadWriter) error {
	r := bufio.NewReader(rw)

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("reading request: %w", err)
			}
			if line == "" {
				return nil
			}
			// The stream ended on an unterminated line; serve it, then close.
		}

		msg := protocol.Decode([]byte(strings.TrimRight(line, "\r\n")))

		var dispatchErr error
		switch msg.Kind {
		case protocol.KindOperation:
			dispatchErr = s.handleOperation(rw, msg.Payload)
		case protocol.KindGet:
			dispatchErr = s.handleGet(rw)
		default:
			// Receiving a response kind (or garbage) from the peer is a
			// protocol violation, reported but not fatal.
			dispatchErr = send(rw, protocol.Error("unexpected message: "+msg.String()))
		}
		if dispatchErr != nil {
			return dispatchErr
		}
		if err != nil {
			return nil
		}
	}
}

// handleOperation parses the operand text and applies it to the register. A
// parse failure is the client's problem: reported back, connection stays up.
// An apply failure means the register is unusable and ends the connection.
func (s *Server) handleOperation(w io.Writer, args string) error {
	op, err := operation.Parse(args)
	if err != nil {
		return send(w, protocol.Error(err.Error()))
	}

	if err := s.Acc.Apply(op); err != nil {
		return fmt.Errorf("applying operation: %w", err)
	}
	return send(w, protocol.Ok())
}

func (s *Server) handleGet(w io.Writer) error {
	v, err := s.Acc.Value()
	if err != nil {
		return fmt.Errorf("reading value: %w", err)
	}
	return send(w, protocol.Value(strconv.FormatUint(uint64(v), 10)))
}

func send(w io.Writer, msg protocol.Message) error {
	if _, err := w.Write(msg.Encode()); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}
