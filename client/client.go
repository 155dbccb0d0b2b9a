package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/acortes/distributed_calculator/protocol"
)

// Replay dials the server, sends every line of input verbatim as a request,
// and reads one response per line. Server-side rejections are reported and
// the replay continues; once the input is exhausted a trailing GET fetches
// the final register value, which is written to out.
func (c *Client) Replay(input io.Reader, out io.Writer) error {
	conn, err := net.Dial(c.Server.Network, c.Server.Address)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", c.Server.Address, err)
	}
	defer conn.Close()

	return c.replay(input, conn, out)
}

func (c *Client) replay(input io.Reader, conn io.ReadWriter, out io.Writer) error {
	in := bufio.NewReader(input)
	responses := bufio.NewReader(conn)

	for {
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading input: %w", err)
		}
		if line != "" {
			if !strings.HasSuffix(line, "\n") {
				line += "\n"
			}
			if werr := writeAll(conn, []byte(line)); werr != nil {
				return werr
			}
			if rerr := receiveResponse(responses); rerr != nil {
				return rerr
			}
		}
		if err != nil {
			break
		}
	}

	if err := writeAll(conn, protocol.Get().Encode()); err != nil {
		return err
	}
	return finalValue(responses, out)
}

// receiveResponse consumes one response line. An ERROR response reflects a
// rejected request; it is reported here rather than failing the replay.
func receiveResponse(r *bufio.Reader) error {
	line, err := r.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return fmt.Errorf("reading server response: %w", err)
	}

	msg := protocol.Decode([]byte(strings.TrimRight(line, "\r\n")))
	if msg.Kind == protocol.KindError {
		log.Errorf("server rejected request: %s", msg.Payload)
	}
	return nil
}

// finalValue reads the response to the trailing GET and prints the value.
func finalValue(r *bufio.Reader, out io.Writer) error {
	line, err := r.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return fmt.Errorf("reading final value: %w", err)
	}

	msg := protocol.Decode([]byte(strings.TrimRight(line, "\r\n")))
	switch msg.Kind {
	case protocol.KindValue:
		fmt.Fprintln(out, msg.Payload)
		return nil
	case protocol.KindError:
		log.Errorf("server rejected request: %s", msg.Payload)
		return nil
	default:
		return fmt.Errorf("unexpected final response: %s", msg)
	}
}

func writeAll(w io.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing to server: %w", err)
	}
	return nil
}
