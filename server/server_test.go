package server

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acortes/distributed_calculator/workload"
)

// serve binds an ephemeral port and dispatches every accepted connection to
// its own handler goroutine, the way Start does, without fixed ports.
func serve(t *testing.T, s *Server) net.Addr {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	go func() {
		for i := 0; ; i++ {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go s.handleConnection(fmt.Sprintf("conn-%d", i), conn)
		}
	}()

	return l.Addr()
}

func dial(t *testing.T, addr net.Addr) (net.Conn, *bufio.Reader) {
	t.Helper()
	conn, err := net.Dial(addr.Network(), addr.String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, bufio.NewReader(conn)
}

func roundTrip(t *testing.T, conn net.Conn, r *bufio.Reader, request string) string {
	t.Helper()
	_, err := conn.Write([]byte(request))
	require.NoError(t, err)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return line
}

func TestServerBindFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	s := newTestServer()
	s.Self.Address = taken.Addr().String()

	err = s.Start()
	require.Error(t, err, "binding an address already in use must fail")
	assert.Contains(t, err.Error(), "binding")
}

func TestServerStartStop(t *testing.T) {
	s := newTestServer()
	s.Self.Address = "127.0.0.1:19234"

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	// Allow time for the server to bind.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, s.Stop())
	assert.NoError(t, <-errCh, "a stopped listener is an orderly shutdown, not an error")
}

func TestServerConversation(t *testing.T) {
	s := newTestServer()
	addr := serve(t, s)
	conn, r := dial(t, addr)

	assert.Equal(t, "OK\n", roundTrip(t, conn, r, "OPERATION + 1\n"))
	assert.Equal(t, "VALUE 1\n", roundTrip(t, conn, r, "GET\n"))
}

func TestServerUnexpectedMessageKeepsConnection(t *testing.T) {
	s := newTestServer()
	addr := serve(t, s)
	conn, r := dial(t, addr)

	assert.Equal(t, "ERROR \"unexpected message: hola\"\n", roundTrip(t, conn, r, "hola\n"))
	assert.Equal(t, "VALUE 0\n", roundTrip(t, conn, r, "GET\n"))
}

func TestServerSharedRegisterAcrossConnections(t *testing.T) {
	s := newTestServer()
	addr := serve(t, s)

	first, r1 := dial(t, addr)
	assert.Equal(t, "OK\n", roundTrip(t, first, r1, "OPERATION + 40\n"))
	first.Close()

	second, r2 := dial(t, addr)
	assert.Equal(t, "VALUE 40\n", roundTrip(t, second, r2, "GET\n"), "every connection sees the one shared register")
}

func TestServerClientDisconnect(t *testing.T) {
	s := newTestServer()
	addr := serve(t, s)

	conn, r := dial(t, addr)
	assert.Equal(t, "OK\n", roundTrip(t, conn, r, "OPERATION + 3\n"))
	conn.Close()

	// The abrupt disconnect must not disturb the register.
	v, err := s.Acc.Value()
	require.NoError(t, err)
	assert.Equal(t, uint8(3), v)
}

func TestServerConcurrentOperationsSerialize(t *testing.T) {
	s := newTestServer()
	addr := serve(t, s)

	const clients = 8
	const perClient = 50

	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conn, err := net.Dial(addr.Network(), addr.String())
			if !assert.NoError(t, err) {
				return
			}
			defer conn.Close()
			r := bufio.NewReader(conn)

			for j := 0; j < perClient; j++ {
				if _, err := conn.Write([]byte("OPERATION + 1\n")); !assert.NoError(t, err) {
					return
				}
				line, err := r.ReadString('\n')
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, "OK\n", line)
			}
		}()
	}
	wg.Wait()

	v, err := s.Acc.Value()
	require.NoError(t, err)
	assert.Equal(t, uint8(clients*perClient%256), v, "every accepted operation is applied exactly once")
}

// Replaying a workload through the wire protocol must agree with folding the
// same arithmetic over a plain uint8.
func TestServerAgreesWithPureFold(t *testing.T) {
	gen := workload.NewGenerator()
	gen.OperationCount = 300
	gen.GetPercentage = 0
	gen.Seed = 7
	instructions := gen.Generate()

	var want uint8
	for _, in := range instructions {
		switch in.Op {
		case "+":
			want += in.Operand
		case "-":
			want -= in.Operand
		case "*":
			want *= in.Operand
		case "/":
			want /= in.Operand
		}
	}

	s := newTestServer()
	addr := serve(t, s)
	conn, r := dial(t, addr)

	for _, in := range instructions {
		line := roundTrip(t, conn, r, string(in.Message().Encode()))
		require.Equal(t, "OK\n", line)
	}
	assert.Equal(t, fmt.Sprintf("VALUE %d\n", want), roundTrip(t, conn, r, "GET\n"))
}
