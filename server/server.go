package server

import (
	"errors"
	"fmt"
	"net"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Start binds the listening endpoint and accepts until Stop closes it. A
// bind failure is returned to the caller and is fatal at startup; a failed
// accept is reported and the loop continues. Each accepted connection gets
// its own goroutine and a correlation id for the logs. There is no cap on
// concurrent connections; admission control is an explicit non-goal.
func (s *Server) Start() error {
	l, err := net.Listen(s.Self.Network, s.Self.Address)
	if err != nil {
		return fmt.Errorf("binding %s: %w", s.Self.Address, err)
	}
	s.listener = l
	log.Infof("server listening on %s", s.Self.Address)
	s.Events.Info("server listening on %s", s.Self.Address)

	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Errorf("accepting connection: %s", err)
			s.Events.Error("accepting connection: %s", err)
			continue
		}

		id := uuid.NewString()
		log.Debugf("connection %s accepted from %s", id, conn.RemoteAddr())
		s.Events.Info("connection %s accepted from %s", id, conn.RemoteAddr())
		go s.handleConnection(id, conn)
	}
}

// Stop closes the listener so Start returns. In-flight handlers run to
// completion on their own goroutines.
func (s *Server) Stop() error {
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

func (s *Server) handleConnection(id string, conn net.Conn) {
	defer conn.Close()

	if err := s.handle(conn); err != nil {
		log.Errorf("connection %s: %s", id, err)
		s.Events.Error("connection %s: %s", id, err)
		return
	}
	log.Debugf("connection %s closed by peer", id)
	s.Events.Info("connection %s closed by peer", id)
}
