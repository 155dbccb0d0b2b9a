package server

import (
	"net"

	"github.com/acortes/distributed_calculator/accumulator"
	"github.com/acortes/distributed_calculator/logger"
	"github.com/acortes/distributed_calculator/protocol"
)

// Server accepts connections on Self and runs one handler goroutine per
// connection. All handlers share the one Acc register; Events is the
// best-effort file log and may be nil.
type Server struct {
	Self   *protocol.Connection
	Acc    *accumulator.Accumulator
	Events *logger.Logger

	listener net.Listener
}

func New(self *protocol.Connection, acc *accumulator.Accumulator, events *logger.Logger) *Server {
	return &Server{
		Self:   self,
		Acc:    acc,
		Events: events,
	}
}
