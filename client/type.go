package client

import (
	"github.com/charmbracelet/log"

	"github.com/acortes/distributed_calculator/protocol"
)

// Client replays an input stream of request lines against one server and
// prints the final register value.
type Client struct {
	Server *protocol.Connection
}

func New(server *protocol.Connection) *Client {
	log.Debugf("client created for %s", server.Address)
	return &Client{Server: server}
}
