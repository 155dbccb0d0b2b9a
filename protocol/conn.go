package protocol

// Connection describes one dialable or bindable endpoint, e.g.
// {Network: "tcp", Address: "localhost:1234"}. The server binds it, the
// client and benchmark dial it.
type Connection struct {
	Network string
	Address string
}
