package domain

import (
	"net"
	"strconv"
)

// Endpoint is a validated IPv4 address and port of a network-reachable service instance.
// Built by service.ParseEndpoint; never mutated after construction.
type Endpoint struct {
	Address string // dotted-quad IPv4
	Port    int
}

// String renders the endpoint as address:port.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Address, strconv.Itoa(e.Port))
}
